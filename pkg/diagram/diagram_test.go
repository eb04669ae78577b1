package diagram

import (
	"testing"

	"github.com/doppelganger/archviz/pkg/errors"
)

// stubGenerator is a minimal generator for registry tests.
type stubGenerator struct {
	name string
	stem string
	fn   func(*Context) error
}

func (s *stubGenerator) Name() string     { return s.name }
func (s *stubGenerator) FileName() string { return s.stem }
func (s *stubGenerator) Generate(c *Context) error {
	if s.fn != nil {
		return s.fn(c)
	}
	return nil
}

var _ Generator = (*stubGenerator)(nil)

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		stem    string
		wantErr bool
	}{
		{"valid", "advanced_web_service", false},
		{"valid with dash", "sidecar-relay", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"leading slash", "/abs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileName(tt.stem)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileName(%q) error = %v, wantErr %v", tt.stem, err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	a := &stubGenerator{name: "A", stem: "a"}
	b := &stubGenerator{name: "B", stem: "b"}

	r, err := NewRegistry(a, b)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	// Registration order preserved
	all := r.All()
	if all[0].Name() != "A" || all[1].Name() != "B" {
		t.Errorf("All() order = %q, %q; want A, B", all[0].Name(), all[1].Name())
	}

	got, ok := r.Get("b")
	if !ok || got.Name() != "B" {
		t.Errorf("Get(b) = %v, %v; want B, true", got, ok)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should return false")
	}
}

func TestNewRegistry_DuplicateStem(t *testing.T) {
	a := &stubGenerator{name: "A", stem: "same"}
	b := &stubGenerator{name: "B", stem: "same"}

	_, err := NewRegistry(a, b)
	if err == nil {
		t.Fatal("NewRegistry() with duplicate stems should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidDiagram) {
		t.Errorf("error code = %v, want INVALID_DIAGRAM", errors.GetCode(err))
	}
}

func TestNewRegistry_InvalidStem(t *testing.T) {
	bad := &stubGenerator{name: "Bad", stem: "has/slash"}

	_, err := NewRegistry(bad)
	if err == nil {
		t.Fatal("NewRegistry() with path separator stem should fail")
	}
}

func TestContext_NodesAndEdges(t *testing.T) {
	c := NewContext("Test Diagram")

	a := c.Node(KindService, "svc-a")
	var b *Node
	c.Cluster("Group", func(cl *Cluster) {
		b = cl.Node(KindDatabase, "db")
	})
	c.Edge(a, b, WithLabel("writes"), WithColor("brown"))
	c.Link(a, b, WithStyle(StyleDotted))

	if c.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", c.NodeCount())
	}
	if c.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", c.EdgeCount())
	}

	edges := c.Edges()
	if edges[0].Label != "writes" || edges[0].Color != "brown" {
		t.Errorf("edge options not applied: %+v", edges[0])
	}
	if !edges[1].Undirected {
		t.Error("Link() should produce an undirected edge")
	}
}

func TestContext_EdgeFanOut(t *testing.T) {
	c := NewContext("fan")
	hub := c.Node(KindGateway, "hub")
	targets := []*Node{
		c.Node(KindService, "s1"),
		c.Node(KindService, "s2"),
		c.Node(KindService, "s3"),
	}

	c.EdgeAll(hub, targets, WithColor("darkgreen"))
	c.EdgeFrom(targets, hub)

	if c.EdgeCount() != 6 {
		t.Errorf("EdgeCount() = %d, want 6", c.EdgeCount())
	}
	for _, e := range c.Edges()[:3] {
		if e.Color != "darkgreen" {
			t.Errorf("EdgeAll option not applied: %+v", e)
		}
	}
}
