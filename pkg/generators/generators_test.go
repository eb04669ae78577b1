package generators

import (
	"strings"
	"testing"

	"github.com/doppelganger/archviz/pkg/diagram"
)

func TestRegistry(t *testing.T) {
	reg, err := Registry()
	if err != nil {
		t.Fatalf("Registry() error: %v", err)
	}
	if reg.Len() != len(All()) {
		t.Errorf("registry has %d generators, want %d", reg.Len(), len(All()))
	}
}

func TestFileStems(t *testing.T) {
	seen := map[string]string{}
	for _, g := range All() {
		stem := g.FileName()
		if err := diagram.ValidateFileName(stem); err != nil {
			t.Errorf("%s: invalid file stem %q: %v", g.Name(), stem, err)
		}
		if prev, dup := seen[stem]; dup {
			t.Errorf("file stem %q shared by %q and %q", stem, prev, g.Name())
		}
		seen[stem] = g.Name()
	}
}

// Each built-in generator must declare a non-trivial topology without error,
// and do so deterministically.
func TestGenerateDeterministic(t *testing.T) {
	for _, g := range All() {
		t.Run(g.FileName(), func(t *testing.T) {
			build := func() string {
				c := diagram.NewContext(g.Name())
				if err := g.Generate(c); err != nil {
					t.Fatalf("Generate() error: %v", err)
				}
				if c.NodeCount() == 0 || c.EdgeCount() == 0 {
					t.Fatalf("Generate() declared %d nodes, %d edges; want both > 0",
						c.NodeCount(), c.EdgeCount())
				}
				return diagram.ToDOT(c)
			}

			first := build()
			if second := build(); first != second {
				t.Error("Generate() is not deterministic")
			}
		})
	}
}

func TestHighLevelTopology(t *testing.T) {
	c := diagram.NewContext("test")
	if err := (HighLevelArchitecture{}).Generate(c); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	dot := diagram.ToDOT(c)
	for _, want := range []string{
		`label="Service Cluster"`,
		`label="Sessions HA"`,
		`label="Database HA"`,
		`label="grpc2"`,
		`label="collect"`,
		`color="darkgreen"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("high-level DOT missing %s", want)
		}
	}
}

func TestComponentsTopology(t *testing.T) {
	c := diagram.NewContext("test")
	if err := (ComponentsArchitecture{}).Generate(c); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	dot := diagram.ToDOT(c)
	for _, want := range []string{
		`label="Doppelganger"`,
		`label="Shadows"`,
		`label="Behavior Comparator"`,
		`label="Request Replicator"`,
		`label="TCP"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("components DOT missing %s", want)
		}
	}
}

func TestSidecarRelayTopology(t *testing.T) {
	c := diagram.NewContext("test")
	if err := (SidecarRelayArchitecture{}).Generate(c); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	dot := diagram.ToDOT(c)
	for _, want := range []string{
		`label="Service v1"`,
		`label="Service v2"`,
		`label="relay-logs"`,
		`label="consume"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("sidecar relay DOT missing %s", want)
		}
	}
}
