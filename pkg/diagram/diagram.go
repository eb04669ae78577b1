// Package diagram defines the contract for static architecture diagrams and
// the drawing context they emit into.
//
// A diagram is a declarative description of nodes (services, databases,
// queues), clusters (named visual groupings) and edges (data flow). Each
// [Generator] declares a fixed topology into a [Context]; the context is then
// converted to Graphviz DOT and rasterized with goccy/go-graphviz. There is
// no runtime decision-making: the same generator always produces the same
// diagram.
package diagram

import (
	"strings"

	"github.com/doppelganger/archviz/pkg/errors"
)

// Generator declares one diagram's nodes, clusters, and edges.
type Generator interface {
	// Name is the display name of the diagram, used as the graph title.
	Name() string

	// FileName is the output file stem (without extension). It must be
	// non-empty and contain no path separators.
	FileName() string

	// Generate declares the diagram topology into the drawing context.
	Generate(c *Context) error
}

// ValidateFileName checks that a file stem is usable as a filesystem name.
func ValidateFileName(stem string) error {
	if stem == "" {
		return errors.New(errors.ErrCodeInvalidDiagram, "empty file name")
	}
	if stem == "." || stem == ".." {
		return errors.New(errors.ErrCodeInvalidDiagram, "invalid file name: %s", stem)
	}
	if strings.ContainsAny(stem, `/\`) {
		return errors.New(errors.ErrCodeInvalidDiagram, "file name contains path separator: %s", stem)
	}
	return nil
}

// Registry is a validated, ordered collection of generators.
// Generators run in registration order; file stems are unique.
type Registry struct {
	gens   []Generator
	byStem map[string]Generator
}

// NewRegistry builds a registry from the given generators.
// It rejects invalid or duplicate file stems so a misdeclared diagram
// surfaces before the batch starts instead of clobbering another
// diagram's output.
func NewRegistry(gens ...Generator) (*Registry, error) {
	r := &Registry{byStem: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		if err := r.Add(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a generator, validating its file stem.
func (r *Registry) Add(g Generator) error {
	stem := g.FileName()
	if err := ValidateFileName(stem); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDiagram, err, "register %q", g.Name())
	}
	if _, exists := r.byStem[stem]; exists {
		return errors.New(errors.ErrCodeInvalidDiagram, "duplicate file name %q (diagram %q)", stem, g.Name())
	}
	r.byStem[stem] = g
	r.gens = append(r.gens, g)
	return nil
}

// All returns the generators in registration order.
func (r *Registry) All() []Generator {
	out := make([]Generator, len(r.gens))
	copy(out, r.gens)
	return out
}

// Get returns the generator with the given file stem.
func (r *Registry) Get(stem string) (Generator, bool) {
	g, ok := r.byStem[stem]
	return g, ok
}

// Len returns the number of registered generators.
func (r *Registry) Len() int {
	return len(r.gens)
}
