// Package generators holds the built-in architecture diagrams for the
// Doppelganger platform documentation.
//
// Each generator is a fixed, declarative topology. Adding a diagram means
// implementing [diagram.Generator] and listing it in [All]; the batch runner
// takes care of rendering and error reporting.
package generators

import "github.com/doppelganger/archviz/pkg/diagram"

// All returns the built-in generators in the order they are rendered.
func All() []diagram.Generator {
	return []diagram.Generator{
		&HighLevelArchitecture{},
		&ComponentsArchitecture{},
		&SidecarRelayArchitecture{},
	}
}

// Registry builds a validated registry of all built-in generators.
func Registry() (*diagram.Registry, error) {
	return diagram.NewRegistry(All()...)
}
