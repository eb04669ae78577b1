// Package topology loads user-defined diagrams from YAML files.
//
// A topology file is the declarative equivalent of a built-in generator:
// it names the diagram, lists clusters, nodes, and edges, and renders
// through the same batch runner. This lets documentation authors add
// diagrams without touching Go code.
//
// Example:
//
//	name: Payment Flow
//	file_name: payment_flow
//	clusters:
//	  - name: Backend
//	    nodes:
//	      - {id: api, label: API, kind: service}
//	      - {id: db, label: Payments DB, kind: database}
//	edges:
//	  - {from: api, to: db, label: writes}
package topology

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/doppelganger/archviz/pkg/diagram"
	"github.com/doppelganger/archviz/pkg/errors"
)

// File is the YAML document format for a topology.
type File struct {
	Name     string    `yaml:"name"`
	FileName string    `yaml:"file_name"`
	Clusters []Cluster `yaml:"clusters,omitempty"`
	Nodes    []Node    `yaml:"nodes,omitempty"`
	Edges    []Edge    `yaml:"edges,omitempty"`
}

// Cluster is a named grouping of nodes. Clusters may nest.
type Cluster struct {
	Name     string    `yaml:"name"`
	Nodes    []Node    `yaml:"nodes,omitempty"`
	Clusters []Cluster `yaml:"clusters,omitempty"`
}

// Node is a labeled box. Kind selects shape and color; empty means generic.
type Node struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
}

// Edge connects two nodes by ID.
type Edge struct {
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	Label         string `yaml:"label,omitempty"`
	Color         string `yaml:"color,omitempty"`
	Style         string `yaml:"style,omitempty"`
	Undirected    bool   `yaml:"undirected,omitempty"`
	Bidirectional bool   `yaml:"bidirectional,omitempty"`
}

// knownKinds guards against typos in topology files.
var knownKinds = map[string]diagram.Kind{
	"":           diagram.KindGeneric,
	"service":    diagram.KindService,
	"database":   diagram.KindDatabase,
	"cache":      diagram.KindCache,
	"queue":      diagram.KindQueue,
	"monitoring": diagram.KindMonitoring,
	"gateway":    diagram.KindGateway,
	"aggregator": diagram.KindAggregator,
	"analytics":  diagram.KindAnalytics,
	"client":     diagram.KindClient,
	"container":  diagram.KindContainer,
	"network":    diagram.KindNetwork,
	"generic":    diagram.KindGeneric,
}

var knownStyles = map[string]diagram.EdgeStyle{
	"":       diagram.StyleSolid,
	"solid":  diagram.StyleSolid,
	"dashed": diagram.StyleDashed,
	"dotted": diagram.StyleDotted,
	"bold":   diagram.StyleBold,
}

// Diagram is a generator backed by a parsed topology file.
type Diagram struct {
	file File
	src  string // source path, for error messages
}

// Load parses and validates a topology file.
func Load(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read topology %s", path)
	}
	return Parse(data, path)
}

// Parse parses and validates topology YAML. src is used in error messages.
func Parse(data []byte, src string) (*Diagram, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTopology, err, "parse topology %s", src)
	}

	d := &Diagram{file: f, src: src}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadGlobs loads every topology file matching the given glob patterns.
// Matches are de-duplicated and sorted for a stable generator order.
func LoadGlobs(patterns []string) ([]diagram.Generator, error) {
	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "bad topology glob %s", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)

	gens := make([]diagram.Generator, 0, len(paths))
	for _, p := range paths {
		d, err := Load(p)
		if err != nil {
			return nil, err
		}
		gens = append(gens, d)
	}
	return gens, nil
}

func (d *Diagram) validate() error {
	if d.file.Name == "" {
		return errors.New(errors.ErrCodeInvalidTopology, "%s: missing diagram name", d.src)
	}
	if err := diagram.ValidateFileName(d.file.FileName); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTopology, err, "%s", d.src)
	}

	ids := map[string]bool{}
	var collect func(nodes []Node, clusters []Cluster) error
	collect = func(nodes []Node, clusters []Cluster) error {
		for _, n := range nodes {
			if n.ID == "" {
				return errors.New(errors.ErrCodeInvalidTopology, "%s: node with empty id", d.src)
			}
			if ids[n.ID] {
				return errors.New(errors.ErrCodeInvalidTopology, "%s: duplicate node id %q", d.src, n.ID)
			}
			if _, ok := knownKinds[n.Kind]; !ok {
				return errors.New(errors.ErrCodeInvalidTopology, "%s: node %q has unknown kind %q", d.src, n.ID, n.Kind)
			}
			ids[n.ID] = true
		}
		for _, cl := range clusters {
			if cl.Name == "" {
				return errors.New(errors.ErrCodeInvalidTopology, "%s: cluster with empty name", d.src)
			}
			if err := collect(cl.Nodes, cl.Clusters); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(d.file.Nodes, d.file.Clusters); err != nil {
		return err
	}
	if len(ids) == 0 {
		return errors.New(errors.ErrCodeInvalidTopology, "%s: topology declares no nodes", d.src)
	}

	for i, e := range d.file.Edges {
		if !ids[e.From] {
			return errors.New(errors.ErrCodeInvalidTopology, "%s: edge %d references unknown node %q", d.src, i, e.From)
		}
		if !ids[e.To] {
			return errors.New(errors.ErrCodeInvalidTopology, "%s: edge %d references unknown node %q", d.src, i, e.To)
		}
		if _, ok := knownStyles[e.Style]; !ok {
			return errors.New(errors.ErrCodeInvalidTopology, "%s: edge %d has unknown style %q", d.src, i, e.Style)
		}
	}
	return nil
}

// Name returns the diagram's display name.
func (d *Diagram) Name() string { return d.file.Name }

// FileName returns the output file stem.
func (d *Diagram) FileName() string { return d.file.FileName }

// Source returns the path the topology was loaded from.
func (d *Diagram) Source() string { return d.src }

// Generate declares the topology into the drawing context.
func (d *Diagram) Generate(c *diagram.Context) error {
	nodes := map[string]*diagram.Node{}

	addNode := func(into func(diagram.Kind, string) *diagram.Node, n Node) {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		nodes[n.ID] = into(knownKinds[n.Kind], label)
	}

	var emit func(cl *diagram.Cluster, nodeDefs []Node, clusterDefs []Cluster)
	emit = func(cl *diagram.Cluster, nodeDefs []Node, clusterDefs []Cluster) {
		for _, n := range nodeDefs {
			addNode(cl.Node, n)
		}
		for _, child := range clusterDefs {
			child := child
			cl.Cluster(child.Name, func(inner *diagram.Cluster) {
				emit(inner, child.Nodes, child.Clusters)
			})
		}
	}

	for _, n := range d.file.Nodes {
		addNode(c.Node, n)
	}
	for _, cl := range d.file.Clusters {
		cl := cl
		c.Cluster(cl.Name, func(inner *diagram.Cluster) {
			emit(inner, cl.Nodes, cl.Clusters)
		})
	}

	for _, e := range d.file.Edges {
		var opts []diagram.EdgeOption
		if e.Label != "" {
			opts = append(opts, diagram.WithLabel(e.Label))
		}
		if e.Color != "" {
			opts = append(opts, diagram.WithColor(e.Color))
		}
		if style := knownStyles[e.Style]; style != diagram.StyleSolid {
			opts = append(opts, diagram.WithStyle(style))
		}
		if e.Bidirectional {
			opts = append(opts, diagram.Bidirectional())
		}

		if e.Undirected {
			c.Link(nodes[e.From], nodes[e.To], opts...)
		} else {
			c.Edge(nodes[e.From], nodes[e.To], opts...)
		}
	}
	return nil
}

var _ diagram.Generator = (*Diagram)(nil)

// String implements fmt.Stringer for log output.
func (d *Diagram) String() string {
	return fmt.Sprintf("topology %q (%s)", d.file.Name, d.src)
}
