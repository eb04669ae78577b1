package diagram

import "fmt"

// Kind categorizes a node for styling purposes. Each kind maps to a DOT
// shape and fill color in [ToDOT].
type Kind string

// Node kinds. These mirror the component categories that appear in the
// architecture diagrams: services, data stores, brokers, monitoring, and
// network elements.
const (
	KindService    Kind = "service"
	KindDatabase   Kind = "database"
	KindCache      Kind = "cache"
	KindQueue      Kind = "queue"
	KindMonitoring Kind = "monitoring"
	KindGateway    Kind = "gateway"
	KindAggregator Kind = "aggregator"
	KindAnalytics  Kind = "analytics"
	KindClient     Kind = "client"
	KindContainer  Kind = "container"
	KindNetwork    Kind = "network"
	KindGeneric    Kind = "generic"
)

// EdgeStyle is the visual style of an edge line.
type EdgeStyle string

// Edge styles, matching Graphviz style attribute values.
const (
	StyleSolid  EdgeStyle = ""
	StyleDashed EdgeStyle = "dashed"
	StyleDotted EdgeStyle = "dotted"
	StyleBold   EdgeStyle = "bold"
)

// Node is a single labeled box in the diagram.
// Nodes are created through [Context.Node] or [Cluster.Node] and are only
// meaningful within the context that created them.
type Node struct {
	id    string
	label string
	kind  Kind
}

// Label returns the node's display label.
func (n *Node) Label() string { return n.label }

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Edge is a connection between two nodes.
type Edge struct {
	From       *Node
	To         *Node
	Label      string
	Color      string
	Style      EdgeStyle
	Undirected bool
	Both       bool // arrowheads on both ends
}

// EdgeOption configures an edge.
type EdgeOption func(*Edge)

// WithLabel sets the edge label.
func WithLabel(label string) EdgeOption {
	return func(e *Edge) { e.Label = label }
}

// WithColor sets the edge color (Graphviz color name).
func WithColor(color string) EdgeOption {
	return func(e *Edge) { e.Color = color }
}

// WithStyle sets the edge line style.
func WithStyle(style EdgeStyle) EdgeOption {
	return func(e *Edge) { e.Style = style }
}

// Bidirectional puts arrowheads on both ends of the edge.
func Bidirectional() EdgeOption {
	return func(e *Edge) { e.Both = true }
}

// Cluster is a named visual grouping of nodes. Clusters may nest.
type Cluster struct {
	ctx      *Context
	name     string
	nodes    []*Node
	children []*Cluster
}

// Node declares a node inside this cluster.
func (cl *Cluster) Node(kind Kind, label string) *Node {
	n := cl.ctx.newNode(kind, label)
	cl.nodes = append(cl.nodes, n)
	return n
}

// Cluster declares a nested cluster and runs fn to populate it.
func (cl *Cluster) Cluster(name string, fn func(*Cluster)) {
	child := &Cluster{ctx: cl.ctx, name: name}
	cl.children = append(cl.children, child)
	fn(child)
}

// Context is the drawing context a generator emits into. It collects node,
// cluster, and edge declarations; [ToDOT] converts the result to Graphviz
// DOT for rendering.
//
// A Context is not safe for concurrent use. Each generator receives its own
// context, scoped to a single batch entry.
type Context struct {
	title string
	root  Cluster
	edges []Edge
	seq   int
}

// NewContext creates a drawing context titled with the diagram's display name.
func NewContext(title string) *Context {
	c := &Context{title: title}
	c.root.ctx = c
	return c
}

// Title returns the diagram title.
func (c *Context) Title() string { return c.title }

// Node declares a top-level node (outside any cluster).
func (c *Context) Node(kind Kind, label string) *Node {
	return c.root.Node(kind, label)
}

// Cluster declares a top-level cluster and runs fn to populate it.
func (c *Context) Cluster(name string, fn func(*Cluster)) {
	c.root.Cluster(name, fn)
}

// Edge declares a directed edge from one node to another.
func (c *Context) Edge(from, to *Node, opts ...EdgeOption) {
	c.addEdge(from, to, false, opts)
}

// Link declares an undirected edge between two nodes.
func (c *Context) Link(a, b *Node, opts ...EdgeOption) {
	c.addEdge(a, b, true, opts)
}

// EdgeAll declares directed edges from a single node to each of the targets,
// all sharing the same options.
func (c *Context) EdgeAll(from *Node, to []*Node, opts ...EdgeOption) {
	for _, t := range to {
		c.addEdge(from, t, false, opts)
	}
}

// EdgeFrom declares directed edges from each source to a single target,
// all sharing the same options.
func (c *Context) EdgeFrom(from []*Node, to *Node, opts ...EdgeOption) {
	for _, f := range from {
		c.addEdge(f, to, false, opts)
	}
}

// Edges returns the declared edges in declaration order.
func (c *Context) Edges() []Edge {
	out := make([]Edge, len(c.edges))
	copy(out, c.edges)
	return out
}

// NodeCount returns the number of declared nodes.
func (c *Context) NodeCount() int { return c.seq }

// EdgeCount returns the number of declared edges.
func (c *Context) EdgeCount() int { return len(c.edges) }

func (c *Context) addEdge(from, to *Node, undirected bool, opts []EdgeOption) {
	e := Edge{From: from, To: to, Undirected: undirected}
	for _, opt := range opts {
		opt(&e)
	}
	c.edges = append(c.edges, e)
}

// newNode assigns a sequential DOT identifier. Declaration order drives the
// identifier, which keeps DOT output deterministic across runs.
func (c *Context) newNode(kind Kind, label string) *Node {
	c.seq++
	return &Node{
		id:    fmt.Sprintf("n%d", c.seq),
		label: label,
		kind:  kind,
	}
}
