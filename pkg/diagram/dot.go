package diagram

import (
	"bytes"
	"fmt"
	"strings"
)

// kindAttrs maps a node kind to its DOT shape and fill color.
var kindAttrs = map[Kind]struct {
	shape string
	fill  string
}{
	KindService:    {"box", "#e8f1fb"},
	KindDatabase:   {"cylinder", "#e6f4ea"},
	KindCache:      {"cylinder", "#fdecea"},
	KindQueue:      {"box3d", "#fff4d6"},
	KindMonitoring: {"component", "#f3e8fd"},
	KindGateway:    {"house", "#e0f2f1"},
	KindAggregator: {"cds", "#f0f4c3"},
	KindAnalytics:  {"parallelogram", "#e1f5fe"},
	KindClient:     {"oval", "#f5f5f5"},
	KindContainer:  {"tab", "#e3f2fd"},
	KindNetwork:    {"diamond", "#ede7f6"},
	KindGeneric:    {"box", "white"},
}

// ToDOT converts a populated drawing context to Graphviz DOT.
//
// Output is deterministic: clusters and nodes are emitted in declaration
// order and edges in declaration order, so re-rendering an unchanged
// topology produces byte-identical DOT.
func ToDOT(c *Context) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", c.title)
	buf.WriteString("  labelloc=\"t\";\n")
	buf.WriteString("  fontsize=20;\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontsize=13, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	seq := 0
	writeCluster(&buf, &c.root, 1, &seq)

	buf.WriteString("\n")
	for _, e := range c.edges {
		fmt.Fprintf(&buf, "  %q -> %q", e.From.id, e.To.id)
		attrs := edgeAttrs(e)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeCluster emits a cluster's nodes, then its children as subgraphs.
// The root cluster is unnamed and contributes no subgraph wrapper.
func writeCluster(buf *bytes.Buffer, cl *Cluster, depth int, seq *int) {
	indent := strings.Repeat("  ", depth)

	for _, n := range cl.nodes {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.id, strings.Join(nodeAttrs(n), ", "))
	}

	for _, child := range cl.children {
		*seq++
		fmt.Fprintf(buf, "%ssubgraph \"cluster_%d\" {\n", indent, *seq)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, child.name)
		fmt.Fprintf(buf, "%s  style=\"rounded\";\n", indent)
		fmt.Fprintf(buf, "%s  color=\"#9e9e9e\";\n", indent)
		writeCluster(buf, child, depth+1, seq)
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

func nodeAttrs(n *Node) []string {
	style, ok := kindAttrs[n.kind]
	if !ok {
		style = kindAttrs[KindGeneric]
	}
	return []string{
		fmt.Sprintf("label=%q", n.label),
		fmt.Sprintf("shape=%s", style.shape),
		fmt.Sprintf("fillcolor=%q", style.fill),
	}
}

func edgeAttrs(e Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Color))
	}
	if e.Style != StyleSolid {
		attrs = append(attrs, fmt.Sprintf("style=%q", string(e.Style)))
	}
	if e.Undirected {
		attrs = append(attrs, "dir=none")
	} else if e.Both {
		attrs = append(attrs, "dir=both")
	}
	return attrs
}
