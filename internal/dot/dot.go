// Package dot renders automata as Graphviz digraphs.
package dot

import (
	"fmt"
	"io"
	"strings"
)

// Graph accumulates the nodes and edges of one digraph.
// Lines are emitted in insertion order so output is reproducible.
type Graph struct {
	nodes []string
	edges []string
	start []uint32
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode declares state id. Start states get an arrow from an invisible
// entry point; accepting states are drawn with a double outline.
func (g *Graph) AddNode(id uint32, start, accept bool) {
	shape := "circle"
	if accept {
		shape = "doublecircle"
	}
	g.nodes = append(g.nodes, fmt.Sprintf("\ts%d [shape=%s];\n", id, shape))
	if start {
		g.start = append(g.start, id)
	}
}

// AddEdge adds a labeled edge.
func (g *Graph) AddEdge(from, to uint32, label string) {
	g.edges = append(g.edges, fmt.Sprintf("\ts%d -> s%d [label=\"%s\"];\n", from, to, escape(label)))
}

// AddDashedEdge adds a labeled edge drawn dashed, used for edges that
// consume no input.
func (g *Graph) AddDashedEdge(from, to uint32, label string) {
	g.edges = append(g.edges, fmt.Sprintf("\ts%d -> s%d [label=\"%s\"; style=dashed];\n", from, to, escape(label)))
}

// Render writes the graph in DOT syntax as a digraph called name.
func (g *Graph) Render(w io.Writer, name, title string) error {
	if _, err := fmt.Fprintf(w, "digraph %s {\n\trankdir=LR;\n", name); err != nil {
		return err
	}
	for i, id := range g.start {
		if _, err := fmt.Fprintf(w, "\t_start%d [shape=point];\n\t_start%d -> s%d;\n", i, i, id); err != nil {
			return err
		}
	}
	for _, s := range g.nodes {
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	for _, s := range g.edges {
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\tlabelloc=\"t\";\n\tlabel=\"%s\";\n}\n", escape(title))
	return err
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
