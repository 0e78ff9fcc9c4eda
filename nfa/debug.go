package nfa

import (
	"fmt"
	"io"
	"strings"

	"github.com/coregx/redfa/internal/conv"
	"github.com/coregx/redfa/internal/dot"
)

// String returns a human-readable listing of the NFA, for debugging.
func (n *NFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "NFA (%d states):\n", len(n.states))
	for i := range n.states {
		s := &n.states[i]
		fmt.Fprintf(&sb, "\tState %d (accepting: %v", i, s.Accepting)
		if n.anchored.Test(uint(i)) {
			sb.WriteString(", anchored start")
		}
		sb.WriteString("):\n")

		t := &s.Transitions
		if len(t.Ranges) > 0 {
			sb.WriteString("\t\tTransitions:\n")
			for _, e := range t.Ranges {
				fmt.Fprintf(&sb, "\t\t\t%v => %d\n", e.Range, e.Target)
			}
		}
		if len(t.Eps) > 0 {
			fmt.Fprintf(&sb, "\t\tEps-transitions: %v\n", t.Eps)
		}
		if len(t.Predicates) > 0 {
			sb.WriteString("\t\tPredicates:\n")
			for _, e := range t.Predicates {
				fmt.Fprintf(&sb, "\t\t\t%v => %d\n", e.Pred, e.Target)
			}
		}
	}
	return sb.String()
}

// WriteDot writes the NFA as a Graphviz digraph titled title. Epsilon and
// predicate edges are drawn dashed.
func (n *NFA) WriteDot(w io.Writer, title string) error {
	g := dot.New()
	for i := range n.states {
		id := conv.IntToUint32(i)
		g.AddNode(id, i == 0 || n.anchored.Test(uint(i)), n.states[i].Accepting)
	}
	for i := range n.states {
		id := conv.IntToUint32(i)
		t := &n.states[i].Transitions
		for _, e := range t.Ranges {
			g.AddEdge(id, uint32(e.Target), e.Range.String())
		}
		for _, target := range t.Eps {
			g.AddDashedEdge(id, uint32(target), "ε")
		}
		for _, e := range t.Predicates {
			g.AddDashedEdge(id, uint32(e.Target), e.Pred.String())
		}
	}
	return g.Render(w, "nfa", title)
}
