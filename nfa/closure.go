package nfa

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/redfa/charmap"
	"github.com/coregx/redfa/internal/conv"
	"github.com/coregx/redfa/internal/sparse"
)

// closer computes epsilon-closures. It keeps its visited set and stack
// between calls; the visited set grows with the NFA.
type closer struct {
	nfa   *NFA
	seen  *sparse.SparseSet
	stack []StateID
}

func newCloser(n *NFA) *closer {
	return &closer{
		nfa:  n,
		seen: sparse.NewSparseSet(conv.IntToUint32(n.NumStates())),
	}
}

// closure returns every state reachable from seed through epsilon edges,
// seed included.
//
// Algorithm: iterative DFS with the sparse set as visited set; the result
// is materialized as a bitset sized to the NFA.
func (c *closer) closure(seed *bitset.BitSet) *bitset.BitSet {
	if n := conv.IntToUint32(c.nfa.NumStates()); n > c.seen.Capacity() {
		c.seen.Resize(n)
	}
	c.seen.Clear()
	c.stack = c.stack[:0]

	for i, ok := seed.NextSet(0); ok; i, ok = seed.NextSet(i + 1) {
		id := conv.UintToUint32(i)
		if c.seen.Insert(id) {
			c.stack = append(c.stack, StateID(id))
		}
	}
	for len(c.stack) > 0 {
		s := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		for _, t := range c.nfa.states[s].Transitions.Eps {
			if c.seen.Insert(uint32(t)) {
				c.stack = append(c.stack, t)
			}
		}
	}

	ret := bitset.New(uint(c.nfa.NumStates()))
	for _, id := range c.seen.Values() {
		ret.Set(uint(id))
	}
	return ret
}

// closureOf returns the epsilon-closure of a single state.
func (c *closer) closureOf(id StateID) *bitset.BitSet {
	seed := bitset.New(uint(c.nfa.NumStates()))
	seed.Set(uint(id))
	return c.closure(seed)
}

// accepting reports whether any state in states is accepting.
func (c *closer) accepting(states *bitset.BitSet) bool {
	for i, ok := states.NextSet(0); ok; i, ok = states.NextSet(i + 1) {
		if c.nfa.states[i].Accepting {
			return true
		}
	}
	return false
}

// transitions collects the consuming transitions out of states and groups
// them by atomic range. Each range maps to the epsilon-closure of the
// states it reaches. Callers normally pass an already closed set.
func (c *closer) transitions(states *bitset.BitSet) *charmap.Map[*bitset.BitSet] {
	mm := charmap.NewMultiMap[StateID]()
	for i, ok := states.NextSet(0); ok; i, ok = states.NextSet(i + 1) {
		for _, e := range c.nfa.states[i].Transitions.Ranges {
			mm.Push(e.Range, e.Target)
		}
	}
	ret := charmap.Group(mm)
	ret.MapValues(c.closure)
	return ret
}

// predicates returns the predicate edges out of states.
func (c *closer) predicates(states *bitset.BitSet) []PredicateEdge {
	var ret []PredicateEdge
	for i, ok := states.NextSet(0); ok; i, ok = states.NextSet(i + 1) {
		ret = append(ret, c.nfa.states[i].Transitions.Predicates...)
	}
	return ret
}
