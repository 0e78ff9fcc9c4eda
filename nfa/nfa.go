package nfa

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/redfa/charmap"
	"github.com/coregx/redfa/internal/conv"
)

// StateID identifies an NFA state by its index.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// Special state constants
const (
	// StartState is the unanchored start state. It always exists in an
	// NFA produced by the Compiler.
	StartState StateID = 0

	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF
)

// RangeEdge is a transition consuming one code point in Range.
type RangeEdge struct {
	Range  charmap.Range
	Target StateID
}

// PredicateEdge is a zero-width transition allowed only where Pred holds.
type PredicateEdge struct {
	Pred   Predicate
	Target StateID
}

// Transitions holds the outgoing edges of a state. The lists may contain
// duplicates and are unordered.
type Transitions struct {
	// Ranges are input-consuming transitions.
	Ranges []RangeEdge

	// Eps are transitions that consume nothing.
	Eps []StateID

	// Predicates are zero-width transitions guarded by a condition on the
	// neighboring code points.
	Predicates []PredicateEdge
}

// State is a single NFA state.
type State struct {
	Transitions Transitions
	Accepting   bool
}

// NFA is a nondeterministic automaton over code points with epsilon and
// predicate edges.
//
// States are stored in an arena and reference each other by StateID, which
// lets the graph contain cycles and be copied cheaply.
//
// State 0 is the start state. By itself it is unanchored: a Compiler gives
// it a self-loop over every code point unless the pattern is anchored.
// The anchored states are extra start states that are only valid at the
// beginning of the input; predicate elimination lowers begin-of-text
// conditions into them.
type NFA struct {
	states   []State
	anchored *bitset.BitSet
}

// New creates an empty NFA.
func New() *NFA {
	return NewWithCapacity(0)
}

// NewWithCapacity creates an empty NFA with room for n states.
func NewWithCapacity(n int) *NFA {
	return &NFA{
		states:   make([]State, 0, n),
		anchored: bitset.New(uint(n)),
	}
}

// NumStates returns the number of states.
func (n *NFA) NumStates() int {
	return len(n.states)
}

// State returns the state with the given ID.
// The returned pointer is invalidated by the next AddState.
func (n *NFA) State(id StateID) *State {
	return &n.states[id]
}

// AddState appends a state and returns its ID.
func (n *NFA) AddState(accepting bool) StateID {
	n.states = append(n.states, State{Accepting: accepting})
	return StateID(conv.IntToUint32(len(n.states) - 1))
}

// AddTransition adds an edge from one state to another consuming a code
// point in r. Panics if from does not exist or r is empty.
func (n *NFA) AddTransition(from, to StateID, r charmap.Range) {
	if r.IsEmpty() {
		panic("nfa: transition over empty range")
	}
	t := &n.states[from].Transitions
	t.Ranges = append(t.Ranges, RangeEdge{Range: r, Target: to})
}

// AddEps adds an epsilon edge. Panics if from does not exist.
func (n *NFA) AddEps(from, to StateID) {
	t := &n.states[from].Transitions
	t.Eps = append(t.Eps, to)
}

// AddPredicate adds a zero-width edge guarded by p.
// Panics if from does not exist.
func (n *NFA) AddPredicate(from, to StateID, p Predicate) {
	t := &n.states[from].Transitions
	t.Predicates = append(t.Predicates, PredicateEdge{Pred: p, Target: to})
}

// TransitionsFrom returns the input-consuming transitions out of id.
// The returned slice aliases the NFA and must not be modified.
func (n *NFA) TransitionsFrom(id StateID) []RangeEdge {
	return n.states[id].Transitions.Ranges
}

// SetAnchoredStart marks id as a start state valid only at the beginning
// of the input.
func (n *NFA) SetAnchoredStart(id StateID) {
	if int(id) >= len(n.states) {
		panic(fmt.Sprintf("nfa: unknown state %d", id))
	}
	n.anchored.Set(uint(id))
}

// IsAnchoredStart reports whether id is an anchored start state.
func (n *NFA) IsAnchoredStart(id StateID) bool {
	return n.anchored.Test(uint(id))
}

// AnchoredStates returns the anchored start states in ascending order.
func (n *NFA) AnchoredStates() []StateID {
	ret := make([]StateID, 0, n.anchored.Count())
	for i, ok := n.anchored.NextSet(0); ok; i, ok = n.anchored.NextSet(i + 1) {
		ret = append(ret, StateID(conv.UintToUint32(i)))
	}
	return ret
}

// HasPredicates reports whether any state has a predicate edge.
func (n *NFA) HasPredicates() bool {
	for i := range n.states {
		if len(n.states[i].Transitions.Predicates) > 0 {
			return true
		}
	}
	return false
}

// reversed returns a copy with every edge reversed. States keep their
// indices and accepting flags; the anchored set is not copied.
//
// A reversed predicate edge is stored at the original target and points
// back at the original source, like every other reversed edge.
func (n *NFA) reversed() *NFA {
	ret := NewWithCapacity(len(n.states))
	for i := range n.states {
		ret.AddState(n.states[i].Accepting)
	}
	for i := range n.states {
		src := StateID(conv.IntToUint32(i))
		t := &n.states[i].Transitions
		for _, e := range t.Ranges {
			ret.AddTransition(e.Target, src, e.Range)
		}
		for _, target := range t.Eps {
			ret.AddEps(target, src)
		}
		for _, e := range t.Predicates {
			ret.AddPredicate(e.Target, src, e.Pred)
		}
	}
	return ret
}
