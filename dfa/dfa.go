// Package dfa holds the deterministic automata produced by determinization.
//
// A DFA is built append-only: states are added one at a time (state 0 is the
// start state), consuming transitions are appended between existing states,
// and SortTransitions establishes the lookup order once construction is done.
// The package does not run the automaton over text; Next is the single-step
// lookup a matcher would build on.
package dfa

import (
	"fmt"
	"io"
	"strings"

	"github.com/coregx/redfa/charmap"
	"github.com/coregx/redfa/internal/conv"
	"github.com/coregx/redfa/internal/dot"
	"golang.org/x/exp/slices"
)

// StateID identifies a DFA state by its index.
type StateID uint32

// DeadState is returned by Next when no transition matches.
// It is never a valid index.
const DeadState StateID = 0xFFFFFFFF

// Transition consumes one code point in Range and moves to Target.
type Transition struct {
	Range  charmap.Range
	Target StateID
}

// State is a DFA state with its outgoing transitions.
type State struct {
	Accepting   bool
	Transitions []Transition
}

// DFA is a deterministic automaton over code points.
//
// After SortTransitions, the transitions of every state are ordered by range
// start and pairwise disjoint, so at most one applies to any code point.
type DFA struct {
	states []State
	sorted bool
}

// New creates an empty DFA.
func New() *DFA {
	return &DFA{}
}

// AddState appends a state and returns its index. Indices start at 0 and
// increase by one per call.
func (d *DFA) AddState(accepting bool) StateID {
	d.states = append(d.states, State{Accepting: accepting})
	return StateID(conv.IntToUint32(len(d.states) - 1))
}

// AddTransition appends a transition from one existing state to another
// over r. Panics if either state does not exist or r is empty.
func (d *DFA) AddTransition(from, to StateID, r charmap.Range) {
	if int(to) >= len(d.states) {
		panic(fmt.Sprintf("dfa: transition to unknown state %d", to))
	}
	if r.IsEmpty() {
		panic("dfa: transition over empty range")
	}
	s := &d.states[from]
	s.Transitions = append(s.Transitions, Transition{Range: r, Target: to})
	d.sorted = false
}

// SortTransitions orders every state's transitions by range start.
func (d *DFA) SortTransitions() {
	for i := range d.states {
		slices.SortFunc(d.states[i].Transitions, func(a, b Transition) bool {
			return a.Range.Start < b.Range.Start
		})
	}
	d.sorted = true
}

// NumStates returns the number of states.
func (d *DFA) NumStates() int {
	return len(d.states)
}

// IsAccepting reports whether state id is accepting.
func (d *DFA) IsAccepting(id StateID) bool {
	return d.states[id].Accepting
}

// Transitions returns the outgoing transitions of state id.
// The returned slice aliases the DFA and must not be modified.
func (d *DFA) Transitions(id StateID) []Transition {
	return d.states[id].Transitions
}

// Next returns the state reached from id by consuming p, or DeadState.
// Panics if the transitions have not been sorted since the last
// AddTransition.
func (d *DFA) Next(id StateID, p uint32) StateID {
	if !d.sorted {
		panic("dfa: Next called before SortTransitions")
	}
	ts := d.states[id].Transitions
	lo, hi := 0, len(ts)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch ts[mid].Range.Compare(p) {
		case -1:
			lo = mid + 1
		case 1:
			hi = mid
		default:
			return ts[mid].Target
		}
	}
	return DeadState
}

// String returns a human-readable listing of the DFA, one state per line.
// Accepting states are marked with '*'.
func (d *DFA) String() string {
	var sb strings.Builder
	for i, s := range d.states {
		fmt.Fprintf(&sb, "%d", i)
		if s.Accepting {
			sb.WriteByte('*')
		}
		sb.WriteByte(':')
		for _, t := range s.Transitions {
			fmt.Fprintf(&sb, " %v->%d", t.Range, t.Target)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteDot writes the DFA as a Graphviz digraph titled title.
func (d *DFA) WriteDot(w io.Writer, title string) error {
	g := dot.New()
	for i, s := range d.states {
		g.AddNode(conv.IntToUint32(i), i == 0, s.Accepting)
	}
	for i, s := range d.states {
		for _, t := range s.Transitions {
			g.AddEdge(conv.IntToUint32(i), uint32(t.Target), t.Range.String())
		}
	}
	return g.Render(w, "dfa", title)
}
