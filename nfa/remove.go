package nfa

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/redfa/internal/conv"
	"github.com/coregx/redfa/internal/sparse"
)

// crossing is a way to pass through one position of the input using
// predicate edges: every predicate crossed there has been intersected into
// pred, and the last one lands on target. entry holds the states from
// which the position can be left through the first predicate; it is
// closed under reversed epsilon edges.
type crossing struct {
	pred   Predicate
	target StateID
	entry  *bitset.BitSet
}

// RemovePredicates rewrites the NFA so that it has no predicate edges but
// accepts the same language.
//
// Every distinct crossing gets one new state. A consuming transition that
// enters a crossing's entry states is duplicated to the new state when the
// consumed code point satisfies the predicate's Before characters, and the
// new state copies the transitions leaving the epsilon-closure of the
// target that satisfy its After characters. Predicates met after the
// target are intersected into longer crossings; two crossings with equal
// predicates and targets share a state, so the rewrite terminates even
// when predicates sit on cycles.
//
// Boundary conditions are lowered too: the new state becomes an anchored
// start state if the predicate holds at the beginning of the input and an
// entry state is reachable there, and it becomes accepting if the
// predicate holds at the end of the input and the target reaches an
// accepting state.
func (n *NFA) RemovePredicates() {
	// Without a limit the rewrite cannot fail.
	_ = n.RemovePredicatesWithLimit(0)
}

// RemovePredicatesWithLimit is like RemovePredicates but gives up with
// ErrTooManyStates, leaving the NFA unchanged, if the result would have
// more than maxStates states. A limit of 0 means no limit.
func (n *NFA) RemovePredicatesWithLimit(maxStates int) error {
	if !n.HasPredicates() {
		return nil
	}

	rev := n.reversed()
	fwd := newCloser(n)
	bwd := newCloser(rev)

	crossings, err := n.collectCrossings(fwd, bwd, maxStates)
	if err != nil {
		return err
	}
	n.lowerCrossings(crossings, rev, fwd, bwd)
	return nil
}

// collectCrossings finds every satisfiable crossing, starting from the
// single predicate edges and extending them through the predicates that
// follow their targets until nothing changes.
func (n *NFA) collectCrossings(fwd, bwd *closer, maxStates int) ([]*crossing, error) {
	var ret []*crossing
	byTarget := make(map[StateID][]int)
	queued := sparse.NewSparseSet(16)

	add := func(p Predicate, target StateID, entry *bitset.BitSet) error {
		for _, i := range byTarget[target] {
			c := ret[i]
			if !c.pred.Equal(p) {
				continue
			}
			if entry.DifferenceCardinality(c.entry) > 0 {
				c.entry.InPlaceUnion(entry)
				queued.Insert(conv.IntToUint32(i))
			}
			return nil
		}

		if maxStates > 0 && n.NumStates()+len(ret) >= maxStates {
			return ErrTooManyStates
		}
		i := conv.IntToUint32(len(ret))
		ret = append(ret, &crossing{pred: p, target: target, entry: entry.Clone()})
		byTarget[target] = append(byTarget[target], int(i))
		if i >= queued.Capacity() {
			queued.Resize(2 * queued.Capacity())
		}
		queued.Insert(i)
		return nil
	}

	for i := range n.states {
		preds := n.states[i].Transitions.Predicates
		if len(preds) == 0 {
			continue
		}
		entry := bwd.closureOf(StateID(conv.IntToUint32(i)))
		for _, e := range preds {
			if err := add(e.Pred, e.Target, entry); err != nil {
				return nil, err
			}
		}
	}

	for !queued.IsEmpty() {
		vals := queued.Values()
		i := vals[len(vals)-1]
		queued.Remove(i)

		c := ret[i]
		for _, e := range fwd.predicates(fwd.closureOf(c.target)) {
			p, ok := c.pred.Intersect(e.Pred)
			if !ok {
				continue
			}
			if err := add(p, e.Target, c.entry); err != nil {
				return nil, err
			}
		}
	}
	return ret, nil
}

// lowerCrossings replaces the predicate edges with one state per crossing.
// All outgoing transitions are wired before any incoming ones, so that the
// new states are sources for each other and for themselves.
func (n *NFA) lowerCrossings(crossings []*crossing, rev *NFA, fwd, bwd *closer) {
	for i := range n.states {
		n.states[i].Transitions.Predicates = nil
		rev.states[i].Transitions.Predicates = nil
	}

	ids := make([]StateID, len(crossings))
	for i, c := range crossings {
		accepting := c.pred.After.AtBoundary && fwd.accepting(fwd.closureOf(c.target))
		ids[i] = n.AddState(accepting)
		rev.AddState(accepting)
		if c.pred.Before.AtBoundary &&
			(c.entry.Test(uint(StartState)) || c.entry.IntersectionCardinality(n.anchored) > 0) {
			n.SetAnchoredStart(ids[i])
		}
	}

	for i, c := range crossings {
		out := c.pred.FilterOutgoing(fwd.transitions(fwd.closureOf(c.target)))
		for _, t := range out.Entries() {
			for s, ok := t.Value.NextSet(0); ok; s, ok = t.Value.NextSet(s + 1) {
				dst := StateID(conv.UintToUint32(s))
				n.AddTransition(ids[i], dst, t.Range)
				rev.AddTransition(dst, ids[i], t.Range)
			}
		}
	}

	for i, c := range crossings {
		in := c.pred.FilterIncoming(bwd.transitions(c.entry))
		for _, t := range in.Entries() {
			for s, ok := t.Value.NextSet(0); ok; s, ok = t.Value.NextSet(s + 1) {
				src := StateID(conv.UintToUint32(s))
				n.AddTransition(src, ids[i], t.Range)
				rev.AddTransition(ids[i], src, t.Range)
			}
		}
	}
}
