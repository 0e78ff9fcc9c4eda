package nfa

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/redfa/charmap"
	"github.com/coregx/redfa/dfa"
	"github.com/dchest/siphash"
)

// Determinize builds a DFA accepting the same language as the NFA using
// the subset construction. Every DFA state stands for one distinct
// epsilon-closed set of NFA states reachable from the start set; it is
// accepting iff the set contains an accepting NFA state.
//
// The start set is the epsilon-closure of state 0 together with the
// anchored start states. Panics if the NFA still has predicate edges;
// call RemovePredicates first.
func (n *NFA) Determinize() *dfa.DFA {
	// Without a limit construction cannot fail.
	d, _ := n.DeterminizeWithLimit(0)
	return d
}

// DeterminizeWithLimit is like Determinize but returns ErrTooManyStates
// once the DFA would have more than maxStates states. A limit of 0 means
// no limit.
func (n *NFA) DeterminizeWithLimit(maxStates int) (*dfa.DFA, error) {
	if n.HasPredicates() {
		panic("nfa: Determinize called with predicate edges present")
	}

	c := newCloser(n)
	ret := dfa.New()
	table := newStateTable()

	seed := n.anchored.Clone()
	if n.NumStates() > 0 {
		seed.Set(uint(StartState))
	}
	start := c.closure(seed)
	table.insert(start, ret.AddState(c.accepting(start)))
	active := []*bitset.BitSet{start}

	for len(active) > 0 {
		cur := active[len(active)-1]
		active = active[:len(active)-1]
		from, _ := table.lookup(cur)

		trans := c.transitions(cur)
		for _, t := range trans.Entries() {
			to, ok := table.lookup(t.Value)
			if !ok {
				if maxStates > 0 && ret.NumStates() >= maxStates {
					return nil, ErrTooManyStates
				}
				to = ret.AddState(c.accepting(t.Value))
				table.insert(t.Value, to)
				active = append(active, t.Value)
			}
			ret.AddTransition(from, to, t.Range)
		}
	}

	ret.SortTransitions()
	return ret, nil
}

// Fixed SipHash key; the table only needs a well-mixed hash, not secrecy.
const (
	tableKey0 = 0x736f6d6570736575
	tableKey1 = 0x646f72616e646f6d
)

// stateTable maps distinct NFA state sets to DFA states. Sets are keyed by
// a SipHash of their members; members of a bucket are compared exactly.
type stateTable struct {
	buckets map[uint64][]tableEntry
	buf     []byte
}

type tableEntry struct {
	set *bitset.BitSet
	id  dfa.StateID
}

func newStateTable() *stateTable {
	return &stateTable{buckets: make(map[uint64][]tableEntry)}
}

// hash digests the members of set in ascending order, so equal sets hash
// equally whatever their capacity.
func (t *stateTable) hash(set *bitset.BitSet) uint64 {
	t.buf = t.buf[:0]
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		t.buf = binary.LittleEndian.AppendUint32(t.buf, uint32(i))
	}
	return siphash.Hash(tableKey0, tableKey1, t.buf)
}

func (t *stateTable) lookup(set *bitset.BitSet) (dfa.StateID, bool) {
	for _, e := range t.buckets[t.hash(set)] {
		if charmap.SameBits(e.set, set) {
			return e.id, true
		}
	}
	return 0, false
}

func (t *stateTable) insert(set *bitset.BitSet, id dfa.StateID) {
	h := t.hash(set)
	t.buckets[h] = append(t.buckets[h], tableEntry{set: set, id: id})
}
