package sparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSparseSet_Insert(t *testing.T) {
	tests := []struct {
		name    string
		inserts []uint32
		wantNew []bool
		want    []uint32
	}{
		{
			name:    "empty",
			inserts: nil,
			wantNew: nil,
			want:    []uint32{},
		},
		{
			name:    "keeps insertion order",
			inserts: []uint32{5, 2, 8, 1},
			wantNew: []bool{true, true, true, true},
			want:    []uint32{5, 2, 8, 1},
		},
		{
			name:    "duplicates are not new",
			inserts: []uint32{3, 3, 0, 3, 0},
			wantNew: []bool{true, false, true, false, false},
			want:    []uint32{3, 0},
		},
		{
			name:    "bounds",
			inserts: []uint32{0, 15},
			wantNew: []bool{true, true},
			want:    []uint32{0, 15},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSparseSet(16)
			var gotNew []bool
			for _, v := range tt.inserts {
				gotNew = append(gotNew, s.Insert(v))
			}
			if diff := cmp.Diff(tt.wantNew, gotNew); diff != "" {
				t.Errorf("Insert results (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, append([]uint32{}, s.Values()...)); diff != "" {
				t.Errorf("Values (-want +got):\n%s", diff)
			}
			if s.IsEmpty() != (len(tt.want) == 0) {
				t.Errorf("IsEmpty = %v for %v", s.IsEmpty(), tt.want)
			}
			for _, v := range tt.want {
				if !s.Contains(v) {
					t.Errorf("Contains(%d) = false", v)
				}
			}
		})
	}
}

func TestSparseSet_InsertOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Insert beyond capacity should panic")
		}
	}()
	NewSparseSet(4).Insert(4)
}

func TestSparseSet_OutOfRange(t *testing.T) {
	s := NewSparseSet(4)
	s.Insert(1)
	for _, v := range []uint32{4, 100, 0xFFFFFFFF} {
		if s.Contains(v) {
			t.Errorf("Contains(%d) = true beyond capacity", v)
		}
		s.Remove(v)
	}
	if diff := cmp.Diff([]uint32{1}, s.Values()); diff != "" {
		t.Errorf("removing absent values changed the set (-want +got):\n%s", diff)
	}
}

// A closure walk reuses one set across many calls; stale sparse entries
// left by Clear must never read as members.
func TestSparseSet_ClearReuse(t *testing.T) {
	s := NewSparseSet(8)
	for round := 0; round < 3; round++ {
		s.Clear()
		if !s.IsEmpty() {
			t.Fatalf("round %d: set not empty after Clear", round)
		}
		for v := uint32(0); v < 8; v++ {
			if s.Contains(v) {
				t.Fatalf("round %d: stale member %d", round, v)
			}
		}
		s.Insert(uint32(7 - round))
		s.Insert(uint32(round))
		if !s.Contains(uint32(round)) || !s.Contains(uint32(7-round)) {
			t.Fatalf("round %d: lost a member: %v", round, s.Values())
		}
	}
}

func TestSparseSet_RemoveKeepsOrder(t *testing.T) {
	s := NewSparseSet(10)
	for _, v := range []uint32{1, 2, 3, 4} {
		s.Insert(v)
	}

	s.Remove(2)
	// The last member takes the removed slot.
	if diff := cmp.Diff([]uint32{1, 4, 3}, s.Values()); diff != "" {
		t.Errorf("Values after Remove(2) (-want +got):\n%s", diff)
	}
	if s.Contains(2) {
		t.Error("Contains(2) after Remove")
	}

	s.Remove(3)
	s.Remove(1)
	s.Remove(4)
	if !s.IsEmpty() {
		t.Errorf("set should be empty, got %v", s.Values())
	}
	if !s.Insert(2) {
		t.Error("Insert after removals should report a new member")
	}
}

func TestSparseSet_Resize(t *testing.T) {
	s := NewSparseSet(4)
	s.Insert(3)
	s.Insert(1)

	s.Resize(10)
	if s.Capacity() != 10 {
		t.Fatalf("Capacity = %d, want 10", s.Capacity())
	}
	if diff := cmp.Diff([]uint32{3, 1}, s.Values()); diff != "" {
		t.Errorf("growing lost members (-want +got):\n%s", diff)
	}
	if !s.Insert(9) || !s.Contains(9) {
		t.Error("new capacity not usable")
	}

	s.Resize(2)
	if s.Capacity() != 2 || !s.IsEmpty() {
		t.Errorf("shrinking: Capacity = %d, Values = %v; want 2, []", s.Capacity(), s.Values())
	}
}

// Draining from the end while pushing new items is how the set serves as a
// worklist: an item already queued is not queued again.
func TestSparseSet_Worklist(t *testing.T) {
	s := NewSparseSet(8)
	s.Insert(0)

	var popped []uint32
	for !s.IsEmpty() {
		vals := s.Values()
		v := vals[len(vals)-1]
		s.Remove(v)
		popped = append(popped, v)

		// Each item queues its two successors mod 4 until eight have been popped.
		if len(popped) < 8 {
			s.Insert((v + 1) % 4)
			s.Insert((v + 2) % 4)
		}
	}
	want := []uint32{0, 2, 0, 2, 0, 2, 0, 2, 3, 1}
	if diff := cmp.Diff(want, popped); diff != "" {
		t.Errorf("pop order (-want +got):\n%s", diff)
	}
}

func BenchmarkSparseSet_ClearInsert(b *testing.B) {
	s := NewSparseSet(1024)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Clear()
		for v := uint32(0); v < 1024; v += 7 {
			s.Insert(v)
		}
	}
}
