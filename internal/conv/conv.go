// Package conv provides checked integer conversions for state numbering.
//
// Automaton states are numbered with uint32 while slice lengths are int and
// bitset indices are uint. A conversion that would wrap means the automaton
// outgrew its ID space, which is a programming error, so these panic.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Compare as uint: on 32-bit platforms int cannot hold math.MaxUint32.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}

// UintToUint32 converts a bitset index to uint32.
// Panics if n > math.MaxUint32.
func UintToUint32(n uint) uint32 {
	if uint64(n) > math.MaxUint32 {
		panic("conv: uint value out of uint32 range")
	}
	return uint32(n)
}
