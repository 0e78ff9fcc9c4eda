package charmap

import (
	"math/bits"
)

// ASCIISet is a set of ASCII characters stored as a 128-bit bitmap.
type ASCIISet struct {
	bits [2]uint64
}

// LowerCaseLetters returns the set a-z.
func LowerCaseLetters() ASCIISet {
	var s ASCIISet
	s.AddRange('a', 'z')
	return s
}

// Add inserts b. Bytes above 0x7F are ignored.
func (s *ASCIISet) Add(b byte) {
	if b > 0x7F {
		return
	}
	s.bits[b/64] |= 1 << (b % 64)
}

// AddRange inserts every byte in [lo, hi].
func (s *ASCIISet) AddRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		s.Add(byte(c))
	}
}

// Contains reports whether b is in the set.
func (s ASCIISet) Contains(b byte) bool {
	if b > 0x7F {
		return false
	}
	return s.bits[b/64]&(1<<(b%64)) != 0
}

// Len returns the number of characters in the set.
func (s ASCIISet) Len() int {
	return bits.OnesCount64(s.bits[0]) + bits.OnesCount64(s.bits[1])
}

// Ranges returns the set as maximal ranges of consecutive characters.
func (s ASCIISet) Ranges() []Range {
	var out []Range
	for c := 0; c <= 0x7F; c++ {
		if !s.Contains(byte(c)) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == uint32(c)-1 {
			out[n-1].End = uint32(c)
			continue
		}
		out = append(out, SingleRange(uint32(c)))
	}
	return out
}
