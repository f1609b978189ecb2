// Package freqset implements an ordered, deduplicated set of radio
// frequencies (in MHz), used to enumerate per-scan channels and to
// deduplicate channels when combining multiple OWE discovery targets.
package freqset

import "sort"

// Set is an ordered, deduplicated collection of 32-bit frequencies.
// The zero value is an empty set ready to use.
type Set struct {
	freqs []uint32
}

// New returns a Set containing the given frequencies.
func New(freqs ...uint32) *Set {
	s := &Set{}
	for _, f := range freqs {
		s.Add(f)
	}
	return s
}

// Add inserts freq into the set, keeping freqs sorted ascending. It is a
// no-op if freq is already a member.
func (s *Set) Add(freq uint32) {
	i := sort.Search(len(s.freqs), func(i int) bool { return s.freqs[i] >= freq })
	if i < len(s.freqs) && s.freqs[i] == freq {
		return
	}
	s.freqs = append(s.freqs, 0)
	copy(s.freqs[i+1:], s.freqs[i:])
	s.freqs[i] = freq
}

// Contains reports whether freq is a member of the set.
func (s *Set) Contains(freq uint32) bool {
	i := sort.Search(len(s.freqs), func(i int) bool { return s.freqs[i] >= freq })
	return i < len(s.freqs) && s.freqs[i] == freq
}

// Len returns the number of distinct frequencies in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.freqs)
}

// ForEach calls fn once per frequency in ascending order.
func (s *Set) ForEach(fn func(freq uint32)) {
	if s == nil {
		return
	}
	for _, f := range s.freqs {
		fn(f)
	}
}

// Slice returns the member frequencies in ascending order. The returned
// slice is owned by the caller.
func (s *Set) Slice() []uint32 {
	if s == nil {
		return nil
	}
	out := make([]uint32, len(s.freqs))
	copy(out, s.freqs)
	return out
}

// Union returns a new Set containing every frequency in s or other.
func (s *Set) Union(other *Set) *Set {
	out := New(s.Slice()...)
	other.ForEach(out.Add)
	return out
}

// Equal reports whether s and other contain exactly the same frequencies,
// regardless of insertion order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, f := range s.freqs {
		if other.freqs[i] != f {
			return false
		}
	}
	return true
}

// Free releases the set's backing storage. Included for parity with the
// collaborator interface named in spec.md §2; in Go this simply drops the
// reference so the garbage collector can reclaim it.
func (s *Set) Free() {
	if s == nil {
		return
	}
	s.freqs = nil
}
