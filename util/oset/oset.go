// Package oset implements an insertion-ordered set of hashable elements.
//
// Iteration always follows the order in which elements were first added, so
// anything built on top of an OSet is deterministic regardless of hashing.
package oset

import (
	"iter"
	"slices"

	"github.com/benbjohnson/immutable"
)

type OSet[A any] struct {
	hasher immutable.Hasher[A]
	// buckets maps a hash to the indices in items sharing it
	buckets map[uint32][]int
	items   []A
}

func Empty[A any](hasher immutable.Hasher[A]) *OSet[A] {
	return &OSet[A]{
		hasher:  hasher,
		buckets: make(map[uint32][]int),
	}
}

func New[A any](hasher immutable.Hasher[A], elems ...A) *OSet[A] {
	n := Empty(hasher)
	n.Add(elems...)
	return n
}

// Add inserts the elements not already present, keeping the first occurrence
// of duplicates. It returns how many elements were new.
func (s *OSet[A]) Add(elems ...A) int {
	added := 0
	for _, elem := range elems {
		if s.Contains(elem) {
			continue
		}
		h := s.hasher.Hash(elem)
		s.buckets[h] = append(s.buckets[h], len(s.items))
		s.items = append(s.items, elem)
		added++
	}
	return added
}

func (s *OSet[A]) Contains(elem A) bool {
	return s.IndexOf(elem) >= 0
}

// IndexOf returns the insertion index of elem, or -1
func (s *OSet[A]) IndexOf(elem A) int {
	for _, i := range s.buckets[s.hasher.Hash(elem)] {
		if s.hasher.Equal(s.items[i], elem) {
			return i
		}
	}
	return -1
}

func (s *OSet[A]) Len() int {
	return len(s.items)
}

func (s *OSet[A]) All() iter.Seq[A] {
	return slices.Values(s.items)
}

// Slice returns a copy of the elements in insertion order
func (s *OSet[A]) Slice() []A {
	return slices.Clone(s.items)
}
