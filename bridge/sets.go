// Ordered string sets used for path checkouts/checkins, includes, and the
// pending-commit cache. Thin wrapper over gods' linked hash set, in the
// spirit of the selection-set wrapper in reposurgeon's selection language.

package main

import (
	"sort"
	"strings"

	orderedset "github.com/emirpasic/gods/sets/linkedhashset"
)

// stringSet is an insertion-ordered set of strings.
type stringSet struct {
	set *orderedset.Set
}

func newStringSet(items ...string) stringSet {
	s := orderedset.New()
	for _, it := range items {
		s.Add(it)
	}
	return stringSet{s}
}

func (s stringSet) Add(items ...string) {
	for _, it := range items {
		s.set.Add(it)
	}
}

func (s stringSet) Contains(item string) bool {
	return s.set != nil && s.set.Contains(item)
}

func (s stringSet) Remove(item string) {
	if s.set != nil {
		s.set.Remove(item)
	}
}

func (s stringSet) Len() int {
	if s.set == nil {
		return 0
	}
	return s.set.Size()
}

func (s stringSet) Empty() bool {
	return s.Len() == 0
}

// Ordered returns the set's members in insertion order.
func (s stringSet) Ordered() []string {
	out := make([]string, 0, s.Len())
	if s.set == nil {
		return out
	}
	it := s.set.Iterator()
	for it.Next() {
		out = append(out, it.Value().(string))
	}
	return out
}

// Sorted returns the set's members sorted lexically, for when a
// deterministic-but-not-insertion order is wanted.
func (s stringSet) Sorted() []string {
	out := s.Ordered()
	sort.Strings(out)
	return out
}

func (s stringSet) String() string {
	return "[" + strings.Join(s.Ordered(), ", ") + "]"
}

// union builds a new ordered set that is the union of the arguments, in the
// order each member is first seen.
func union(sets ...stringSet) stringSet {
	out := newStringSet()
	for _, s := range sets {
		for _, item := range s.Ordered() {
			out.Add(item)
		}
	}
	return out
}
