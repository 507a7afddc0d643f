package main

import "testing"

func TestStringSetOrdering(t *testing.T) {
	s := newStringSet("c", "a", "b", "a")
	if s.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", s.Len())
	}
	got := s.Ordered()
	want := []string{"c", "a", "b"}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("Ordered()[%d] = %q, want %q", i, got[i], v)
		}
	}
}

func TestStringSetSorted(t *testing.T) {
	s := newStringSet("c", "a", "b")
	got := s.Sorted()
	want := []string{"a", "b", "c"}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("Sorted()[%d] = %q, want %q", i, got[i], v)
		}
	}
}

func TestStringSetContainsAndRemove(t *testing.T) {
	s := newStringSet("a", "b")
	if !s.Contains("a") {
		t.Fatal("expected set to contain a")
	}
	s.Remove("a")
	if s.Contains("a") {
		t.Fatal("expected a to be removed")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 member after remove, got %d", s.Len())
	}
}

func TestUnionPreservesFirstSeenOrder(t *testing.T) {
	a := newStringSet("x", "y")
	b := newStringSet("y", "z")
	u := union(a, b)
	got := u.Ordered()
	want := []string{"x", "y", "z"}
	if len(got) != len(want) {
		t.Fatalf("union length = %d, want %d", len(got), len(want))
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("union()[%d] = %q, want %q", i, got[i], v)
		}
	}
}

func TestEmptySet(t *testing.T) {
	var s stringSet
	if !s.Empty() {
		t.Fatal("zero-value stringSet should be empty")
	}
	if s.Contains("anything") {
		t.Fatal("zero-value stringSet should contain nothing")
	}
}
