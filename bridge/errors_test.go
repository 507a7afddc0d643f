package main

import "testing"

func TestErrorMessagesNameTheirSubject(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&BackendError{Command: "cleartool co foo", Output: "denied"}, "cleartool co foo"},
		{&MergeConflict{Commit: "abc123", Branch: "master_cc", Detail: "conflict"}, "master_cc"},
		{&CheckoutReserved{Paths: []string{"a.txt"}, Detail: "locked"}, "a.txt"},
		{&UpdateCCArea{Commit: "abc123", Detail: "io error"}, "abc123"},
		{&ConfigError{Detail: "missing git_root"}, "missing git_root"},
		{&LockHeldError{Path: "/repo/.git/.bridge.lock"}, "/repo/.git/.bridge.lock"},
	}
	for _, c := range cases {
		msg := c.err.Error()
		if !containsSubstring(msg, c.want) {
			t.Fatalf("error message %q does not mention %q", msg, c.want)
		}
	}
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
