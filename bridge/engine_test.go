package main

import "testing"

func TestFirstLine(t *testing.T) {
	if got := firstLine("one\ntwo\nthree"); got != "one" {
		t.Fatalf("firstLine = %q, want %q", got, "one")
	}
	if got := firstLine("single"); got != "single" {
		t.Fatalf("firstLine = %q, want %q", got, "single")
	}
}

func TestTrimmedEmpty(t *testing.T) {
	if !trimmedEmpty("   \n\t") {
		t.Fatal("expected whitespace-only string to be empty")
	}
	if trimmedEmpty("not empty") {
		t.Fatal("expected non-blank string to not be empty")
	}
}

func TestRenderSyncReportMentionsBothSides(t *testing.T) {
	e := &Engine{}
	report := e.RenderSyncReport(
		map[string]string{"only_in_cc.txt": "/main/1"},
		[]string{"only_in_git.txt"},
	)
	if report == "" {
		t.Fatal("expected a non-empty unified diff report")
	}
	if !containsSubstring(report, "only_in_cc.txt") {
		t.Fatalf("report missing CC-only path: %s", report)
	}
	if !containsSubstring(report, "only_in_git.txt") {
		t.Fatalf("report missing Git-only path: %s", report)
	}
}

func TestChangeSetPathsString(t *testing.T) {
	cs := &ChangeSet{Changes: []AtomicChange{
		modifyChange{path: "a.txt"},
		deleteChange{path: "b.txt"},
	}}
	got := cs.pathsString()
	if !containsSubstring(got, "a.txt") || !containsSubstring(got, "b.txt") {
		t.Fatalf("pathsString() = %q, want both paths present", got)
	}
}
