package main

import "testing"

func rec(op, date, user, path, version, comment string) CheckinRecord {
	return CheckinRecord{Op: op, Date: date, User: user, Path: path, Version: version, Comment: comment}
}

func TestClassifyGroupsByUserAndComment(t *testing.T) {
	records := []CheckinRecord{
		rec("checkinversion", "20260101.100000", "alice", "a.txt", "main/1", "fix a"),
		rec("checkinversion", "20260101.100001", "alice", "b.txt", "main/1", "fix a"),
		rec("checkinversion", "20260101.100100", "bob", "c.txt", "main/1", "fix b"),
	}
	sets := Classify(records, coalesceWindow)
	if len(sets) != 2 {
		t.Fatalf("expected 2 change-sets, got %d", len(sets))
	}
	if len(sets[0].Changes) != 2 {
		t.Fatalf("expected 2 changes in first change-set, got %d", len(sets[0].Changes))
	}
	if sets[0].UserID != "alice" || sets[1].UserID != "bob" {
		t.Fatalf("unexpected user assignment: %s, %s", sets[0].UserID, sets[1].UserID)
	}
}

func TestClassifyCoalescesDeletesWithinWindow(t *testing.T) {
	records := []CheckinRecord{
		rec("checkindirectory version", "20260101.100000", "alice", "dir1", "main/1", `Uncataloged file element "a.txt"`),
		rec("checkindirectory version", "20260101.100002", "alice", "dir1", "main/2", `Uncataloged file element "b.txt"`),
	}
	sets := Classify(records, coalesceWindow)
	if len(sets) != 1 {
		t.Fatalf("expected deletes within window to coalesce into 1 change-set, got %d", len(sets))
	}
	if len(sets[0].Changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(sets[0].Changes))
	}
}

func TestClassifySplitsDeletesOutsideWindow(t *testing.T) {
	records := []CheckinRecord{
		rec("checkindirectory version", "20260101.100000", "alice", "dir1", "main/1", `Uncataloged file element "a.txt"`),
		rec("checkindirectory version", "20260101.100010", "alice", "dir1", "main/2", `Uncataloged file element "b.txt"`),
	}
	sets := Classify(records, coalesceWindow)
	if len(sets) != 2 {
		t.Fatalf("expected deletes outside window to split into 2 change-sets, got %d", len(sets))
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	if sets := Classify(nil, coalesceWindow); sets != nil {
		t.Fatalf("expected nil for empty input, got %v", sets)
	}
}

func TestNewDeleteChangeParsesQuotedFilename(t *testing.T) {
	r := rec("checkindirectory version", "20260101.100000", "alice", "sub/dir", "main/1", `Uncataloged file element "gone.txt"`)
	change, ok := newDeleteChange(r)
	if !ok {
		t.Fatal("expected delete change to parse")
	}
	if change.path != "sub/dir/gone.txt" {
		t.Fatalf("path = %q, want %q", change.path, "sub/dir/gone.txt")
	}
}
