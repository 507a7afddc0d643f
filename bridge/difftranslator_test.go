package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewAddDiffFindsMissingAncestors(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "existing"), 0755); err != nil {
		t.Fatal(err)
	}
	d := newAddDiff("c1", root, "existing/new/deep/file.txt")
	if d.ancestor != "existing" {
		t.Fatalf("ancestor = %q, want %q", d.ancestor, "existing")
	}
	if len(d.missing) != 2 {
		t.Fatalf("missing = %v, want 2 entries", d.missing)
	}
	checkins := d.Checkins()
	if checkins[0] != "existing/new/deep/file.txt" || checkins[1] != "existing" {
		t.Fatalf("unexpected checkins: %v", checkins)
	}
}

func TestNewAddDiffAtRoot(t *testing.T) {
	root := t.TempDir()
	d := newAddDiff("c1", root, "file.txt")
	if d.ancestor != "." {
		t.Fatalf("ancestor = %q, want %q", d.ancestor, ".")
	}
	if len(d.missing) != 0 {
		t.Fatalf("missing = %v, want none", d.missing)
	}
}

func TestNewDelDiffWalksToExistingAncestor(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	d := newDelDiff(root, "pkg/sub/file.txt")
	if d.ancestor != "pkg" {
		t.Fatalf("ancestor = %q, want %q", d.ancestor, "pkg")
	}
}

func TestNewRenameDiffChecksOutSourceAndDestDirs(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	d := newRenameDiff("c1", root, "src/old.txt", "src/renamed/new.txt")
	if d.srcDir != "src" {
		t.Fatalf("srcDir = %q, want %q", d.srcDir, "src")
	}
	if d.dstDir != "src" {
		t.Fatalf("dstDir = %q, want %q", d.dstDir, "src")
	}
	if len(d.missing) != 1 || d.missing[0] != "src/renamed" {
		t.Fatalf("missing = %v, want [src/renamed]", d.missing)
	}
}

func TestBuildDiffsRejectsUnknownSymbol(t *testing.T) {
	_, err := buildDiffs("c1", t.TempDir(), []DiffEntry{{Symbol: 'X', Path: "f"}})
	if err == nil {
		t.Fatal("expected error for unknown diff symbol")
	}
}

func TestBuildDiffsDispatchesBySymbol(t *testing.T) {
	root := t.TempDir()
	entries := []DiffEntry{
		{Symbol: 'M', Path: "m.txt"},
		{Symbol: 'A', Path: "a.txt"},
		{Symbol: 'D', Path: "d.txt"},
		{Symbol: 'R', Path: "old.txt", Dst: "new.txt"},
	}
	diffs, err := buildDiffs("c1", root, entries)
	if err != nil {
		t.Fatal(err)
	}
	if len(diffs) != 4 {
		t.Fatalf("expected 4 diffs, got %d", len(diffs))
	}
}
