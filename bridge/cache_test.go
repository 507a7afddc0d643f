package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPendingCacheSaveLoadRemovesFile(t *testing.T) {
	gitDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(gitDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	cache := newPendingCache(gitDir)

	if err := cache.Save([]string{"c1", "c2", "c3"}); err != nil {
		t.Fatal(err)
	}
	commits, err := cache.Load()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c1", "c2", "c3"}
	if len(commits) != len(want) {
		t.Fatalf("commits = %v, want %v", commits, want)
	}
	for i, c := range want {
		if commits[i] != c {
			t.Fatalf("commits[%d] = %q, want %q", i, commits[i], c)
		}
	}
	if _, err := os.Stat(filepath.Join(gitDir, ".git", pendingCacheName)); !os.IsNotExist(err) {
		t.Fatal("expected cache file to be removed after Load")
	}
}

func TestPendingCacheLoadMissingFile(t *testing.T) {
	gitDir := t.TempDir()
	cache := newPendingCache(gitDir)
	commits, err := cache.Load()
	if err != nil {
		t.Fatal(err)
	}
	if commits != nil {
		t.Fatalf("expected nil commits, got %v", commits)
	}
}

func TestPendingCacheSaveNoopOnEmpty(t *testing.T) {
	gitDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(gitDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	cache := newPendingCache(gitDir)
	if err := cache.Save(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(gitDir, ".git", pendingCacheName)); !os.IsNotExist(err) {
		t.Fatal("expected no cache file to be written for empty commit list")
	}
}
