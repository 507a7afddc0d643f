package main

import "testing"

func TestParseFileVersionDictionary(t *testing.T) {
	out := "version  ./src/main.c@@/main/3\n" +
		"version  ./src/util.c@@/main/7\n" +
		"not a version line\n"
	dict := parseFileVersionDictionary(out)
	if dict["src/main.c"] != "/main/3" {
		t.Fatalf("src/main.c = %q, want %q", dict["src/main.c"], "/main/3")
	}
	if dict["src/util.c"] != "/main/7" {
		t.Fatalf("src/util.c = %q, want %q", dict["src/util.c"], "/main/7")
	}
	if len(dict) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dict))
	}
}

func TestParseCheckinHistoryFiltersByBranchAndReverses(t *testing.T) {
	blob := "checkinversion\x0120260101.100200\x01alice\x01b.txt\x01/main/2\x01second\n" +
		"checkinversion\x0120260101.100100\x01alice\x01a.txt\x01/main/1\x01first\n" +
		"checkinversion\x0120260101.100050\x01bob\x01c.txt\x01/other/1\x01wrong branch\n"
	records := parseCheckinHistory(blob, "main")
	if len(records) != 2 {
		t.Fatalf("expected 2 records on branch main, got %d", len(records))
	}
	if records[0].Path != "a.txt" || records[1].Path != "b.txt" {
		t.Fatalf("expected oldest-first order, got %v", records)
	}
}

func TestVersionOnBranch(t *testing.T) {
	cases := []struct {
		version, branch string
		want            bool
	}{
		{"/main/12", "main", true},
		{"/main_cc/3", "main", false},
		{"/main/12", "other", false},
		{"/vob/main/7", "main", true},
	}
	for _, c := range cases {
		if got := versionOnBranch(c.version, c.branch); got != c.want {
			t.Fatalf("versionOnBranch(%q, %q) = %v, want %v", c.version, c.branch, got, c.want)
		}
	}
}
