package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bgcc.conf")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigParsesCoreAndEmail(t *testing.T) {
	path := writeTestConfig(t, `
[core]
git_root = "/repos/proj"
cc_root = "/views/proj/vob"
remote = "origin/master"
log_file = "/var/log/bridge.log"
include = "src|doc"
branches = "main"

[email]
smtp = "mail.example.com"
sender = "bridge@example.com"
recipients = "a@example.com|b@example.com"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GitRoot != "/repos/proj" || cfg.CCRoot != "/views/proj/vob" {
		t.Fatalf("unexpected roots: %+v", cfg)
	}
	if !cfg.Recursive {
		t.Fatal("expected recursive to default true")
	}
	if !cfg.Include.Contains("src") || !cfg.Include.Contains("doc") {
		t.Fatalf("unexpected include set: %v", cfg.Include.Ordered())
	}
	if cfg.Branch() != "main" {
		t.Fatalf("Branch() = %q, want %q", cfg.Branch(), "main")
	}
	if len(cfg.EmailRecipients) != 2 {
		t.Fatalf("expected 2 recipients, got %v", cfg.EmailRecipients)
	}
}

func TestLoadConfigRecursiveOverride(t *testing.T) {
	path := writeTestConfig(t, `
[core]
git_root = "/repos/proj"
cc_root = "/views/proj/vob"
branches = "main"
recursive = false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Recursive {
		t.Fatal("expected recursive override to false")
	}
}

func TestLoadConfigMissingRequiredField(t *testing.T) {
	path := writeTestConfig(t, `
[core]
cc_root = "/views/proj/vob"
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for missing git_root")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.conf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
