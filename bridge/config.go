// Configuration: parses the bridge's core/email sections. Grounded on
// original_source/util.py's GitConfigParser, keeping the same
// [section]/key = value shape, key names and pipe-delimited include and
// branches lists, but backed by a real TOML parser instead of Python's
// ConfigParser. Values are read as TOML: strings must be quoted and
// recursive is a TOML boolean, so an ini file with bare values does not
// parse as it stands.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type coreConfig struct {
	GitRoot   string `toml:"git_root"`
	CCRoot    string `toml:"cc_root"`
	Remote    string `toml:"remote"`
	LogFile   string `toml:"log_file"`
	Include   string `toml:"include"`
	Branches  string `toml:"branches"`
	Recursive *bool  `toml:"recursive"`
}

type emailConfig struct {
	SMTP      string `toml:"smtp"`
	Sender    string `toml:"sender"`
	Recipients string `toml:"recipients"`
}

// Config is the parsed bridge configuration, with the pipe-delimited list
// fields already split into ordered sets.
type Config struct {
	Path      string
	GitRoot   string
	CCRoot    string
	Remote    string
	LogFile   string
	Include   stringSet
	Branches  stringSet
	Recursive bool

	EmailSMTP       string
	EmailSender     string
	EmailRecipients []string

	core  coreConfig
	email emailConfig
}

// LoadConfig reads path, or — when path is empty — searches the current
// directory and its .git subdirectory for "bgcc.conf", matching
// GitConfigParser's lookup order.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	var doc struct {
		Core  coreConfig  `toml:"core"`
		Email emailConfig `toml:"email"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, &ConfigError{Detail: err.Error()}
	}

	if doc.Core.GitRoot == "" {
		return nil, &ConfigError{Detail: "core.git_root is required"}
	}
	if doc.Core.CCRoot == "" {
		return nil, &ConfigError{Detail: "core.cc_root is required"}
	}

	recursive := true
	if doc.Core.Recursive != nil {
		recursive = *doc.Core.Recursive
	}

	cfg := &Config{
		Path:            path,
		GitRoot:         doc.Core.GitRoot,
		CCRoot:          doc.Core.CCRoot,
		Remote:          doc.Core.Remote,
		LogFile:         doc.Core.LogFile,
		Include:         splitPipeList(doc.Core.Include),
		Branches:        splitPipeList(doc.Core.Branches),
		Recursive:       recursive,
		EmailSMTP:       doc.Email.SMTP,
		EmailSender:     doc.Email.Sender,
		EmailRecipients: splitPipeList(doc.Email.Recipients).Ordered(),
		core:            doc.Core,
		email:           doc.Email,
	}
	return cfg, nil
}

func splitPipeList(raw string) stringSet {
	set := newStringSet()
	if raw == "" {
		return set
	}
	for _, item := range strings.Split(raw, "|") {
		if item != "" {
			set.Add(item)
		}
	}
	return set
}

func defaultConfigPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	candidate := filepath.Join(cwd, "bgcc.conf")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	candidate = filepath.Join(cwd, ".git", "bgcc.conf")
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", &ConfigError{Detail: "no configuration file found"}
}

// Branch returns the single configured CVCS branch name the classifier
// filters checkins against (spec.md models one tracked branch per bridge).
func (c *Config) Branch() string {
	if c.Branches.Len() == 0 {
		return ""
	}
	return c.Branches.Ordered()[0]
}
