// Pending-commit cache: a newline-delimited list of commit ids pulled from
// the remote but not yet checked in to the CVCS, persisted under the DVCS
// metadata directory so a crash between ingest and egress doesn't lose the
// backlog. Grounded on original_source/bridge.py's _loadGitCommits/
// _saveGitCommits.

package main

import (
	"os"
	"path/filepath"
	"strings"
)

const pendingCacheName = "commit_cache"

type pendingCache struct {
	path string
}

func newPendingCache(gitDir string) *pendingCache {
	return &pendingCache{path: filepath.Join(gitDir, ".git", pendingCacheName)}
}

// Load reads and deletes the cache file, returning the commit ids it held in
// file order. The file is removed immediately on read, before the caller has
// acted on the ids — the same crash-window the Python original accepts: a
// crash between load and a later save can drop the backlog (see DESIGN.md).
func (c *pendingCache) Load() ([]string, error) {
	buf, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := os.Remove(c.path); err != nil {
		return nil, err
	}
	blob := string(buf)
	if blob == "" {
		return nil, nil
	}
	return strings.Split(blob, "\n"), nil
}

// Save writes the given commit ids to the cache file, one per line. A call
// with no ids is a no-op, matching the Python original's early return.
func (c *pendingCache) Save(commits []string) error {
	if len(commits) == 0 {
		return nil
	}
	return os.WriteFile(c.path, []byte(strings.Join(commits, "\n")), 0644)
}
