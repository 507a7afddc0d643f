// DVCS adapter: a typed facade over the distributed VCS tool (refs, diffs,
// blobs, merges, tags). Grounded on the command tables in surgeon/vcs.go and
// the invocation style of surgeon/inner.go's runProcess, but narrowed to the
// single fixed backend the bridge drives instead of a pluggable VCS table —
// the backend command vectors are part of this spec's contract (spec.md §6).

package main

import (
	"fmt"
	"strings"
	"time"
)

const dvcsTimeLayout = "2006-01-02 15:04:05 -0700"

// DiffEntry is one path-level entry from a commit's status diff.
type DiffEntry struct {
	Symbol byte   // 'A', 'M', 'D', or 'R'
	Path   string // source path (or the sole path for A/M/D)
	Dst    string // destination path, only set for renames
}

// CommitRecord is one entry of a forward, first-parent-only commit log.
type CommitRecord struct {
	ID      string
	Subject string
	Body    string
}

// Message returns the commit message the way the CVCS check-in comment is
// built: subject alone, or subject+body when a body is present.
func (c CommitRecord) Message() string {
	msg := c.Subject
	if strings.TrimSpace(c.Body) != "" {
		msg = c.Subject + "\n" + c.Body
	}
	return strings.Trim(msg, "\n")
}

// DVCSAdapter is a typed facade over the distributed VCS command-line tool.
type DVCSAdapter struct {
	dir    string
	remote string // remote name; empty means no-remote mode
	runner *processRunner
}

func newDVCSAdapter(dir, remote string) *DVCSAdapter {
	return &DVCSAdapter{dir: dir, remote: remote, runner: newProcessRunner(dir)}
}

func (d *DVCSAdapter) exec(args ...string) (string, error) {
	return d.runner.run(append([]string{"git"}, args...), nil, false)
}

func (d *DVCSAdapter) execEnv(env map[string]string, tolerateFailure bool, args ...string) (string, error) {
	return d.runner.run(append([]string{"git"}, args...), env, tolerateFailure)
}

// Lifecycle

func (d *DVCSAdapter) exists() bool {
	_, err := d.exec("rev-parse", "--git-dir")
	return err == nil
}

func (d *DVCSAdapter) init() error {
	_, err := d.exec("init", "--quiet")
	return err
}

func (d *DVCSAdapter) updateRemote() error {
	if d.remote == "" {
		return nil
	}
	_, err := d.exec("remote", "update", d.remote)
	return err
}

func (d *DVCSAdapter) pullRebase() error {
	_, err := d.exec("pull", "--rebase")
	return err
}

func (d *DVCSAdapter) push() error {
	if d.remote == "" {
		return nil
	}
	_, err := d.exec("push", d.remote)
	return err
}

// Refs

func (d *DVCSAdapter) branchHead(ref string) (string, error) {
	if ref == "" {
		ref = "HEAD"
	}
	out, err := d.exec("show", "-s", "--format=%H", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (d *DVCSAdapter) checkout(ref string) error {
	if _, err := d.exec("rev-parse", "--verify", "-q", ref); err != nil {
		_, err := d.exec("checkout", "-q", "-b", ref)
		return err
	}
	_, err := d.exec("checkout", "-q", ref)
	return err
}

func (d *DVCSAdapter) resetHard(ref string) error {
	_, err := d.exec("reset", "--hard", ref)
	return err
}

// resetBranches restores a set of named branches to given target commits,
// checking each out in turn so the reset applies to the right ref.
func (d *DVCSAdapter) resetBranches(targets map[string]string) error {
	for branch, target := range targets {
		if target == "" {
			continue
		}
		if err := d.checkout(branch); err != nil {
			return err
		}
		if err := d.resetHard(target); err != nil {
			return err
		}
	}
	return nil
}

func (d *DVCSAdapter) setTag(name, ref string) error {
	args := []string{"tag", "-f", name}
	if ref != "" {
		args = append(args, ref)
	}
	_, err := d.exec(args...)
	return err
}

func (d *DVCSAdapter) removeTag(name string) error {
	_, err := d.execEnv(nil, true, "tag", "-d", name)
	return err
}

func (d *DVCSAdapter) tagExists(name string) bool {
	out, err := d.exec("tag", "-l", name)
	return err == nil && strings.TrimSpace(out) == name
}

// Staging

func (d *DVCSAdapter) addFile(path string) error {
	// Already-tracked files are tolerated: the classifier may re-add a path
	// whose content happens to already be staged from a previous change in
	// the same change-set.
	_, err := d.execEnv(nil, true, "add", "-f", path)
	return err
}

func (d *DVCSAdapter) removeFile(path string) error {
	_, err := d.execEnv(nil, true, "rm", "-f", "--ignore-unmatch", path)
	return err
}

// nothingToCommit reports whether a commit error was Git's "nothing to
// commit" condition, the one DVCS failure the engine recovers from locally.
func nothingToCommit(err error) bool {
	be, ok := err.(*BackendError)
	if !ok {
		return false
	}
	out := strings.ToLower(be.Output)
	return strings.Contains(out, "nothing to commit") || strings.Contains(out, "nothing added to commit")
}

// commit records the already-staged changes with the given message and
// identity environment overlay. Returns ("", nil) when there was nothing to
// commit.
func (d *DVCSAdapter) commit(msg string, env map[string]string) (string, error) {
	_, err := d.execEnv(env, false, "commit", "-q", "-m", msg)
	if err != nil {
		if nothingToCommit(err) {
			return "", nil
		}
		return "", err
	}
	return d.branchHead("HEAD")
}

// Introspection

func (d *DVCSAdapter) filesList() ([]string, error) {
	out, err := d.exec("ls-files")
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// diffsByCommit returns the path-level diff for a single commit, with
// rename detection enabled, as raw status entries.
func (d *DVCSAdapter) diffsByCommit(id string) ([]DiffEntry, error) {
	out, err := d.exec("diff", "--name-status", "-M", "-z", fmt.Sprintf("%s^..%s", id, id))
	if err != nil {
		return nil, err
	}
	return parseDiffStatus(out), nil
}

// parseDiffStatus parses NUL-delimited `git diff --name-status -z` output
// into DiffEntry values, matching
// CommitToClearcase._getCommitFileChanges's status.split('\x00') loop.
func parseDiffStatus(out string) []DiffEntry {
	fields := strings.Split(strings.Trim(out, "\x00"), "\x00")
	var diffs []DiffEntry
	for len(fields) > 0 && fields[0] != "" {
		status := fields[0]
		fields = fields[1:]
		symbol := status[0]
		path := fields[0]
		fields = fields[1:]
		if symbol == 'R' {
			dst := fields[0]
			fields = fields[1:]
			diffs = append(diffs, DiffEntry{Symbol: 'R', Path: path, Dst: dst})
		} else {
			diffs = append(diffs, DiffEntry{Symbol: symbol, Path: path})
		}
	}
	return diffs
}

func (d *DVCSAdapter) blob(id, path string) ([]byte, error) {
	cmd := d.runner
	out, err := cmd.run([]string{"git", "show", fmt.Sprintf("%s:%s", id, path)}, nil, false)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (d *DVCSAdapter) commitMessage(id string) (string, error) {
	out, err := d.exec("log", "--format=%B", "-n", "1", id)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func (d *DVCSAdapter) commitDate(id string) (time.Time, error) {
	out, err := d.exec("show", "-s", "--format=%ai", id)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(dvcsTimeLayout, strings.TrimSpace(out))
}

func (d *DVCSAdapter) authorName(id string) (string, error) {
	out, err := d.exec("show", "-s", "--format=%an", id)
	return strings.TrimSpace(out), err
}

func (d *DVCSAdapter) authorEmail(id string) (string, error) {
	out, err := d.exec("show", "-s", "--format=%ae", id)
	return strings.TrimSpace(out), err
}

// Merging

func (d *DVCSAdapter) mergeCommitFf(id, msg string) error {
	_, err := d.exec("merge", "--ff", "--commit", "-m", msg, id)
	return err
}

func (d *DVCSAdapter) mergeCommitNoFf(id, msg string) error {
	_, err := d.exec("merge", "--no-ff", "--commit", "-m", msg, id)
	return err
}

func (d *DVCSAdapter) mergeAbort() error {
	_, err := d.execEnv(nil, true, "merge", "--abort")
	return err
}

// History

// commitHistoryPathBlob returns forward, first-parent-only commit records
// strictly between from (exclusive) and to (inclusive).
func (d *DVCSAdapter) commitHistoryPathBlob(from, to string) ([]CommitRecord, error) {
	out, err := d.exec("log", "-z", "--first-parent", "--reverse",
		"--format=%x01%H%x02%s%x02%b", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return nil, err
	}
	return parseCommitHistory(out), nil
}

// parseCommitHistory splits \x01-delimited, \x02-separated-field commit log
// output into CommitRecord values, matching GitCCBridge._checkinCCBranch's
// `history.split('\x01')` / `hentry.split('\x02')` loop.
func parseCommitHistory(out string) []CommitRecord {
	out = strings.Trim(out, "\x01\x00")
	if strings.TrimSpace(out) == "" {
		return nil
	}
	var records []CommitRecord
	for _, entry := range strings.Split(out, "\x01") {
		entry = strings.Trim(entry, "\x00")
		if entry == "" {
			continue
		}
		fields := strings.SplitN(entry, "\x02", 3)
		for len(fields) < 3 {
			fields = append(fields, "")
		}
		records = append(records, CommitRecord{ID: fields[0], Subject: fields[1], Body: fields[2]})
	}
	return records
}

// reverseCommitHistoryList returns commit ids only, oldest-first, strictly
// between from (exclusive) and to (inclusive).
func (d *DVCSAdapter) reverseCommitHistoryList(from, to string) ([]string, error) {
	if to == "" {
		to = "HEAD"
	}
	out, err := d.exec("log", "--first-parent", "--reverse", "--format=%H", fmt.Sprintf("%s..%s", from, to))
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
