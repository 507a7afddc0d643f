// Sync engine: the bridge's three operations — ingest (CVCS to DVCS),
// egress (DVCS to CVCS), and the reconciler (drift detection/repair) — plus
// the snapshot bootstrap. Grounded line-for-line on
// original_source/bridge.py's GitCCBridge.

package main

import (
	"fmt"
	"sort"
	"time"

	difflib "github.com/ianbruene/go-difflib/difflib"
)

const (
	ccBranch = "master_cc"
	master   = "master"
	ciTag    = "master_ci"
)

// Engine is the bridge's runtime state: the two backend adapters, the
// pending-commit cache, and the CVCS-user identity table.
type Engine struct {
	cfg        *Config
	dvcs       *DVCSAdapter
	cc         *CVCSAdapter
	cache      *pendingCache
	identities identityLookup

	gitCommits []string
	excludes   stringSet
	progress   *progressReporter
}

// NewEngine wires the two backend adapters from a loaded configuration.
func NewEngine(cfg *Config, identities identityLookup) *Engine {
	dvcs := newDVCSAdapter(cfg.GitRoot, cfg.Remote)
	cc := newCVCSAdapter(cfg.CCRoot, cfg.Include, cfg.Branch(), cfg.Recursive)
	return &Engine{
		cfg:        cfg,
		dvcs:       dvcs,
		cc:         cc,
		cache:      newPendingCache(cfg.GitRoot),
		identities: identities,
		excludes:   newStringSet(),
		progress:   newProgressReporter(false),
	}
}

func (e *Engine) sinceCCBranchHead() (string, error) {
	head, err := e.dvcs.branchHead(ccBranch)
	if err != nil {
		return "", err
	}
	date, err := e.dvcs.commitDate(head)
	if err != nil {
		return "", err
	}
	return date.Add(time.Second).Format("02-Jan-2006.15:04:05"), nil
}

// NewBridge bootstraps a fresh bridge: when since is non-empty, it first
// takes a point-in-time snapshot of the CVCS view into a brand-new DVCS
// repository, then runs an ordinary ingest pass. Grounded on
// GitCCBridge.newBridge/_setandupdatecs/_addccfilestogitrepo/_restorecs.
func (e *Engine) NewBridge(since string) error {
	if e.dvcs.exists() {
		return fmt.Errorf("DVCS repository already exists at %s", e.dvcs.dir)
	}
	if since != "" {
		liveSpec, err := e.cc.catcs()
		if err != nil {
			return err
		}
		logit(logSYNC, "setting the config spec and updating the view; this can take several minutes")
		if err := e.cc.setcsTimeLimited(since); err != nil {
			return err
		}
		logit(logSYNC, "done setting the config spec")

		if err := e.snapshotToNewRepo(since); err != nil {
			return err
		}

		logit(logSYNC, "restoring the config spec and updating the view")
		if err := e.cc.setcsFromString(liveSpec); err != nil {
			return err
		}
		logit(logSYNC, "done restoring the config spec")
	}
	return e.OnNewClearcaseChanges()
}

// snapshotToNewRepo initializes the DVCS repo and commits one "Repository
// snapshot at <date>" commit containing every file currently in the
// time-limited view, authored by the operator rather than a CVCS user.
func (e *Engine) snapshotToNewRepo(since string) error {
	if err := e.dvcs.init(); err != nil {
		return err
	}
	files, err := e.cc.fileVersionDictionary()
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for i, path := range paths {
		e.progress.Step("snapshotting %d/%d: %s", i+1, len(paths), path)
		dest := e.dvcs.dir + "/" + path
		if err := prepareForCopy(dest); err != nil {
			return err
		}
		ccFile := fmt.Sprintf("%s@@%s", path, files[path])
		if err := e.cc.copyVobFile(ccFile, dest); err != nil {
			return err
		}
		if err := e.dvcs.addFile(path); err != nil {
			return err
		}
	}
	e.progress.Done()

	snapTime, err := time.Parse("02-Jan-2006", since)
	if err != nil {
		snapTime = time.Now()
	}
	name, email := operatorIdentity()
	env := map[string]string{
		"GIT_AUTHOR_DATE": snapTime.Format("2006-01-02 15:04:05"), "GIT_COMMITTER_DATE": snapTime.Format("2006-01-02 15:04:05"),
		"GIT_AUTHOR_NAME": name, "GIT_COMMITTER_NAME": name,
		"GIT_AUTHOR_EMAIL": email, "GIT_COMMITTER_EMAIL": email,
	}
	_, err = e.dvcs.commit(fmt.Sprintf("Repository snapshot at %s", snapTime.Format("2006-01-02")), env)
	return err
}

// OnNewClearcaseChanges is the ingest pass: turn new CVCS history into DVCS
// commits on the CC branch, rebase master from the remote, merge the new
// commits onto master, and push. Grounded on
// GitCCBridge.onNewClearcaseChanges.
func (e *Engine) OnNewClearcaseChanges() error {
	if err := e.loadGitCommits(); err != nil {
		return err
	}
	var committed []string

	if err := e.dvcs.checkout(ccBranch); err != nil {
		return err
	}
	changeSets, err := e.getClearcaseChanges()
	if err != nil {
		return err
	}
	ccHead, err := e.dvcs.branchHead(ccBranch)
	if err != nil {
		return err
	}

	if len(changeSets) > 0 {
		logit(logSYNC, "committing Clearcase changes to Git")
		committed, err = e.commitToCCBranch(changeSets)
		if err != nil {
			return err
		}
	} else {
		logit(logSYNC, "nothing to commit")
	}

	if e.cfg.Remote != "" {
		if err := e.updateMasterFromCentral(); err != nil {
			return err
		}
	}
	if err := e.saveGitCommits(); err != nil {
		return err
	}

	if len(committed) > 0 {
		head, err := e.dvcs.branchHead(master)
		if err != nil {
			return err
		}
		if err := e.mergeCommitsOnBranch(master, committed); err != nil {
			if _, ok := err.(*MergeConflict); ok {
				e.dvcs.resetBranches(map[string]string{master: head, ccBranch: ccHead})
			}
			return err
		}
		if e.cfg.Remote != "" {
			if err := e.pushMasterToCentral(); err != nil {
				return err
			}
		}
	}
	return nil
}

// OnDoCheckinToClearcase is the egress pass: pull from the remote, then
// merge and check in every pending commit to the CVCS. Grounded on
// GitCCBridge.onDoCheckinToClearcase.
func (e *Engine) OnDoCheckinToClearcase() error {
	if err := e.loadGitCommits(); err != nil {
		return err
	}
	head, err := e.dvcs.branchHead(master)
	if err != nil {
		return err
	}
	if err := e.updateMasterFromCentral(); err != nil {
		return err
	}
	if len(e.gitCommits) == 0 {
		logit(logSYNC, "no pending commits to check in to Clearcase")
		return nil
	}

	logit(logSYNC, "checking in new commits to Clearcase")
	ccHead, err := e.dvcs.branchHead(ccBranch)
	if err != nil {
		return err
	}
	if err := e.mergeCommitsOnBranch(ccBranch, e.gitCommits); err != nil {
		e.dvcs.resetBranches(map[string]string{master: head, ccBranch: ccHead})
		return err
	}
	if err := e.checkinCCBranch(ccHead); err != nil {
		e.dvcs.resetBranches(map[string]string{master: head, ccBranch: ccHead})
		return err
	}

	needUpdate, err := e.cc.needUpdate()
	if err != nil {
		return err
	}
	if needUpdate {
		logit(logWARN, "Clearcase needs updating")
		if err := e.cc.update(); err != nil {
			return err
		}
		logit(logSYNC, "Clearcase updated")
	}
	return e.dvcs.resetHard(master)
}

// SyncReport compares the CVCS view snapshot against the CC branch's
// tracked files, returning files present only in the CVCS (with their
// version) and files present only in the DVCS tree. Grounded on
// GitCCBridge.syncReport.
func (e *Engine) SyncReport() (addedInCC map[string]string, addedInGit []string, err error) {
	ccFiles, err := e.cc.fileVersionDictionary()
	if err != nil {
		return nil, nil, err
	}
	if err := e.dvcs.checkout(ccBranch); err != nil {
		return nil, nil, err
	}
	gitFiles, err := e.dvcs.filesList()
	if err != nil {
		return nil, nil, err
	}
	gitSet := newStringSet(gitFiles...)
	for _, excl := range e.excludes.Ordered() {
		gitSet.Remove(excl)
	}

	addedInCC = make(map[string]string)
	for path, version := range ccFiles {
		if !gitSet.Contains(path) {
			addedInCC[path] = version
		}
	}
	ccSet := newStringSet()
	for path := range ccFiles {
		ccSet.Add(path)
	}
	for _, path := range gitSet.Ordered() {
		if !ccSet.Contains(path) {
			addedInGit = append(addedInGit, path)
		}
	}
	sort.Strings(addedInGit)
	return addedInCC, addedInGit, nil
}

// RenderSyncReport renders a sync report as a unified diff between the
// Git-tracked file list and the Clearcase-tracked file list, in the style
// of tool/repotool.go's compareRevision: each side's path list is the
// "file", and the unified-diff hunks show what only-in-Clearcase and
// only-in-Git additions would need to change to align them.
func (e *Engine) RenderSyncReport(addedInCC map[string]string, addedInGit []string) string {
	ccPaths := make([]string, 0, len(addedInCC))
	for path := range addedInCC {
		ccPaths = append(ccPaths, path)
	}
	sort.Strings(ccPaths)
	gitPaths := append([]string(nil), addedInGit...)
	sort.Strings(gitPaths)

	diff := difflib.LineDiffParams{
		A:        gitPaths,
		B:        ccPaths,
		FromFile: "git (CC_BRANCH)",
		ToFile:   "clearcase view",
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	return text
}

// AlignGitToClearcase commits a single synthetic change-set that brings the
// CC branch back in line with the given discrepancies, attributed to the
// sentinel CVCS user "Unknown" (resolved through the identity table like any
// other user) since no single CVCS user is responsible. Grounded on
// GitCCBridge.alignGitToClearcase.
func (e *Engine) AlignGitToClearcase(addedInCC map[string]string, addedInGit []string) ([]string, error) {
	cs := &ChangeSet{UserID: "Unknown", Comment: "Anonymous file changes in Clearcase"}
	now := time.Now().Format(cvcsDateLayout)
	for path, version := range addedInCC {
		cs.add(modifyChange{time: now, path: path, version: version}, now)
	}
	for _, path := range addedInGit {
		cs.add(deleteChange{time: now, path: path}, now)
	}
	logit(logRECONCILE, "loading changeset [%s]", cs.Comment)
	return e.commitToCCBranch([]*ChangeSet{cs})
}

// addDiscoveredChanges runs the reconciler for the align command: if the
// sync report finds any discrepancy, align and return its commit.
func (e *Engine) addDiscoveredChanges() ([]string, error) {
	addedInCC, addedInGit, err := e.SyncReport()
	if err != nil {
		return nil, err
	}
	if len(addedInCC) == 0 && len(addedInGit) == 0 {
		return nil, nil
	}
	logit(logRECONCILE, "found repository discrepancies; aligning Git with Clearcase")
	return e.AlignGitToClearcase(addedInCC, addedInGit)
}

func (e *Engine) updateMasterFromCentral() error {
	if err := e.dvcs.checkout(master); err != nil {
		return err
	}
	head, err := e.dvcs.branchHead("")
	if err != nil {
		return err
	}
	if err := e.dvcs.updateRemote(); err != nil {
		return err
	}
	remoteHead, err := e.dvcs.branchHead(e.cfg.Remote)
	if err == nil && head != remoteHead {
		if err := e.dvcs.pullRebase(); err != nil {
			return err
		}
		commits, err := e.dvcs.reverseCommitHistoryList(head, "")
		if err != nil {
			return err
		}
		e.gitCommits = newStringSet(append(e.gitCommits, commits...)...).Ordered()
	}
	return nil
}

// mergeCommitsOnBranch checks out branch and sequentially fast-forward
// merges each commit onto it, aborting and surfacing a MergeConflict on the
// first failure.
func (e *Engine) mergeCommitsOnBranch(branch string, commits []string) error {
	if err := e.dvcs.checkout(branch); err != nil {
		return err
	}
	for _, commitID := range commits {
		msg, err := e.dvcs.commitMessage(commitID)
		if err != nil {
			return err
		}
		if err := e.dvcs.mergeCommitFf(commitID, msg); err != nil {
			e.dvcs.mergeAbort()
			return &MergeConflict{Commit: commitID, Branch: branch, Detail: err.Error()}
		}
		logit(logSYNC, "merged on branch %s commit %.7s", branch, commitID)
	}
	return nil
}

// checkinCCBranch walks the CC branch's history since oldHead and checks
// each commit in to the CVCS: checkout reserved, materialize the diff, then
// check in, tagging the moving checkpoint after each success so a crash
// mid-batch can be diagnosed. Grounded on GitCCBridge._checkinCCBranch.
func (e *Engine) checkinCCBranch(oldHead string) error {
	if err := e.dvcs.checkout(ccBranch); err != nil {
		return err
	}
	if e.dvcs.tagExists(ciTag) {
		logit(logWARN, "stale %s tag found; a previous check-in run may have crashed mid-batch", ciTag)
	}
	history, err := e.dvcs.commitHistoryPathBlob(oldHead, ccBranch)
	if err != nil {
		return err
	}
	logit(logSYNC, "preparing to check in")
	for i, entry := range history {
		e.progress.Step("checking in %d/%d: %.7s", i+1, len(history), entry.ID)
		if err := e.checkinOneCommit(entry); err != nil {
			return err
		}
		logit(logSYNC, "checked in to Clearcase commit %s", entry.ID)
		if err := e.dvcs.setTag(ciTag, entry.ID); err != nil {
			return err
		}
	}
	e.progress.Done()
	return e.dvcs.removeTag(ciTag)
}

func (e *Engine) checkinOneCommit(entry CommitRecord) error {
	rawDiffs, err := e.dvcs.diffsByCommit(entry.ID)
	if err != nil {
		return err
	}
	diffs, err := buildDiffs(entry.ID, e.cc.dir, rawDiffs)
	if err != nil {
		return err
	}

	checkouts := newStringSet()
	for _, d := range diffs {
		checkouts.Add(d.Checkouts()...)
	}
	checkedOut, err := e.checkoutReservedOrAbort(checkouts.Ordered())
	if err != nil {
		return err
	}

	for _, d := range diffs {
		if err := d.UpdateCCArea(e.dvcs, e.cc); err != nil {
			for _, path := range checkedOut {
				e.cc.undoCheckout(path)
			}
			return &UpdateCCArea{Commit: entry.ID, Detail: err.Error()}
		}
	}

	checkins := newStringSet()
	for _, d := range diffs {
		checkins.Add(d.Checkins()...)
	}
	comment := entry.Message()
	for _, path := range checkins.Ordered() {
		if err := e.cc.checkin(path, comment); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) checkoutReservedOrAbort(paths []string) ([]string, error) {
	var passed, failed []string
	var lastErr error
	for _, path := range paths {
		if err := e.cc.checkout(path); err != nil {
			failed = append(failed, path)
			lastErr = err
			continue
		}
		passed = append(passed, path)
	}
	if len(failed) > 0 {
		for _, path := range passed {
			e.cc.undoCheckout(path)
		}
		detail := ""
		if lastErr != nil {
			detail = lastErr.Error()
		}
		return nil, &CheckoutReserved{Paths: failed, Detail: detail}
	}
	return passed, nil
}

func (e *Engine) saveGitCommits() error {
	if len(e.gitCommits) == 0 {
		return nil
	}
	logit(logSYNC, "saving commits cache: %v", e.gitCommits)
	return e.cache.Save(e.gitCommits)
}

func (e *Engine) loadGitCommits() error {
	commits, err := e.cache.Load()
	if err != nil {
		return err
	}
	if commits != nil {
		logit(logSYNC, "loading commits cache: %v", commits)
	}
	e.gitCommits = commits
	return nil
}

// getClearcaseChanges fetches CVCS history since the CC branch's last
// recorded position and classifies it into change-sets.
func (e *Engine) getClearcaseChanges() ([]*ChangeSet, error) {
	since, err := e.sinceCCBranchHead()
	if err != nil {
		return nil, err
	}
	records, err := e.cc.checkinHistoryReversed(since)
	if err != nil {
		return nil, err
	}
	changeSets := Classify(records, coalesceWindow)
	for _, cs := range changeSets {
		logit(logCLASSIFY, "loading changeset %q - %v", firstLine(cs.Comment), cs.pathsString())
	}
	return changeSets, nil
}

func (e *Engine) commitToCCBranch(changeSets []*ChangeSet) ([]string, error) {
	if err := e.dvcs.checkout(ccBranch); err != nil {
		return nil, err
	}
	var commits []string
	for _, cs := range changeSets {
		commitID, err := e.commitChangeSet(cs)
		if err != nil {
			return nil, err
		}
		if commitID != "" {
			commits = append(commits, commitID)
		}
	}
	return commits, nil
}

// commitChangeSet stages every atomic change in cs and commits them as one
// DVCS commit, attributed to the change-set's CVCS user (looked up through
// the identity table) and timestamped with the change's own CVCS time.
func (e *Engine) commitChangeSet(cs *ChangeSet) (string, error) {
	for _, change := range cs.Changes {
		if err := change.Stage(e.dvcs, e.cc); err != nil {
			return "", err
		}
	}
	name, email := e.identities.resolve(cs.UserID)
	comment := cs.Comment
	if trimmedEmpty(comment) {
		comment = "<empty comment>"
	}
	commitTime := cs.Time
	if commitTime.IsZero() {
		commitTime = time.Now()
	}
	env := map[string]string{
		"GIT_AUTHOR_DATE": commitTime.Format("2006-01-02 15:04:05"), "GIT_COMMITTER_DATE": commitTime.Format("2006-01-02 15:04:05"),
		"GIT_AUTHOR_NAME": name, "GIT_COMMITTER_NAME": name,
		"GIT_AUTHOR_EMAIL": email, "GIT_COMMITTER_EMAIL": email,
	}
	commitID, err := e.dvcs.commit(comment, env)
	if err != nil {
		return "", err
	}
	if commitID == "" {
		logit(logSYNC, "nothing new to commit [%s]", firstLine(comment))
		return "", nil
	}
	logit(logSYNC, "committed to branch %s change [%s] -> %.7s", ccBranch, firstLine(comment), commitID)
	return commitID, nil
}

func (e *Engine) pushMasterToCentral() error {
	if err := e.dvcs.checkout(master); err != nil {
		return err
	}
	return e.dvcs.push()
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func trimmedEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}

func (cs *ChangeSet) pathsString() string {
	paths := make([]string, 0, len(cs.Changes))
	for _, c := range cs.Changes {
		paths = append(paths, c.File())
	}
	return fmt.Sprintf("%v", paths)
}
