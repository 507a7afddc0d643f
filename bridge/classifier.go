// Change-set classifier: groups the CVCS's raw history records into coherent
// change-sets the way a human would recognize them — one commit's worth of
// related edits — instead of committing every raw history line on its own.
// Grounded line-for-line on original_source/bridge.py's _getClearcaseChanges,
// ClearcaseChangeSet, ClearcaseModify, ClearcaseDelete and createClearcaseDelete.

package main

import (
	"fmt"
	"regexp"
	"time"
)

// deleteCommentFile extracts the quoted filename clearcase embeds in an
// "Uncataloged file element" directory-version comment.
var deleteCommentFile = regexp.MustCompile(`"(.+)"`)

const coalesceWindow = 4 * time.Second

// AtomicChange is one file-level change within a ChangeSet: either a modify
// (including creation via overwrite of tracked content) or a delete.
type AtomicChange interface {
	// Stage materializes this change into the DVCS working tree and index.
	Stage(dvcs *DVCSAdapter, cc *CVCSAdapter) error
	// File is the path the change applies to, for logging.
	File() string
}

// modifyChange copies the CVCS version of a file into the DVCS tree and
// stages it.
type modifyChange struct {
	time    string
	path    string
	version string
}

func (m modifyChange) File() string { return m.path }

func (m modifyChange) Stage(dvcs *DVCSAdapter, cc *CVCSAdapter) error {
	dest := dvcs.dir + "/" + m.path
	if err := prepareForCopy(dest); err != nil {
		return err
	}
	ccFile := fmt.Sprintf("%s@@%s", m.path, m.version)
	if err := cc.copyVobFile(ccFile, dest); err != nil {
		return err
	}
	return dvcs.addFile(m.path)
}

// deleteChange removes a path from the DVCS tree, tolerating paths already
// absent (the CVCS side may report stale deletes).
type deleteChange struct {
	time string
	path string
}

func (d deleteChange) File() string { return d.path }

func (d deleteChange) Stage(dvcs *DVCSAdapter, cc *CVCSAdapter) error {
	if !pathExists(dvcs.dir + "/" + d.path) {
		return nil
	}
	return dvcs.removeFile(d.path)
}

// newDeleteChange parses the quoted filename out of an "Uncataloged file
// element" directory-version comment, matching createClearcaseDelete.
func newDeleteChange(rec CheckinRecord) (deleteChange, bool) {
	m := deleteCommentFile.FindStringSubmatch(rec.Comment)
	if m == nil {
		return deleteChange{}, false
	}
	return deleteChange{time: rec.Date, path: joinPath(rec.Path, m[1])}, true
}

// ChangeSet is one coherent batch of CVCS changes destined for a single DVCS
// commit: same author and comment (modifies), or time-coalesced deletes.
type ChangeSet struct {
	UserID  string
	Comment string
	Time    time.Time
	Changes []AtomicChange
}

func (cs *ChangeSet) add(change AtomicChange, recTime string) {
	cs.Changes = append(cs.Changes, change)
	if t, err := time.Parse(cvcsDateLayout, recTime); err == nil {
		cs.Time = t
	}
}

func (cs *ChangeSet) Empty() bool { return len(cs.Changes) == 0 }

// Classify groups raw, oldest-first history records into change-sets:
// consecutive checkinversion records sharing (user, comment) form one
// change-set; consecutive "uncataloged" directory-delete records within
// window of each other form another. A change of user/comment, or a delete
// gap wider than window, closes the current change-set and starts a new one.
func Classify(records []CheckinRecord, window time.Duration) []*ChangeSet {
	if len(records) == 0 {
		return nil
	}

	var list []*ChangeSet
	first := records[0]
	current := &ChangeSet{UserID: first.User, Comment: first.Comment}
	lastUser, lastComment, lastTime := first.User, first.Comment, first.Date

	flush := func() {
		if !current.Empty() {
			list = append(list, current)
		}
	}

	for _, rec := range records {
		switch rec.Op {
		case "checkinversion":
			if rec.User != lastUser || rec.Comment != lastComment {
				flush()
				current = &ChangeSet{UserID: rec.User, Comment: rec.Comment}
			}
			current.add(modifyChange{time: rec.Date, path: rec.Path, version: rec.Version}, rec.Date)
			lastUser, lastComment, lastTime = rec.User, rec.Comment, rec.Date

		case "checkindirectory version":
			del, ok := newDeleteChange(rec)
			if !ok {
				continue
			}
			if timeDiff(lastTime, rec.Date) > window {
				flush()
				current = &ChangeSet{UserID: rec.User, Comment: rec.Comment}
			}
			current.add(del, rec.Date)
			lastUser, lastComment, lastTime = rec.User, rec.Comment, rec.Date

		default:
			// unrecognized history line kind; ignore, matching the Python
			// classifier which only branches on these two types.
		}
	}
	flush()
	return list
}

// timeDiff is the absolute difference, in seconds, between two %Nd-format
// timestamps — grounded on original_source/util.py's timeDiff.
func timeDiff(a, b string) time.Duration {
	ta, errA := time.Parse(cvcsDateLayout, a)
	tb, errB := time.Parse(cvcsDateLayout, b)
	if errA != nil || errB != nil {
		return window0
	}
	d := tb.Sub(ta)
	if d < 0 {
		d = -d
	}
	return d
}

var window0 = time.Duration(0)
