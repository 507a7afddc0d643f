// CVCS adapter: a typed facade over the pessimistic-locking CVCS command-line
// tool (cleartool-style). Grounded line-for-line on the command vectors in
// original_source/clearcase.py's ClearcaseFacade, generalized into typed
// return values and explicit errors instead of bare subprocess output.

package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

// cvcsDateLayout matches the %Nd field format this adapter requests from the
// history command; kept as a single constant so a site with a different
// cleartool date-format config can override it in one place.
const cvcsDateLayout = "20060102.150405"

var ccVersionLine = regexp.MustCompile(`(?m)^version\s+(.*?@@\S+)`)
var ccVersionSplit = regexp.MustCompile(`(?s)^(.+)@@(.+)$`)

// CheckinRecord is one raw history record, unparsed into atomic changes —
// that grouping is the classifier's job.
type CheckinRecord struct {
	Op      string // %o%m: "checkinversion", "checkindirectory version", ...
	Date    string // raw %Nd field, parse with cvcsDateLayout
	User    string
	Path    string
	Version string
	Comment string
}

// CVCSAdapter is a typed facade over the CVCS command-line tool.
type CVCSAdapter struct {
	dir       string
	includes  stringSet
	branch    string
	recursive bool
	runner    *processRunner
}

func newCVCSAdapter(dir string, includes stringSet, branch string, recursive bool) *CVCSAdapter {
	return &CVCSAdapter{dir: dir, includes: includes, branch: branch, recursive: recursive, runner: newProcessRunner(dir)}
}

func (c *CVCSAdapter) exec(args []string) (string, error) {
	out, err := c.runner.run(append([]string{"cleartool"}, args...), nil, false)
	return decodeCCOutput(out), err
}

// decodeCCOutput re-decodes cleartool output as Windows-1252 when it isn't
// valid UTF-8, the common case on a Windows CVCS host. Valid UTF-8 is
// passed through untouched.
func decodeCCOutput(out string) string {
	if utf8.ValidString(out) {
		return out
	}
	enc, err := ianaindex.IANA.Encoding("windows-1252")
	if err != nil {
		return out
	}
	decoded, err := io.ReadAll(enc.NewDecoder().Reader(strings.NewReader(out)))
	if err != nil {
		return out
	}
	return string(decoded)
}

// needUpdate reports whether an `update` against the view would actually
// change any working files, without performing the update.
func (c *CVCSAdapter) needUpdate() (bool, error) {
	tmp, err := os.CreateTemp("", "bridge-cc-update-*")
	if err != nil {
		return false, err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if _, err := c.exec([]string{"update", "-print", "-ove", "-log", tmp.Name()}); err != nil {
		return false, err
	}
	buf, err := os.ReadFile(tmp.Name())
	if err != nil {
		return false, err
	}
	return strings.Contains(string(buf), "Updated:"), nil
}

func (c *CVCSAdapter) update() error {
	_, err := c.exec([]string{"update", "-overwrite"})
	return err
}

// fileVersionDictionary returns every versioned file in the view mapped to
// its branch/version suffix, used by the reconciler to compare against the
// DVCS tree.
func (c *CVCSAdapter) fileVersionDictionary() (map[string]string, error) {
	args := []string{"ls", "-long", "-vob"}
	if c.recursive {
		args = append(args, "-recurse")
	}
	args = append(args, c.includes.Ordered()...)
	out, err := c.exec(args)
	if err != nil {
		return nil, err
	}
	return parseFileVersionDictionary(out), nil
}

// parseFileVersionDictionary extracts path -> branch/version pairs from raw
// `cleartool ls -long` output, matching ClearcaseFacade.fileVersionDictionary.
func parseFileVersionDictionary(out string) map[string]string {
	out = strings.ReplaceAll(out, "\\", "/")
	dict := make(map[string]string)
	for _, m := range ccVersionLine.FindAllStringSubmatch(out, -1) {
		fv := strings.TrimPrefix(m[1], "./")
		parts := ccVersionSplit.FindStringSubmatch(fv)
		if parts == nil {
			continue
		}
		dict[parts[1]] = parts[2]
	}
	return dict
}

// checkinHistoryReversed returns raw history records since the given
// timestamp, oldest first, filtered to checkins landing on the configured
// branch and (when set) the configured include paths.
func (c *CVCSAdapter) checkinHistoryReversed(since string) ([]CheckinRecord, error) {
	args := []string{"lsh", "-fmt", "%o%m\x01%Nd\x01%u\x01%En\x01%Vn\x01%Nc\n"}
	if c.recursive {
		args = append(args, "-recurse")
	}
	args = append(args, "-since", since)
	args = append(args, c.includes.Ordered()...)
	blob, err := c.exec(args)
	if err != nil {
		return nil, err
	}
	return parseCheckinHistory(blob, c.branch), nil
}

// parseCheckinHistory filters and reverses raw `cleartool lsh` output into
// oldest-first records on the configured branch, matching
// ClearcaseFacade.checkinHistoryReversed.
func parseCheckinHistory(blob, branch string) []CheckinRecord {
	blob = strings.ReplaceAll(blob, "\\", "/")

	var records []CheckinRecord
	for _, line := range strings.Split(blob, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\x01")
		if len(fields) < 6 {
			continue
		}
		if !strings.HasPrefix(fields[0], "checkin") {
			continue
		}
		if !versionOnBranch(fields[4], branch) {
			continue
		}
		records = append(records, CheckinRecord{
			Op:      fields[0],
			Date:    fields[1],
			User:    fields[2],
			Path:    fields[3],
			Version: fields[4],
			Comment: strings.Join(fields[5:], "\x01"),
		})
	}
	// reverse: lsh -since already returns newest-first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records
}

// versionOnBranch reports whether a %Vn version-extended-path lands on the
// given branch, matching original_source/clearcase.py's
// `<branch>/\d+` regex against the end of the version path.
func versionOnBranch(version, branch string) bool {
	re := regexp.MustCompile(regexp.QuoteMeta(branch) + `/\d+$`)
	return re.MatchString(version)
}

func (c *CVCSAdapter) copyVobFile(ccPath, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return err
		}
	}
	if _, err := c.exec([]string{"get", "-to", dest, ccPath}); err != nil {
		return err
	}
	info, err := os.Stat(dest)
	if err != nil {
		return err
	}
	return os.Chmod(dest, info.Mode()|0200)
}

func (c *CVCSAdapter) undoCheckout(path string) error {
	_, err := c.exec([]string{"unco", "-rm", path})
	return err
}

func (c *CVCSAdapter) checkin(path, comment string) error {
	_, err := c.exec([]string{"ci", "-identical", "-c", comment, path})
	return err
}

func (c *CVCSAdapter) checkout(path string) error {
	_, err := c.exec([]string{"co", "-reserved", "-nc", path})
	if err != nil {
		return &CheckoutReserved{Paths: []string{path}, Detail: err.Error()}
	}
	return nil
}

func (c *CVCSAdapter) addDirectory(path string) error {
	_, err := c.exec([]string{"mkelem", "-nc", "-eltype", "directory", path})
	return err
}

func (c *CVCSAdapter) addFile(path string) error {
	_, err := c.exec([]string{"mkelem", "-nc", path})
	return err
}

func (c *CVCSAdapter) removeFile(path string) error {
	_, err := c.exec([]string{"rm", path})
	return err
}

func (c *CVCSAdapter) moveFile(src, dst string) error {
	_, err := c.exec([]string{"mv", "-nc", src, dst})
	return err
}

func (c *CVCSAdapter) catcs() (string, error) {
	return c.exec([]string{"catcs"})
}

func (c *CVCSAdapter) setcs(csPath string) error {
	_, err := c.exec([]string{"setcs", csPath})
	return err
}

// setcsFromString writes spec text to a temp file and applies it, for the
// snapshot bootstrap's "pin to a timestamp, then restore" sequence.
func (c *CVCSAdapter) setcsFromString(spec string) error {
	tmp, err := os.CreateTemp("", "bridge-cs-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(spec); err != nil {
		tmp.Close()
		return err
	}
	tmp.Close()
	return c.setcs(tmp.Name())
}

func (c *CVCSAdapter) setcsTimeLimited(timestamp string) error {
	spec, err := c.catcs()
	if err != nil {
		return err
	}
	limited := fmt.Sprintf("time %s\n%s", timestamp, spec)
	return c.setcsFromString(limited)
}
