// Small filesystem helpers shared by the change classifier and diff
// translator. Grounded on original_source/util.py's prepareForCopy and the
// os.path.exists/dirname checks scattered through bridge.py's diff classes.

package main

import (
	"os"
	"path/filepath"

	shutil "github.com/termie/go-shutil"
)

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// prepareForCopy removes any existing file at path, or creates its parent
// directories when the path is new — exactly util.py's prepareForCopy.
func prepareForCopy(path string) error {
	if pathExists(path) {
		return os.Remove(path)
	}
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func joinPath(dir, file string) string {
	if dir == "" || dir == "." {
		return file
	}
	return filepath.ToSlash(filepath.Join(dir, file))
}

// deepestExistingAncestor walks up from dir (a slash-separated CVCS-relative
// path) until it finds a path that already exists under root, returning that
// ancestor (as "." for the root itself) and the list of missing directories
// in leaf-to-root (deepest-first) order that must be mkelem'd to recreate it;
// reverseMissing turns that list into creation order.
func deepestExistingAncestor(root, dir string) (ancestor string, missing []string) {
	for dir != "" && dir != "." && !pathExists(filepath.Join(root, dir)) {
		missing = append(missing, dir)
		parent := filepath.ToSlash(filepath.Dir(dir))
		if parent == dir {
			break
		}
		dir = parent
	}
	if dir == "" {
		dir = "."
	}
	return dir, missing
}

// writeFile materializes blob content at path, creating parent directories
// as needed. The content is first spilled to a scratch file in the same
// directory, then copied into place with go-shutil's Copy instead of a
// hand-rolled io.Copy plus permission fixup. The CVCS-to-DVCS direction
// (CVCSAdapter.copyVobFile) does not use this helper: it has the CVCS tool
// write the file and then clears the read-only bit itself.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	scratch, err := os.CreateTemp(dir, ".bridge-write-*")
	if err != nil {
		return err
	}
	scratchPath := scratch.Name()
	defer os.Remove(scratchPath)
	if _, err := scratch.Write(content); err != nil {
		scratch.Close()
		return err
	}
	if err := scratch.Close(); err != nil {
		return err
	}
	if pathExists(path) {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	_, err = shutil.Copy(scratchPath, path, false)
	return err
}

func dirOf(path string) string {
	d := filepath.ToSlash(filepath.Dir(path))
	if d == "." || d == "" {
		return "."
	}
	return d
}

// reverseMissing reverses a missing-directories list so mkelem calls proceed
// shallowest-first (a prerequisite for creating children).
func reverseMissing(missing []string) []string {
	out := make([]string, len(missing))
	for i, m := range missing {
		out[len(missing)-1-i] = m
	}
	return out
}
