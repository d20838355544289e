// Package stubs discovers and indexes interface-declaration (.pyi) files laid
// out in the typeshed repository convention: two top-level categories
// (stdlib, third_party), each containing a version-independent "2and3"
// directory plus version directories named "<major>" or "<major>.<minor>".
package stubs

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// genericQualifier is the version-independent directory name shared by both
// categories.
const genericQualifier = "2and3"

// categories are the two stub roots, scanned in this fixed order. Order
// matters downstream: later directories override earlier ones on merge.
var categories = []string{"stdlib", "third_party"}

var versionDirPattern = regexp.MustCompile(`^(\d+)\.(\d+)$`)

// Directories returns the ordered stub directories to search for the given
// version under root. The result is deterministic for fixed directory
// contents (os.ReadDir sorts entries) and safe to re-enumerate.
//
// The qualifier list starts with the generic directory and the bare major
// version, then grows with every "<major>.<minor>" subdirectory whose major
// matches exactly and whose minor does not exceed the requested minor. The
// list is carried over from the stdlib category into the third_party
// category, so version directories found under stdlib are also probed under
// third_party. That carry-over is long-standing observed behavior that
// existing stub repositories rely on; do not reset the list per category.
func Directories(root string, v Version) []string {
	qualifiers := []string{genericQualifier, strconv.Itoa(v.Major)}

	var dirs []string
	for _, category := range categories {
		base := filepath.Join(root, category)
		entries, err := os.ReadDir(base)
		if err != nil {
			entries = nil // missing category: generic qualifiers still apply
		}
		for _, entry := range entries {
			m := versionDirPattern.FindStringSubmatch(entry.Name())
			if m == nil {
				continue
			}
			major, _ := strconv.Atoi(m[1])
			minor, _ := strconv.Atoi(m[2])
			if major == v.Major && minor <= v.Minor {
				qualifiers = append(qualifiers, entry.Name())
			}
		}
		for _, q := range qualifiers {
			dirs = append(dirs, filepath.Join(base, q))
		}
	}
	return dirs
}
