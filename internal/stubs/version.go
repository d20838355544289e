package stubs

import "fmt"

// Version identifies the analyzed Python version. Index caches are keyed by
// the (Major, Minor) pair; the patch level never affects stub selection.
type Version struct {
	Major int
	Minor int
}

// String returns the dotted form, e.g. "3.7".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
