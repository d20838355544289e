package store

import "time"

// Entry is one importable name in a persisted stub index.
type Entry struct {
	ID      int64
	Version string
	Name    string
	Path    string
}

// Decl is one declaration extracted from a stub file. ParentName is set for
// class members and nil for module-level declarations.
type Decl struct {
	ID         int64
	EntryID    int64
	Name       string
	Kind       string
	Line       int
	Col        int
	Aliased    bool
	ParentName *string
}

// IndexRun records one persisted index build for a version.
type IndexRun struct {
	Version   string
	Root      string
	Entries   int
	IndexedAt time.Time
}
