package stubs

import (
	"os"
	"path/filepath"
	"strings"
)

// stubSuffix is the interface-declaration file extension.
const stubSuffix = ".pyi"

// initStub is the package marker file inside a stub directory.
const initStub = "__init__" + stubSuffix

// Index maps an importable name to the absolute path of the stub file that
// declares it.
type Index map[string]string

// Build creates the index for a single directory. A subdirectory containing
// an __init__.pyi registers under the subdirectory's own name (package form);
// a standalone .pyi file registers under its stem, except __init__.pyi itself,
// which is never separately importable. A missing or unreadable directory
// yields an empty index, never an error.
func Build(dir string) Index {
	idx := Index{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return idx
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			init := filepath.Join(path, initStub)
			if info, err := os.Stat(init); err == nil && !info.IsDir() {
				idx[entry.Name()] = init
			}
		} else if strings.HasSuffix(entry.Name(), stubSuffix) {
			stem := strings.TrimSuffix(entry.Name(), stubSuffix)
			if stem != "__init__" {
				idx[stem] = path
			}
		}
	}
	return idx
}

// Merge builds one index spanning all the given directories, in order. When
// two directories register the same name, the later directory wins.
func Merge(dirs []string) Index {
	merged := Index{}
	for _, dir := range dirs {
		for name, path := range Build(dir) {
			merged[name] = path
		}
	}
	return merged
}
