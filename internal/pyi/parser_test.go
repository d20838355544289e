package pyi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := NewParser().Parse("test.pyi", []byte(src))
	require.NoError(t, err)
	return doc
}

// byName maps declarations by name for assertion convenience.
func byName(decls []*Declaration) map[string]*Declaration {
	m := make(map[string]*Declaration, len(decls))
	for _, d := range decls {
		m[d.Name] = d
	}
	return m
}

func TestParse_FunctionsClassesAssignments(t *testing.T) {
	doc := parseSource(t, `
def getcwd() -> str: ...

class PathLike:
    def __fspath__(self) -> str: ...
    sep: str

sep: str
curdir = "."
`)

	decls := byName(doc.Decls)

	require.Contains(t, decls, "getcwd")
	assert.Equal(t, KindFunction, decls["getcwd"].Kind)
	assert.Equal(t, 2, decls["getcwd"].Line)
	assert.Equal(t, 4, decls["getcwd"].Col)

	require.Contains(t, decls, "PathLike")
	assert.Equal(t, KindClass, decls["PathLike"].Kind)
	members := byName(decls["PathLike"].Children)
	assert.Contains(t, members, "__fspath__")
	assert.Contains(t, members, "sep")

	assert.Equal(t, KindAssignment, decls["sep"].Kind)
	assert.Equal(t, KindAssignment, decls["curdir"].Kind)
}

func TestParse_Imports(t *testing.T) {
	doc := parseSource(t, `
import sys
import os.path
import collections.abc as abc
from typing import IO
from typing import Any as Any
`)

	decls := byName(doc.Decls)

	require.Contains(t, decls, "sys")
	assert.Equal(t, KindImport, decls["sys"].Kind)
	assert.False(t, decls["sys"].Aliased)

	// "import os.path" binds its first component.
	require.Contains(t, decls, "os")
	assert.False(t, decls["os"].Aliased)
	assert.NotContains(t, decls, "path")

	require.Contains(t, decls, "abc")
	assert.True(t, decls["abc"].Aliased)

	require.Contains(t, decls, "IO")
	assert.False(t, decls["IO"].Aliased)

	require.Contains(t, decls, "Any")
	assert.True(t, decls["Any"].Aliased)
}

func TestParse_VersionGuardedDeclarations(t *testing.T) {
	doc := parseSource(t, `
import sys

if sys.version_info >= (3, 6):
    def fspath(path) -> str: ...
elif sys.version_info >= (3, 0):
    def fspath_old(path) -> str: ...
else:
    fallback: int

try:
    from _posix import urandom
except ImportError:
    def urandom(n: int) -> bytes: ...
`)

	decls := byName(doc.Decls)
	assert.Contains(t, decls, "fspath")
	assert.Contains(t, decls, "fspath_old")
	assert.Contains(t, decls, "fallback")
	assert.Contains(t, decls, "urandom")
}

func TestParse_DecoratedAndOverloaded(t *testing.T) {
	doc := parseSource(t, `
from typing import overload

@overload
def get(key: str) -> str: ...
@overload
def get(key: str, default: str) -> str: ...
`)

	gets := doc.DeclsNamed("get")
	require.Len(t, gets, 2)
	for _, d := range gets {
		assert.Equal(t, KindFunction, d.Kind)
	}
}

func TestParse_TuplePatternAssignment(t *testing.T) {
	doc := parseSource(t, "major, minor = 3, 7\n")

	decls := byName(doc.Decls)
	assert.Contains(t, decls, "major")
	assert.Contains(t, decls, "minor")
}

func TestParse_BestEffortOnMalformedInput(t *testing.T) {
	doc := parseSource(t, `
def ok() -> str: ...
def broken(
class AlsoOk: ...
`)

	// The declarations around the error node survive.
	assert.NotEmpty(t, doc.DeclsNamed("ok"))
}

func TestParseFile_MissingFile(t *testing.T) {
	_, err := NewParser().ParseFile(filepath.Join(t.TempDir(), "gone.pyi"))
	assert.Error(t, err)
}

func TestParseFile_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.pyi")
	require.NoError(t, os.WriteFile(path, []byte("x: int\n"), 0o644))

	doc, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.NotEmpty(t, doc.DeclsNamed("x"))
	assert.Equal(t, "module", doc.Root().Type())
}
