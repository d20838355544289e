package understory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noModules is an inner resolver that finds nothing.
func noModules(ev Evaluator, importNames []string, parent Context, searchPath []string) []Context {
	return nil
}

// fixedModules returns an inner resolver yielding the given contexts.
func fixedModules(mods ...Context) ImportResolver {
	return func(ev Evaluator, importNames []string, parent Context, searchPath []string) []Context {
		return mods
	}
}

func newOverlayFixture(t *testing.T) (*Session, Evaluator) {
	t.Helper()
	root := writeTypeshed(t, map[string]string{
		"stdlib/2and3/math.pyi":        "pi: float\ndef sqrt(x: float) -> float: ...\n",
		"stdlib/2and3/os/__init__.pyi": "import sys\ndef getcwd() -> str: ...\n",
		"stdlib/2and3/os/path.pyi":     "def join(*paths: str) -> str: ...\n",
		"stdlib/2and3/typing.pyi":      "class Any: ...\n",
	})
	return NewSession(root), fakeEvaluator{version: Version{Major: 3, Minor: 7}}
}

func TestWrap_NoStubNoConcrete(t *testing.T) {
	s, ev := newOverlayFixture(t)
	resolve := s.WrapImportModule(noModules)

	assert.Empty(t, resolve(ev, []string{"nosuchmodule"}, nil, nil))
}

func TestWrap_StubOnly(t *testing.T) {
	s, ev := newOverlayFixture(t)
	resolve := s.WrapImportModule(noModules)

	results := resolve(ev, []string{"math"}, nil, nil)

	require.Len(t, results, 1)
	mod, ok := results[0].(*StubContext)
	require.True(t, ok)
	assert.Equal(t, ModuleKind, mod.Kind())
	assert.Nil(t, mod.Concrete(), "nothing to merge with")
	assert.NotEmpty(t, mod.Document().DeclsNamed("sqrt"))
}

func TestWrap_OverlaidPerConcreteCandidate(t *testing.T) {
	s, ev := newOverlayFixture(t)
	first := &fakeModule{path: "/src/a/math.py"}
	second := &fakeModule{path: "/src/b/math.py"}
	resolve := s.WrapImportModule(fixedModules(first, second))

	results := resolve(ev, []string{"math"}, nil, nil)

	require.Len(t, results, 2)
	a, ok := results[0].(*StubContext)
	require.True(t, ok)
	b, ok := results[1].(*StubContext)
	require.True(t, ok)
	assert.Same(t, first, a.Concrete())
	assert.Same(t, second, b.Concrete())
	assert.Same(t, a.Document(), b.Document(), "one stub document shared by all overlays")
	// Identity follows the concrete module.
	assert.Equal(t, "/src/a/math.py", a.Path())
}

func TestWrap_ConcreteOnlyPassThrough(t *testing.T) {
	s, ev := newOverlayFixture(t)
	concrete := &fakeModule{path: "/src/plain.py"}
	resolve := s.WrapImportModule(fixedModules(concrete))

	results := resolve(ev, []string{"plain"}, nil, nil)

	require.Len(t, results, 1)
	assert.Same(t, concrete, results[0], "no stub found: inner result unchanged")
}

func TestWrap_ExcludedName(t *testing.T) {
	s, ev := newOverlayFixture(t)
	concrete := &fakeModule{path: "/src/typing.py"}
	resolve := s.WrapImportModule(fixedModules(concrete))

	// typing.pyi exists in the fixture, but the name resolves through the
	// host's own mechanism and must never consult the index.
	results := resolve(ev, []string{"typing"}, nil, nil)

	require.Len(t, results, 1)
	assert.Same(t, concrete, results[0])
}

func TestWrap_StaleIndexEntry(t *testing.T) {
	s, ev := newOverlayFixture(t)
	s.IndexFor(ev.LanguageVersion()) // populate the index first

	require.NoError(t, os.Remove(filepath.Join(s.Root(), "stdlib", "2and3", "math.pyi")))

	concrete := &fakeModule{path: "/src/math.py"}
	resolve := s.WrapImportModule(fixedModules(concrete))
	results := resolve(ev, []string{"math"}, nil, nil)

	require.Len(t, results, 1)
	assert.Same(t, concrete, results[0], "deleted stub degrades to concrete-only")
}

func TestWrap_NestedPackageImport(t *testing.T) {
	s, ev := newOverlayFixture(t)
	resolve := s.WrapImportModule(noModules)

	osResults := resolve(ev, []string{"os"}, nil, nil)
	require.Len(t, osResults, 1)
	osMod := osResults[0].(*StubContext)
	require.NotEmpty(t, osMod.SearchPath())

	pathResults := resolve(ev, []string{"os", "path"}, osMod, nil)

	require.Len(t, pathResults, 1)
	pathMod, ok := pathResults[0].(*StubContext)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(s.Root(), "stdlib", "2and3", "os", "path.pyi"), pathMod.Path())
}

func TestWrap_NestedWithoutStubParent(t *testing.T) {
	s, ev := newOverlayFixture(t)
	concrete := &fakeModule{path: "/src/os/path.py"}
	resolve := s.WrapImportModule(fixedModules(concrete))

	// A nested import under a plain concrete parent never consults stubs.
	parent := &fakeModule{path: "/src/os/__init__.py"}
	results := resolve(ev, []string{"os", "path"}, parent, nil)

	require.Len(t, results, 1)
	assert.Same(t, concrete, results[0])
}

func TestWrap_UnwrapsOverlaidParent(t *testing.T) {
	s, ev := newOverlayFixture(t)
	concreteParent := &fakeModule{path: "/src/os/__init__.py"}

	var innerSawParent Context
	inner := func(ev Evaluator, importNames []string, parent Context, searchPath []string) []Context {
		innerSawParent = parent
		return nil
	}
	resolve := s.WrapImportModule(inner)

	overlaid := resolve(ev, []string{"os"}, nil, nil)
	require.Len(t, overlaid, 1)

	// Re-wrap with a concrete pairing, then import through it.
	doc := overlaid[0].(*StubContext).Document()
	parent := s.newStubModule(doc, concreteParent, nil)
	resolve(ev, []string{"os", "path"}, parent, nil)

	assert.Same(t, concreteParent, innerSawParent,
		"inner resolver works on real source, not the overlay")
}

func TestWrap_Composable(t *testing.T) {
	s, ev := newOverlayFixture(t)
	concrete := &fakeModule{path: "/src/plain.py"}

	// Layer the wrapper over itself: the calling convention must survive.
	resolve := s.WrapImportModule(s.WrapImportModule(fixedModules(concrete)))

	results := resolve(ev, []string{"plain"}, nil, nil)
	require.Len(t, results, 1)
	assert.Same(t, concrete, results[0])
}
