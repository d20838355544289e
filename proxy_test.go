package understory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_StubWins(t *testing.T) {
	s := NewSession(t.TempDir())
	doc := parseStub(t, "/stubs/mod.pyi", "def shared() -> int: ...\n")
	concrete := &fakeModule{path: "/src/mod.py", names: []Name{
		&fakeName{value: "shared", loc: Location{Path: "/src/mod.py", Line: 2}},
	}}
	router := NewAttributeRouter(s.newStubModule(doc, concrete, nil))

	found := router.Attribute("shared")

	require.Len(t, found, 1)
	// The stub scope answered: the result is the merged pairing, not the
	// concrete-only name.
	_, isMerged := found[0].(*MergedName)
	assert.True(t, isMerged)
}

func TestRouter_FallsBackToConcrete(t *testing.T) {
	s := NewSession(t.TempDir())
	doc := parseStub(t, "/stubs/mod.pyi", "def stubbed() -> int: ...\n")
	concreteOnly := &fakeName{value: "undocumented", loc: Location{Path: "/src/mod.py", Line: 40}}
	concrete := &fakeModule{path: "/src/mod.py", names: []Name{concreteOnly}}
	router := NewAttributeRouter(s.newStubModule(doc, concrete, nil))

	found := router.Attribute("undocumented")

	require.Len(t, found, 1)
	assert.Equal(t, 40, found[0].Location().Line, "stub had nothing: concrete answers")
}

func TestRouter_MissEverywhere(t *testing.T) {
	s := NewSession(t.TempDir())
	doc := parseStub(t, "/stubs/mod.pyi", "x: int\n")
	router := NewAttributeRouter(s.newStubModule(doc, nil, nil))

	assert.Empty(t, router.Attribute("nope"))
}

func TestRouter_AttributesUnion(t *testing.T) {
	s := NewSession(t.TempDir())
	doc := parseStub(t, "/stubs/mod.pyi", "def shared() -> int: ...\ndef stub_only() -> int: ...\n")
	concrete := &fakeModule{path: "/src/mod.py", names: []Name{
		&fakeName{value: "shared", loc: Location{Path: "/src/mod.py", Line: 2}},
		&fakeName{value: "undocumented", loc: Location{Path: "/src/mod.py", Line: 8}},
	}}
	router := NewAttributeRouter(s.newStubModule(doc, concrete, nil))

	var values []string
	for _, n := range router.Attributes() {
		values = append(values, n.Value())
	}

	assert.ElementsMatch(t, []string{"shared", "stub_only", "undocumented"}, values)
}

func TestRouter_RootWalksToOutermostModule(t *testing.T) {
	s := NewSession(t.TempDir())
	pkgDoc := parseStub(t, "/stubs/os/__init__.pyi", "def getcwd() -> str: ...\n")
	pkg := s.newStubModule(pkgDoc, nil, nil)

	subDoc := parseStub(t, "/stubs/os/path.pyi", "def join(*p: str) -> str: ...\n")
	sub := s.newStubModule(subDoc, nil, pkg)

	router := NewAttributeRouter(sub)
	assert.Same(t, pkg, router.Root())
}

func TestRouter_RootOfTopLevelIsItself(t *testing.T) {
	s := NewSession(t.TempDir())
	doc := parseStub(t, "/stubs/mod.pyi", "x: int\n")
	mod := s.newStubModule(doc, nil, nil)

	assert.Same(t, mod, NewAttributeRouter(mod).Root())
}
