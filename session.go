package understory

import (
	"github.com/rs/zerolog"

	"github.com/jward/understory/internal/pyi"
	"github.com/jward/understory/internal/stubs"
)

// excludedTopLevel is never resolved through the stub index: the host engine
// resolves it through its own dedicated mechanism.
const excludedTopLevel = "typing"

// Session owns the stub caches for one analysis session: the per-version
// name index and the per-path parsed documents. Both caches live for the
// Session's lifetime and are never invalidated — a filesystem change after
// the first build is deliberately not observed.
//
// A Session assumes a single active analysis goroutine. A concurrent host
// must guard the Session externally or give each analysis thread its own.
type Session struct {
	root     string
	parser   Parser
	inferrer Inferrer
	logger   zerolog.Logger

	indexes map[Version]Index
	docs    map[string]*Document

	stats Stats
}

// Stats counts cache-miss work a Session has performed. Cache hits leave the
// counters untouched, so they double as an observable cache probe.
type Stats struct {
	IndexBuilds    int
	DocumentParses int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithParser replaces the default tree-sitter stub parser.
func WithParser(p Parser) SessionOption {
	return func(s *Session) {
		s.parser = p
	}
}

// WithInferrer installs the host engine's inference hook for stub
// declarations.
func WithInferrer(i Inferrer) SessionOption {
	return func(s *Session) {
		s.inferrer = i
	}
}

// WithLogger sets the session logger. The default discards everything.
func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a Session resolving stubs under stubsRoot, a directory
// in the typeshed layout (stdlib/ and third_party/ categories).
func NewSession(stubsRoot string, opts ...SessionOption) *Session {
	s := &Session{
		root:    stubsRoot,
		parser:  pyi.NewParser(),
		logger:  zerolog.Nop(),
		indexes: make(map[Version]Index),
		docs:    make(map[string]*Document),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.inferrer == nil {
		s.inferrer = declInferrer{session: s}
	}
	return s
}

// Root returns the stub repository root the Session resolves against.
func (s *Session) Root() string {
	return s.root
}

// Stats returns a copy of the session's cache-miss counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Directories returns the ordered stub directories the Session would search
// for a version. Unlike IndexFor, the result is derived fresh on every call.
func (s *Session) Directories(v Version) []string {
	return stubs.Directories(s.root, v)
}

// IndexFor returns the merged name index for the given version, building it
// on first request and reusing it for the Session's lifetime afterwards.
func (s *Session) IndexFor(v Version) Index {
	if idx, ok := s.indexes[v]; ok {
		return idx
	}
	dirs := stubs.Directories(s.root, v)
	idx := stubs.Merge(dirs)
	s.indexes[v] = idx
	s.stats.IndexBuilds++
	s.logger.Debug().
		Stringer("version", v).
		Int("directories", len(dirs)).
		Int("entries", len(idx)).
		Msg("built stub index")
	return idx
}

// DocumentFor returns the parsed document for a stub path, parsing on first
// access. A path that cannot be read or parsed reports (nil, false) and is
// not cached, so a later request observes a file restored to disk.
func (s *Session) DocumentFor(path string) (*Document, bool) {
	if doc, ok := s.docs[path]; ok {
		return doc, true
	}
	doc, err := s.parser.ParseFile(path)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("stub unavailable")
		return nil, false
	}
	s.docs[path] = doc
	s.stats.DocumentParses++
	return doc, true
}

// infer resolves a stub declaration through its scope, re-tagging any
// function result as a stub-scoped function so that inference chained
// through it keeps consulting stub information.
func (s *Session) infer(scope Context, decl *Declaration) []Context {
	results := s.inferrer.InferDeclaration(scope, decl)
	out := make([]Context, 0, len(results))
	for _, c := range results {
		if c.Kind() == FunctionKind {
			if _, isStub := c.(*StubContext); !isStub {
				c = s.newStubFunction(c, scope, decl)
			}
		}
		out = append(out, c)
	}
	return out
}

// declInferrer is the fallback Inferrer: it maps a declaration to a stub
// context by shape alone. Assignments and imports carry no inferable value
// without the host's inference engine and resolve to nothing.
type declInferrer struct {
	session *Session
}

func (i declInferrer) InferDeclaration(scope Context, decl *Declaration) []Context {
	sc, ok := scope.(*StubContext)
	if !ok {
		return nil
	}
	switch decl.Kind {
	case DeclFunction:
		return []Context{i.session.newStubFunction(nil, scope, decl)}
	case DeclClass:
		return []Context{&StubContext{
			kind:    ClassKind,
			session: i.session,
			doc:     sc.doc,
			decl:    decl,
			parent:  scope,
		}}
	}
	return nil
}
