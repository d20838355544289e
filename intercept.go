package understory

import (
	"github.com/jward/understory/internal/stubs"
)

// WrapImportModule layers stub-overlay resolution over an inner
// import-resolution function. The wrapper keeps the inner function's calling
// convention, so it composes arbitrarily deep with other wrappers.
//
// When no stub covers the import, the inner result passes through unchanged.
// When the inner result is empty and a stub exists, a single stub-only
// module is returned. Otherwise each concrete result is paired with the stub
// document in an overlaid module whose identity stays with the concrete
// module.
func (s *Session) WrapImportModule(inner ImportResolver) ImportResolver {
	return func(ev Evaluator, importNames []string, parent Context, searchPath []string) []Context {
		// The inner resolver works on real source; hand it the concrete
		// module when the parent is an overlaid stub module.
		innerParent := parent
		if sc, ok := parent.(*StubContext); ok && sc.Kind() == ModuleKind && sc.Concrete() != nil {
			innerParent = sc.Concrete()
		}
		concrete := inner(ev, importNames, innerParent, searchPath)

		if len(importNames) == 0 {
			return concrete
		}
		importName := importNames[len(importNames)-1]

		// Pick the index: top-level imports consult the cached per-version
		// index; imports nested under a stub-backed package consult a
		// fresh index over that package's own directories. Anything else
		// resolves without stubs. "typing" is the one top-level name the
		// host resolves through its own mechanism.
		var index Index
		if len(importNames) == 1 && importName != excludedTopLevel {
			index = s.IndexFor(ev.LanguageVersion())
		} else if sc, ok := parent.(*StubContext); ok && sc.Kind() == ModuleKind {
			index = stubs.Merge(sc.SearchPath())
		}
		if index == nil {
			return concrete
		}

		path, ok := index[importName]
		if !ok {
			return concrete
		}
		doc, ok := s.DocumentFor(path)
		if !ok {
			// The file went away after the index was built. Treat the
			// stub as absent and keep the concrete result.
			return concrete
		}

		s.logger.Debug().Str("import", importName).Str("stub", path).
			Int("concrete", len(concrete)).Msg("stub overlay")

		if len(concrete) == 0 {
			return []Context{s.newStubModule(doc, nil, parent)}
		}
		overlaid := make([]Context, 0, len(concrete))
		for _, c := range concrete {
			overlaid = append(overlaid, s.newStubModule(doc, c, parent))
		}
		return overlaid
	}
}
