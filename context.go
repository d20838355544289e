package understory

import (
	"fmt"
	"path/filepath"
)

// StubContext is a stub-backed module, class, or function representation,
// one tagged type covering all three. A module-kind context may pair with
// the concrete module it overlays; class- and function-kind contexts carry
// no concrete pairing of their own — pairing happens per name, in the
// merged filter.
type StubContext struct {
	kind    ContextKind
	session *Session
	doc     *Document
	decl    *Declaration // declaring name; nil for module kind
	parent  Context      // enclosing context, nil for a top-level module

	// counterpart is the concrete module this context overlays (module
	// kind), or the host function representation this context re-tags
	// (function kind, set during inference conversion).
	counterpart Context
}

// newStubModule builds a module context for doc. concrete is the paired
// concrete module, nil for a stub-only module. parent is the importing
// module context, if any.
func (s *Session) newStubModule(doc *Document, concrete, parent Context) *StubContext {
	return &StubContext{
		kind:        ModuleKind,
		session:     s,
		doc:         doc,
		parent:      parent,
		counterpart: concrete,
	}
}

// newStubFunction re-tags a function inferred through a stub scope. The
// counterpart may be nil when the function exists only in the stub.
func (s *Session) newStubFunction(counterpart, scope Context, decl *Declaration) *StubContext {
	sc := &StubContext{
		kind:        FunctionKind,
		session:     s,
		decl:        decl,
		parent:      scope,
		counterpart: counterpart,
	}
	if owner, ok := scope.(*StubContext); ok {
		sc.doc = owner.doc
	}
	return sc
}

// Kind implements Context.
func (c *StubContext) Kind() ContextKind {
	return c.kind
}

// Document returns the parsed stub backing this context.
func (c *StubContext) Document() *Document {
	return c.doc
}

// Decl returns the declaration that introduced a class- or function-kind
// context; nil for modules.
func (c *StubContext) Decl() *Declaration {
	return c.decl
}

// Concrete returns the paired concrete module for an overlaid module
// context, or nil.
func (c *StubContext) Concrete() Context {
	if c.kind != ModuleKind {
		return nil
	}
	return c.counterpart
}

// Path implements Context. Identity follows the concrete module when one is
// paired, so navigation and caching stay anchored in real source.
func (c *StubContext) Path() string {
	if c.kind == ModuleKind && c.counterpart != nil {
		return c.counterpart.Path()
	}
	if c.doc != nil {
		return c.doc.Path
	}
	return ""
}

// SearchPath implements ModuleContext. A package-form stub module (backed by
// an __init__.pyi) spans its directory; other kinds span nothing.
func (c *StubContext) SearchPath() []string {
	if c.kind != ModuleKind || c.doc == nil {
		return nil
	}
	if filepath.Base(c.doc.Path) == "__init__.pyi" {
		return []string{filepath.Dir(c.doc.Path)}
	}
	return nil
}

// Filters implements Context.
//
// For a module, the first default filter — the one carrying the module's own
// declared names — is wrapped in a MergedNameFilter and the remaining
// defaults pass through unchanged. For a class, the single filter enumerates
// the class body. Function contexts delegate to the representation they
// re-tag, when present.
func (c *StubContext) Filters(lookup Lookup) []Filter {
	switch c.kind {
	case ModuleKind:
		defaults := c.defaultFilters()
		if len(defaults) == 0 {
			return nil
		}
		var concrete Filter
		if c.counterpart != nil {
			if cf := c.counterpart.Filters(lookup); len(cf) > 0 {
				concrete = cf[0]
			}
		}
		filters := []Filter{&MergedNameFilter{
			session:  c.session,
			scope:    c,
			stub:     defaults[0],
			concrete: concrete,
			lookup:   lookup,
		}}
		return append(filters, defaults[1:]...)
	case ClassKind:
		if c.decl == nil {
			return nil
		}
		return []Filter{&declFilter{
			session: c.session,
			scope:   c,
			decls:   c.decl.Children,
		}}
	case FunctionKind:
		if c.counterpart != nil {
			return c.counterpart.Filters(lookup)
		}
	}
	return nil
}

// defaultFilters is the module's unwrapped filter chain: its own declared
// names. Fallback scopes contributed by the host (builtins) sit on the
// concrete module and are not duplicated here.
func (c *StubContext) defaultFilters() []Filter {
	if c.doc == nil {
		return nil
	}
	return []Filter{&declFilter{
		session: c.session,
		scope:   c,
		decls:   c.doc.Decls,
	}}
}

// String implements fmt.Stringer for diagnostics.
func (c *StubContext) String() string {
	switch c.kind {
	case ModuleKind:
		if c.counterpart != nil {
			return fmt.Sprintf("<StubModule %s over %s>", c.doc.Path, c.counterpart.Path())
		}
		return fmt.Sprintf("<StubModule %s>", c.doc.Path)
	case ClassKind:
		return fmt.Sprintf("<StubClass %s>", c.decl.Name)
	default:
		return fmt.Sprintf("<StubFunction %s>", c.decl.Name)
	}
}
