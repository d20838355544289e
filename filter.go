package understory

// stubName is a declared name in a stub scope with no concrete counterpart:
// both navigation and inference land on the stub declaration.
type stubName struct {
	session *Session
	scope   Context
	path    string
	decl    *Declaration
}

func (n *stubName) Value() string {
	return n.decl.Name
}

func (n *stubName) Location() Location {
	return Location{Path: n.path, Line: n.decl.Line, Col: n.decl.Col}
}

func (n *stubName) Infer() []Context {
	return n.session.infer(n.scope, n.decl)
}

// Decl exposes the underlying stub declaration.
func (n *stubName) Decl() *Declaration {
	return n.decl
}

// declFilter enumerates the declarations of one stub scope.
type declFilter struct {
	session *Session
	scope   *StubContext
	decls   []*Declaration
}

func (f *declFilter) name(decl *Declaration) Name {
	path := ""
	if f.scope.doc != nil {
		path = f.scope.doc.Path
	}
	return &stubName{
		session: f.session,
		scope:   f.scope,
		path:    path,
		decl:    decl,
	}
}

// Get implements Filter.
func (f *declFilter) Get(name string) []Name {
	var out []Name
	for _, decl := range f.decls {
		if decl.Name == name {
			out = append(out, f.name(decl))
		}
	}
	return out
}

// Values implements Filter.
func (f *declFilter) Values() []Name {
	out := make([]Name, 0, len(f.decls))
	for _, decl := range f.decls {
		out = append(out, f.name(decl))
	}
	return out
}

// MergedName pairs a stub declaration with one same-named concrete
// declaration: navigation targets the concrete location, inference the stub
// declaration.
type MergedName struct {
	session  *Session
	scope    Context // the stub scope the declaration re-resolves through
	decl     *Declaration
	concrete Name
}

// Value implements Name.
func (n *MergedName) Value() string {
	return n.decl.Name
}

// Location implements Name: go-to-definition lands on the concrete
// declaration.
func (n *MergedName) Location() Location {
	return n.concrete.Location()
}

// Infer implements Name: the stub declaration is re-resolved through the
// stub scope, so chained inference stays anchored in stub declarations
// instead of reverting to concrete-only inference.
func (n *MergedName) Infer() []Context {
	return n.session.infer(n.scope, n.decl)
}

// ConcreteName returns the paired concrete declaration.
func (n *MergedName) ConcreteName() Name {
	return n.concrete
}

// MergedNameFilter adapts a stub scope's own filter so that each declared
// name pairs with any same-named concrete declaration, and stub-private
// names stay hidden from attribute lookups.
type MergedNameFilter struct {
	session  *Session
	scope    *StubContext
	stub     Filter // the stub scope's own declaration filter
	concrete Filter // the concrete scope's own filter; nil without a pairing
	lookup   Lookup
}

// Get implements Filter.
func (f *MergedNameFilter) Get(name string) []Name {
	return f.convert(f.stub.Get(name))
}

// Values implements Filter.
func (f *MergedNameFilter) Values() []Name {
	return f.convert(f.stub.Values())
}

// convert pairs each reachable stub name with its concrete declarations.
// Without a concrete match the stub name stands alone; with matches, one
// MergedName per concrete declaration.
func (f *MergedNameFilter) convert(names []Name) []Name {
	var out []Name
	for _, name := range names {
		sn, ok := name.(*stubName)
		if !ok {
			out = append(out, name)
			continue
		}
		if !f.reachable(sn.decl) {
			continue
		}
		var found []Name
		if f.concrete != nil {
			found = f.concrete.Get(sn.Value())
		}
		if len(found) == 0 {
			out = append(out, sn)
		}
		for _, concrete := range found {
			out = append(out, &MergedName{
				session:  f.session,
				scope:    f.scope,
				decl:     sn.decl,
				concrete: concrete,
			})
		}
	}
	return out
}

// reachable applies the stub visibility rule: for attribute lookups, an
// import is only public when it carries an explicit "as" re-export alias.
// Scope lookups see everything.
func (f *MergedNameFilter) reachable(decl *Declaration) bool {
	if f.lookup == ScopeLookup {
		return true
	}
	if decl.Kind == DeclImport && !decl.Aliased {
		return false
	}
	return true
}
