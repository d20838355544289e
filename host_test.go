package understory

// Fake host representations shared by the package tests: a minimal concrete
// engine satisfying the Evaluator/Context/Name contracts.

type fakeEvaluator struct {
	version Version
}

func (e fakeEvaluator) LanguageVersion() Version {
	return e.version
}

type fakeName struct {
	value    string
	loc      Location
	inferred []Context
}

func (n *fakeName) Value() string {
	return n.value
}

func (n *fakeName) Location() Location {
	return n.loc
}

func (n *fakeName) Infer() []Context {
	return n.inferred
}

type fakeFilter struct {
	names []Name
}

func (f *fakeFilter) Get(name string) []Name {
	var out []Name
	for _, n := range f.names {
		if n.Value() == name {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeFilter) Values() []Name {
	return f.names
}

// fakeModule is a concrete module representation parsed from real source.
type fakeModule struct {
	path   string
	names  []Name
	search []string
}

func (m *fakeModule) Kind() ContextKind {
	return ModuleKind
}

func (m *fakeModule) Path() string {
	return m.path
}

func (m *fakeModule) Filters(lookup Lookup) []Filter {
	return []Filter{&fakeFilter{names: m.names}}
}

func (m *fakeModule) SearchPath() []string {
	return m.search
}

// fakeFunction is a concrete function representation, used to test that
// inference results get re-tagged as stub functions.
type fakeFunction struct {
	path string
}

func (f *fakeFunction) Kind() ContextKind {
	return FunctionKind
}

func (f *fakeFunction) Path() string {
	return f.path
}

func (f *fakeFunction) Filters(lookup Lookup) []Filter {
	return nil
}

// inferrerFunc adapts a function to the Inferrer interface.
type inferrerFunc func(scope Context, decl *Declaration) []Context

func (f inferrerFunc) InferDeclaration(scope Context, decl *Declaration) []Context {
	return f(scope, decl)
}
