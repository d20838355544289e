package understory

// Lookup selects which visibility a name enumeration uses. Attribute lookups
// see a module from the outside and hide stub-private names; scope lookups
// resolve names from within the scope itself.
type Lookup int

const (
	AttributeLookup Lookup = iota
	ScopeLookup
)

// ContextKind is the coarse classification of a context representation.
type ContextKind int

const (
	ModuleKind ContextKind = iota
	ClassKind
	FunctionKind
	ValueKind
)

// Location is a source position pointing at a declared name. Line is
// 1-based, Col is 0-based.
type Location struct {
	Path string
	Line int
	Col  int
}

// Name is one declared name in some scope. Location answers go-to-definition;
// Infer answers what the name denotes.
type Name interface {
	Value() string
	Location() Location
	Infer() []Context
}

// Filter resolves names within one scope of a context. Filters are plain
// values: both methods may be called repeatedly and in any order.
type Filter interface {
	// Get returns the declarations of the given name, or nil.
	Get(name string) []Name
	// Values returns every name the filter can see.
	Values() []Name
}

// Context is the capability contract required from the host engine's
// module, class, and function representations.
type Context interface {
	// Kind classifies the representation.
	Kind() ContextKind
	// Path is the absolute source path backing the context, or "" for
	// synthetic contexts.
	Path() string
	// Filters returns the context's name filters in resolution order. The
	// returned slice is freshly built per call and safe to re-enumerate.
	Filters(lookup Lookup) []Filter
}

// ModuleContext is a module-level Context that can report the directories a
// package-form module spans, for resolving imports nested under it.
type ModuleContext interface {
	Context
	SearchPath() []string
}

// Evaluator is the host analysis engine handle threaded through import
// resolution.
type Evaluator interface {
	// LanguageVersion is the analyzed Python version.
	LanguageVersion() Version
}

// Inferrer resolves a stub declaration through its scope to the contexts it
// denotes. The host's inference engine should implement this so stub
// declarations participate in full type inference; a Session without one
// falls back to a declaration-shape inferrer that covers functions and
// classes.
type Inferrer interface {
	InferDeclaration(scope Context, decl *Declaration) []Context
}

// Parser turns a stub file into a Document. The Session's default is the
// tree-sitter implementation in internal/pyi.
type Parser interface {
	ParseFile(path string) (*Document, error)
}

// ImportResolver is the import-resolution hook shape shared by the engine
// and any wrappers layered over it. importNames is the dotted import path,
// one element per component; parent is the enclosing module context for nested imports, or
// nil. Implementations return zero or more module-like contexts.
type ImportResolver func(ev Evaluator, importNames []string, parent Context, searchPath []string) []Context
