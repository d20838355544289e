// Package pyi parses Python interface-declaration (.pyi) files with
// tree-sitter and extracts the declared names an analysis engine needs:
// module-level functions, classes, assignments, and imports, plus one level
// of class-body members.
package pyi

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// DeclKind classifies a stub declaration.
type DeclKind int

const (
	KindFunction DeclKind = iota
	KindClass
	KindAssignment
	KindImport
)

// String returns the lowercase kind name.
func (k DeclKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindAssignment:
		return "assignment"
	case KindImport:
		return "import"
	}
	return "unknown"
}

// Declaration is one name declared in a stub file. Line is 1-based, Col is
// 0-based, both pointing at the declared name itself.
type Declaration struct {
	Name string
	Kind DeclKind
	Line int
	Col  int

	// Aliased reports, for KindImport, whether the binding carried an
	// explicit "as" alias. Bare imports are private to the stub module;
	// only aliased imports are re-exported.
	Aliased bool

	// Children holds class-body declarations for KindClass.
	Children []*Declaration
}

// Document is a parsed stub file. The tree handle stays alive for the
// document's lifetime so callers can walk beyond the extracted declarations.
type Document struct {
	Path   string
	Source []byte
	Decls  []*Declaration

	tree *sitter.Tree
}

// Root returns the syntax tree's root node.
func (d *Document) Root() *sitter.Node {
	return d.tree.RootNode()
}

// DeclsNamed returns all module-level declarations of the given name, in
// source order. Stub files routinely declare a name more than once
// (overloads, version-guarded branches).
func (d *Document) DeclsNamed(name string) []*Declaration {
	var out []*Declaration
	for _, decl := range d.Decls {
		if decl.Name == name {
			out = append(out, decl)
		}
	}
	return out
}
