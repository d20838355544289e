package pyi

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser parses .pyi sources with the tree-sitter Python grammar. It is not
// safe for concurrent use; the overlay core runs on a single analysis
// goroutine.
type Parser struct {
	inner *sitter.Parser
}

// NewParser returns a Parser backed by the tree-sitter Python grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{inner: p}
}

// ParseFile reads and parses the stub at path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stub: %w", err)
	}
	return p.Parse(path, src)
}

// Parse parses src as a stub document. tree-sitter produces a best-effort
// tree for malformed input, so declarations around an error node are still
// extracted.
func (p *Parser) Parse(path string, src []byte) (*Document, error) {
	tree, err := p.inner.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse stub %s: %w", path, err)
	}
	doc := &Document{
		Path:   path,
		Source: src,
		tree:   tree,
	}
	doc.Decls = extractBlock(tree.RootNode(), src, true)
	return doc, nil
}

// extractBlock collects declarations from the statements directly under node.
// When topLevel is true, declarations nested under if/else/try guards are
// also collected: typeshed stubs wrap declarations in sys.version_info
// checks, and all branches contribute names.
func extractBlock(node *sitter.Node, src []byte, topLevel bool) []*Declaration {
	var decls []*Declaration
	for i := 0; i < int(node.NamedChildCount()); i++ {
		stmt := node.NamedChild(i)
		switch stmt.Type() {
		case "function_definition":
			if d := namedDecl(stmt, src, KindFunction); d != nil {
				decls = append(decls, d)
			}
		case "class_definition":
			if d := namedDecl(stmt, src, KindClass); d != nil {
				if body := stmt.ChildByFieldName("body"); body != nil {
					d.Children = extractBlock(body, src, false)
				}
				decls = append(decls, d)
			}
		case "decorated_definition":
			if def := stmt.ChildByFieldName("definition"); def != nil {
				kind := KindFunction
				if def.Type() == "class_definition" {
					kind = KindClass
				}
				if d := namedDecl(def, src, kind); d != nil {
					if kind == KindClass {
						if body := def.ChildByFieldName("body"); body != nil {
							d.Children = extractBlock(body, src, false)
						}
					}
					decls = append(decls, d)
				}
			}
		case "expression_statement":
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				child := stmt.NamedChild(j)
				if child.Type() == "assignment" {
					decls = append(decls, assignmentTargets(child, src)...)
				}
			}
		case "import_statement":
			decls = append(decls, importedNames(stmt, src)...)
		case "import_from_statement":
			decls = append(decls, importedFromNames(stmt, src)...)
		case "if_statement":
			if !topLevel {
				continue
			}
			if cons := stmt.ChildByFieldName("consequence"); cons != nil {
				decls = append(decls, extractBlock(cons, src, true)...)
			}
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				alt := stmt.NamedChild(j)
				switch alt.Type() {
				case "elif_clause":
					if cons := alt.ChildByFieldName("consequence"); cons != nil {
						decls = append(decls, extractBlock(cons, src, true)...)
					}
				case "else_clause":
					if body := alt.ChildByFieldName("body"); body != nil {
						decls = append(decls, extractBlock(body, src, true)...)
					}
				}
			}
		case "try_statement":
			if !topLevel {
				continue
			}
			if body := stmt.ChildByFieldName("body"); body != nil {
				decls = append(decls, extractBlock(body, src, true)...)
			}
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				clause := stmt.NamedChild(j)
				switch clause.Type() {
				case "except_clause", "else_clause", "finally_clause":
					for k := 0; k < int(clause.NamedChildCount()); k++ {
						if block := clause.NamedChild(k); block.Type() == "block" {
							decls = append(decls, extractBlock(block, src, true)...)
						}
					}
				}
			}
		}
	}
	return decls
}

// namedDecl builds a declaration from a definition node's name field.
func namedDecl(def *sitter.Node, src []byte, kind DeclKind) *Declaration {
	name := def.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	return declAt(name, src, kind)
}

func declAt(name *sitter.Node, src []byte, kind DeclKind) *Declaration {
	point := name.StartPoint()
	return &Declaration{
		Name: name.Content(src),
		Kind: kind,
		Line: int(point.Row) + 1,
		Col:  int(point.Column),
	}
}

// assignmentTargets collects the bound identifiers on an assignment's left
// side: plain identifiers and identifier lists/tuples. Annotated declarations
// without a value ("x: int") bind the same way.
func assignmentTargets(assign *sitter.Node, src []byte) []*Declaration {
	left := assign.ChildByFieldName("left")
	if left == nil {
		return nil
	}
	var decls []*Declaration
	switch left.Type() {
	case "identifier":
		decls = append(decls, declAt(left, src, KindAssignment))
	case "pattern_list", "tuple_pattern":
		for i := 0; i < int(left.NamedChildCount()); i++ {
			if target := left.NamedChild(i); target.Type() == "identifier" {
				decls = append(decls, declAt(target, src, KindAssignment))
			}
		}
	}
	return decls
}

// importedNames handles "import a.b" and "import a.b as c". A dotted import
// binds its first component; an aliased import binds the alias.
func importedNames(stmt *sitter.Node, src []byte) []*Declaration {
	var decls []*Declaration
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			if first := child.NamedChild(0); first != nil {
				decls = append(decls, declAt(first, src, KindImport))
			}
		case "aliased_import":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				d := declAt(alias, src, KindImport)
				d.Aliased = true
				decls = append(decls, d)
			}
		}
	}
	return decls
}

// importedFromNames handles "from m import a" and "from m import a as b".
// Wildcard imports bind nothing the overlay can enumerate.
func importedFromNames(stmt *sitter.Node, src []byte) []*Declaration {
	module := stmt.ChildByFieldName("module_name")
	var decls []*Declaration
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if module != nil && child.Equal(module) {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			if first := child.NamedChild(0); first != nil {
				decls = append(decls, declAt(first, src, KindImport))
			}
		case "aliased_import":
			if alias := child.ChildByFieldName("alias"); alias != nil {
				d := declAt(alias, src, KindImport)
				d.Aliased = true
				decls = append(decls, d)
			}
		}
	}
	return decls
}
