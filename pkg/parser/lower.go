package parser

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/transform-imports/pkg/ast"
)

// Lower converts the top level of a parsed program into an ast.Module.
//
// Every named child of the program node becomes one statement, comments
// included. Import declarations are lowered into *ast.ImportDecl; anything
// else, and any import the lowering cannot represent faithfully (syntax
// errors, `import x = require(...)`, `import typeof`), becomes an
// *ast.RawStatement that callers leave untouched.
func Lower(tree *ts.Tree, source []byte) *ast.Module {
	root := tree.RootNode()
	count := root.NamedChildCount()

	module := &ast.Module{Statements: make([]ast.Statement, 0, count)}
	for i := uint(0); i < count; i++ {
		node := root.NamedChild(i)
		if node == nil {
			continue
		}
		module.Statements = append(module.Statements, lowerStatement(node, source))
	}
	return module
}

func lowerStatement(node *ts.Node, source []byte) ast.Statement {
	if node.Kind() == "import_statement" && !node.HasError() {
		if decl, ok := lowerImport(node, source); ok {
			return decl
		}
	}
	return rawStatement(node, source)
}

func rawStatement(node *ts.Node, source []byte) *ast.RawStatement {
	return &ast.RawStatement{
		Kind: node.Kind(),
		Text: node.Utf8Text(source),
		Span: spanOf(node),
	}
}

func spanOf(node *ts.Node) ast.Span {
	return ast.Span{Start: node.StartByte(), End: node.EndByte()}
}

// lowerImport handles
//
//	import_statement: 'import' ['type'] [import_clause 'from'] source [import_attribute] [';']
func lowerImport(node *ts.Node, source []byte) (*ast.ImportDecl, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil, false
	}

	decl := &ast.ImportDecl{
		Source: unquote(sourceNode.Utf8Text(source)),
		Line:   node.StartPosition().Row + 1,
		Span:   spanOf(node),
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "type":
			if !child.IsNamed() {
				decl.TypeOnly = true
			}
		case "typeof":
			return nil, false
		case "import_clause":
			specs, ok := lowerClause(child, source)
			if !ok {
				return nil, false
			}
			decl.Specifiers = specs
		case "import_attribute":
			decl.With = child.Utf8Text(source)
		}
	}

	return decl, true
}

// lowerClause handles
//
//	import_clause: namespace_import | named_imports | identifier [',' (namespace_import | named_imports)]
func lowerClause(clause *ts.Node, source []byte) ([]ast.ImportSpecifier, bool) {
	var specs []ast.ImportSpecifier

	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "identifier":
			specs = append(specs, &ast.DefaultSpecifier{Local: child.Utf8Text(source)})

		case "namespace_import":
			local := firstNamedOfKind(child, "identifier")
			if local == nil {
				return nil, false
			}
			specs = append(specs, &ast.NamespaceSpecifier{Local: local.Utf8Text(source)})

		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				specNode := child.NamedChild(j)
				if specNode == nil || specNode.Kind() != "import_specifier" {
					// comments inside the braces
					continue
				}
				spec, ok := lowerSpecifier(specNode, source)
				if !ok {
					return nil, false
				}
				specs = append(specs, spec)
			}

		case "comment":
		default:
			return nil, false
		}
	}

	return specs, true
}

// lowerSpecifier handles
//
//	import_specifier: ['type'] name ['as' alias]
//
// where name is an identifier or a string literal.
func lowerSpecifier(node *ts.Node, source []byte) (*ast.NamedSpecifier, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, false
	}

	spec := &ast.NamedSpecifier{}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "type":
			spec.TypeOnly = true
		case "typeof":
			return nil, false
		}
	}

	name := exportName(nameNode, source)
	if aliasNode := node.ChildByFieldName("alias"); aliasNode != nil {
		spec.Local = aliasNode.Utf8Text(source)
		spec.Imported = &name
	} else {
		spec.Local = name.Value
	}
	return spec, true
}

func exportName(node *ts.Node, source []byte) ast.ExportName {
	if node.Kind() == "string" {
		return ast.ExportName{Value: unquote(node.Utf8Text(source)), IsString: true}
	}
	return ast.ExportName{Value: node.Utf8Text(source)}
}

func firstNamedOfKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// unquote strips the quotes of a JavaScript string literal and resolves
// escapes where Go's rules agree with JavaScript's. Literals Go cannot
// decode keep their raw inner text.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return raw
	}

	inner := raw[1 : len(raw)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}

	normalized := strings.ReplaceAll(inner, `\'`, `'`)
	normalized = strings.ReplaceAll(normalized, `"`, `\"`)
	normalized = strings.ReplaceAll(normalized, `\\"`, `\"`)
	if s, err := strconv.Unquote(`"` + normalized + `"`); err == nil {
		return s
	}
	return inner
}
