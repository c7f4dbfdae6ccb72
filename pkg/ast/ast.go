// Package ast defines the top-level statement model that import rewriting
// operates on.
//
// Only import declarations are modeled in detail. Every other top-level
// statement is carried as a RawStatement holding its original source text,
// so it can be passed through byte for byte.
package ast

// Span is a half-open byte range [Start, End) into the original source.
// A zero Span marks a node constructed by a rewrite rather than parsed.
type Span struct {
	Start uint
	End   uint
}

// IsZero reports whether the span does not point into any source.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Module is one parsed source file.
type Module struct {
	Statements []Statement
}

// Imports returns the import declarations of the module in source order.
func (m *Module) Imports() []*ImportDecl {
	var out []*ImportDecl
	for _, stmt := range m.Statements {
		if decl, ok := stmt.(*ImportDecl); ok {
			out = append(out, decl)
		}
	}
	return out
}

// Statement is a top-level module statement. Implemented by *ImportDecl and
// *RawStatement only.
type Statement interface {
	statementNode()
	// Pos returns the location of the statement in the original source.
	Pos() Span
}

// ImportDecl is an ES module import declaration.
//
//	import Default, { A, B as C } from "source" with { type: "json" };
type ImportDecl struct {
	// Source is the unquoted module specifier.
	Source string

	// Specifiers lists the bindings in source order. Empty for a
	// side-effect-only import.
	Specifiers []ImportSpecifier

	// TypeOnly marks `import type ...` (TypeScript).
	TypeOnly bool

	// With is the raw attributes clause, e.g. `with { type: "json" }`.
	// Empty when the declaration has none.
	With string

	// Line is the 1-based line the declaration starts on (0 if constructed).
	Line uint

	Span Span
}

func (*ImportDecl) statementNode() {}

// Pos implements Statement.
func (d *ImportDecl) Pos() Span { return d.Span }

// RawStatement is any top-level statement that is not an import declaration.
type RawStatement struct {
	// Kind is the grammar node kind, e.g. "lexical_declaration".
	Kind string
	Text string
	Span Span
}

func (*RawStatement) statementNode() {}

// Pos implements Statement.
func (s *RawStatement) Pos() Span { return s.Span }

// ImportSpecifier is one binding clause of an import declaration. The set of
// implementations is closed: *DefaultSpecifier, *NamespaceSpecifier and
// *NamedSpecifier.
type ImportSpecifier interface {
	specifierNode()
	// LocalName is the binding introduced in the importing module.
	LocalName() string
}

// DefaultSpecifier binds the default export: `import Local from "x"`.
type DefaultSpecifier struct {
	Local string
}

// NamespaceSpecifier binds the whole module: `import * as Local from "x"`.
type NamespaceSpecifier struct {
	Local string
}

// NamedSpecifier binds one exported member: `import { Imported as Local }`.
type NamedSpecifier struct {
	Local string

	// Imported is the exported name when it differs from Local
	// (`{ X as Y }`). Nil for `{ X }`.
	Imported *ExportName

	// TypeOnly marks `{ type X }` (TypeScript).
	TypeOnly bool
}

func (*DefaultSpecifier) specifierNode()   {}
func (*NamespaceSpecifier) specifierNode() {}
func (*NamedSpecifier) specifierNode()     {}

func (s *DefaultSpecifier) LocalName() string   { return s.Local }
func (s *NamespaceSpecifier) LocalName() string { return s.Local }
func (s *NamedSpecifier) LocalName() string     { return s.Local }

// ExportedName returns the member name as known inside the source module:
// the imported name when aliased, the local name otherwise.
func (s *NamedSpecifier) ExportedName() string {
	if s.Imported != nil {
		return s.Imported.Value
	}
	return s.Local
}

// ExportName is the exported side of a named specifier. ES2022 allows
// arbitrary string literals there (`import { "a-b" as ab }`).
type ExportName struct {
	Value    string
	IsString bool
}
