package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a statement as source text.
//
// Raw statements are returned verbatim. Import declarations are printed in a
// canonical form with double-quoted sources and a trailing semicolon:
//
//	import MyButton from "antd/es/my-button";
//	import "antd/es/my-button/style";
func Format(stmt Statement) string {
	switch s := stmt.(type) {
	case *RawStatement:
		return s.Text
	case *ImportDecl:
		return formatImport(s)
	default:
		panic(fmt.Sprintf("ast: unhandled statement type %T", stmt))
	}
}

// FormatAll renders statements separated by sep.
func FormatAll(stmts []Statement, sep string) string {
	parts := make([]string, len(stmts))
	for i, stmt := range stmts {
		parts[i] = Format(stmt)
	}
	return strings.Join(parts, sep)
}

func formatImport(d *ImportDecl) string {
	var b strings.Builder
	b.WriteString("import ")
	if d.TypeOnly {
		b.WriteString("type ")
	}

	if clause := formatClause(d); clause != "" {
		b.WriteString(clause)
		b.WriteString(" from ")
	}

	b.WriteString(strconv.Quote(d.Source))
	if d.With != "" {
		b.WriteByte(' ')
		b.WriteString(d.With)
	}
	b.WriteByte(';')
	return b.String()
}

func formatClause(d *ImportDecl) string {
	var (
		head  []string
		named []string
	)

	for _, spec := range d.Specifiers {
		switch s := spec.(type) {
		case *DefaultSpecifier:
			head = append(head, s.Local)
		case *NamespaceSpecifier:
			head = append(head, "* as "+s.Local)
		case *NamedSpecifier:
			named = append(named, formatNamed(s, d.TypeOnly))
		default:
			panic(fmt.Sprintf("ast: unhandled specifier type %T", spec))
		}
	}

	if len(named) > 0 {
		head = append(head, "{ "+strings.Join(named, ", ")+" }")
	}
	return strings.Join(head, ", ")
}

func formatNamed(s *NamedSpecifier, declTypeOnly bool) string {
	var b strings.Builder
	// `import type { type X }` is a syntax error
	if s.TypeOnly && !declTypeOnly {
		b.WriteString("type ")
	}
	if s.Imported != nil {
		if s.Imported.IsString {
			b.WriteString(strconv.Quote(s.Imported.Value))
		} else {
			b.WriteString(s.Imported.Value)
		}
		b.WriteString(" as ")
	}
	b.WriteString(s.Local)
	return b.String()
}
