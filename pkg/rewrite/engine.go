// Package rewrite implements the import rewrite engine: it expands imports of
// configured sources into per-member imports and optional style imports.
package rewrite

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/transform-imports/pkg/ast"
	"github.com/gnana997/transform-imports/pkg/casing"
	"github.com/gnana997/transform-imports/pkg/config"
)

// Engine rewrites statement sequences against one configuration table.
//
// An Engine holds no mutable state; it may be shared by goroutines as long as
// the table is not modified.
//
// Example:
//
//	table, err := config.ParseString(raw)
//	if err != nil {
//	    return err
//	}
//	engine := rewrite.NewEngine(table, logger)
//	out, err := engine.Rewrite(module.Statements)
type Engine struct {
	configs config.Table
	logger  *slog.Logger
}

// NewEngine creates an engine for configs. Logger can be nil.
func NewEngine(configs config.Table, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		configs: configs,
		logger:  logger,
	}
}

// Rewrite is a convenience wrapper for NewEngine(configs, nil).Rewrite(stmts).
func Rewrite(stmts []ast.Statement, configs config.Table) ([]ast.Statement, error) {
	return NewEngine(configs, nil).Rewrite(stmts)
}

// Enabled reports whether the engine has anything to rewrite.
func (e *Engine) Enabled() bool {
	return len(e.configs) > 0
}

// Rewrite returns the rewritten statement sequence.
//
// Statements that are not imports of a configured source are carried over
// unchanged, in order. A *FullImportError aborts the whole sequence and no
// partial result is returned. The input slice is never modified; with an
// empty table it is returned as is.
func (e *Engine) Rewrite(stmts []ast.Statement) ([]ast.Statement, error) {
	if !e.Enabled() {
		return stmts, nil
	}

	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		expanded, err := e.Expand(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// Expand returns the statements that replace stmt.
//
// For a statement that is left alone the result is exactly []ast.Statement{stmt}
// (same value), which lets callers detect pass-through by identity. A
// configured import with no specifiers expands to nothing.
func (e *Engine) Expand(stmt ast.Statement) ([]ast.Statement, error) {
	decl, ok := stmt.(*ast.ImportDecl)
	if !ok {
		return []ast.Statement{stmt}, nil
	}

	cfg, ok := e.configs.Lookup(decl.Source)
	if !ok {
		return []ast.Statement{stmt}, nil
	}

	if cfg.PreventFullImport && hasFullImport(decl) {
		return nil, &FullImportError{Source: decl.Source, Line: decl.Line}
	}

	out := make([]ast.Statement, 0, expandedLen(decl, cfg))
	for _, spec := range decl.Specifiers {
		switch s := spec.(type) {
		case *ast.NamedSpecifier:
			out = append(out, e.expandNamed(decl, s, cfg)...)
		case *ast.DefaultSpecifier, *ast.NamespaceSpecifier:
			out = append(out, &ast.ImportDecl{
				Source:     decl.Source,
				Specifiers: []ast.ImportSpecifier{spec},
				TypeOnly:   decl.TypeOnly,
				With:       decl.With,
				Line:       decl.Line,
			})
		default:
			panic(fmt.Sprintf("rewrite: unhandled specifier type %T", spec))
		}
	}

	e.logger.Debug("rewrote import",
		"source", decl.Source,
		"specifiers", len(decl.Specifiers),
		"statements", len(out))

	return out, nil
}

// expandNamed builds the member import for one named specifier, followed by
// the style import when one is configured.
func (e *Engine) expandNamed(decl *ast.ImportDecl, spec *ast.NamedSpecifier, cfg *config.ModuleConfig) []ast.Statement {
	member := casing.Apply(spec.ExportedName(), cfg.MemberTransformers)
	e.logger.Debug("transformed member",
		"source", decl.Source,
		"member", spec.ExportedName(),
		"transformed", member)

	var newSpec ast.ImportSpecifier = &ast.DefaultSpecifier{Local: spec.Local}
	if cfg.SkipDefaultConversion {
		newSpec = spec
	}

	out := []ast.Statement{&ast.ImportDecl{
		Source:     Substitute(cfg.Transform, member),
		Specifiers: []ast.ImportSpecifier{newSpec},
		TypeOnly:   decl.TypeOnly || spec.TypeOnly,
		With:       decl.With,
		Line:       decl.Line,
	}}

	if cfg.HasStyle() {
		out = append(out, &ast.ImportDecl{
			Source: Substitute(*cfg.Style, member),
			With:   decl.With,
			Line:   decl.Line,
		})
	}
	return out
}

func hasFullImport(decl *ast.ImportDecl) bool {
	for _, spec := range decl.Specifiers {
		switch spec.(type) {
		case *ast.DefaultSpecifier, *ast.NamespaceSpecifier:
			return true
		}
	}
	return false
}

func expandedLen(decl *ast.ImportDecl, cfg *config.ModuleConfig) int {
	if cfg.HasStyle() {
		return 2 * len(decl.Specifiers)
	}
	return len(decl.Specifiers)
}
