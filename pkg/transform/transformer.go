package transform

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gnana997/transform-imports/pkg/ast"
	"github.com/gnana997/transform-imports/pkg/parser"
	"github.com/gnana997/transform-imports/pkg/rewrite"
)

// Transformer applies a rewrite.Engine to whole source files.
//
// Only the byte ranges of rewritten import declarations change; every other
// byte of the input, comments and formatting included, is copied through.
//
// Usage:
//
//	pm := parser.NewManager(logger, 0)
//	defer pm.Close()
//	t := transform.NewTransformer(pm, rewrite.NewEngine(table, logger), logger)
//	result, err := t.TransformFile(path, source)
//	if err != nil {
//	    return err
//	}
//	// Use result.Code, result.Changed
//
// A Transformer is safe for concurrent use.
type Transformer struct {
	parserManager *parser.Manager
	engine        *rewrite.Engine
	logger        *slog.Logger
}

// NewTransformer creates a transformer. Logger can be nil.
func NewTransformer(pm *parser.Manager, engine *rewrite.Engine, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Transformer{
		parserManager: pm,
		engine:        engine,
		logger:        logger,
	}
}

// TransformFile detects the dialect from filePath and transforms source.
func (t *Transformer) TransformFile(filePath string, source []byte) (*Result, error) {
	dialect := parser.DetectDialect(filePath)
	if dialect == parser.DialectUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return t.Transform(filePath, source, dialect)
}

// Transform rewrites source parsed as dialect. Name is only used in errors
// and logs.
//
// A forbidden full import is returned as "name:line: <FullImportError>", so
// errors.Is(err, rewrite.ErrFullImport) and errors.As still work.
func (t *Transformer) Transform(name string, source []byte, dialect parser.Dialect) (*Result, error) {
	result := &Result{
		Name:    name,
		Dialect: dialect,
		Code:    source,
	}

	// Nothing configured: skip the parse entirely.
	if !t.engine.Enabled() {
		return result, nil
	}

	module, err := t.parserManager.ParseModule(source, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	var edits []edit
	for _, decl := range module.Imports() {
		out, err := t.engine.Expand(decl)
		if err != nil {
			var fullImport *rewrite.FullImportError
			if errors.As(err, &fullImport) {
				return nil, fmt.Errorf("%s:%d: %w", name, fullImport.Line, err)
			}
			return nil, fmt.Errorf("failed to rewrite %s: %w", name, err)
		}

		if len(out) == 1 && out[0] == ast.Statement(decl) {
			continue
		}

		edits = append(edits, newEdit(source, decl.Span, out))
		result.ImportsRewritten++
		result.StatementsEmitted += len(out)
	}

	if len(edits) == 0 {
		return result, nil
	}

	result.Code = splice(source, edits)
	result.Changed = !bytes.Equal(result.Code, source)

	t.logger.Debug("transformed module",
		"file", name,
		"imports_rewritten", result.ImportsRewritten,
		"statements_emitted", result.StatementsEmitted)

	return result, nil
}

// newEdit builds the replacement for one rewritten declaration. An empty
// expansion also removes the line break that ended the declaration.
func newEdit(source []byte, span ast.Span, out []ast.Statement) edit {
	e := edit{start: span.Start, end: span.End}
	if len(out) > 0 {
		e.text = ast.FormatAll(out, "\n")
		return e
	}

	rest := source[span.End:]
	switch {
	case bytes.HasPrefix(rest, []byte("\r\n")):
		e.end += 2
	case bytes.HasPrefix(rest, []byte("\n")):
		e.end++
	}
	return e
}

// splice applies edits, which must be sorted and non-overlapping.
func splice(source []byte, edits []edit) []byte {
	var buf bytes.Buffer
	buf.Grow(len(source))

	var pos uint
	for _, e := range edits {
		buf.Write(source[pos:e.start])
		buf.WriteString(e.text)
		pos = e.end
	}
	buf.Write(source[pos:])

	return buf.Bytes()
}
