// Package parser parses JavaScript and TypeScript sources with tree-sitter and
// lowers the top level of the syntax tree into an ast.Module.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/transform-imports/pkg/ast"
	"github.com/gnana997/transform-imports/pkg/util"
)

// Manager owns one parser pool per dialect.
//
// Memory Management:
// - Pools are created lazily on first use of a dialect
// - Manager must be closed via Close()
// - Callers of Parse own the returned Tree and must call tree.Close()
//
// Thread Safety:
// - Safe for concurrent use; pool creation uses double-checked locking
// - Up to poolSize goroutines can parse the same dialect at once
//
// Example:
//
//	manager := parser.NewManager(logger, 0)
//	defer manager.Close()
//
//	module, err := manager.ParseModule(source, parser.DialectTSX)
//	if err != nil {
//	    return err
//	}
type Manager struct {
	pools    map[Dialect]*parserPool
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewManager creates a Manager. A poolSize of 0 uses
// util.GetOptimalPoolSize(), which is also the default worker count of the
// runner so that workers never wait on parsers.
func NewManager(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		pools:    make(map[Dialect]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the grammar of dialect.
//
// Returns a Tree that MUST be closed by the caller. Syntax errors do not fail
// the parse; they are logged and the partial tree is returned.
func (m *Manager) Parse(source []byte, dialect Dialect) (*ts.Tree, error) {
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("cannot parse unknown dialect")
	}

	m.mutex.Lock()
	m.stats.parsesCalled++
	m.mutex.Unlock()

	pool, err := m.getOrCreatePool(dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", dialect, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	if tree.RootNode().HasError() {
		m.logger.Warn("parse tree contains errors",
			"dialect", dialect.String())
	}

	return tree, nil
}

// ParseModule parses source and lowers its top-level statements. The tree is
// closed before returning.
func (m *Manager) ParseModule(source []byte, dialect Dialect) (*ast.Module, error) {
	tree, err := m.Parse(source, dialect)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return Lower(tree, source), nil
}

// ParseFile detects the dialect from filePath and calls ParseModule.
func (m *Manager) ParseFile(source []byte, filePath string) (*ast.Module, error) {
	dialect := DetectDialect(filePath)
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return m.ParseModule(source, dialect)
}

// Close releases all parser pools. The Manager cannot be used afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Debug("closing parser manager",
		"parses_called", m.stats.parsesCalled)

	for dialect, pool := range m.pools {
		closed := pool.close()
		m.logger.Debug("closed parser pool",
			"dialect", dialect.String(),
			"parsers_closed", closed)
	}
	m.pools = make(map[Dialect]*parserPool)

	return nil
}

func (m *Manager) getOrCreatePool(dialect Dialect) (*parserPool, error) {
	m.mutex.RLock()
	pool, exists := m.pools[dialect]
	m.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if pool, exists = m.pools[dialect]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(dialect)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(dialect, langPtr, m.poolSize, m.logger)
	m.pools[dialect] = pool

	m.logger.Debug("created new parser pool",
		"dialect", dialect.String(),
		"maxSize", m.poolSize)

	return pool, nil
}

func languagePointer(dialect Dialect) (unsafe.Pointer, error) {
	switch dialect {
	case DialectJavaScript:
		return ts_javascript.Language(), nil
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect.String())
	}
}

// Stats returns parser usage statistics.
func (m *Manager) Stats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	created := 0
	for _, pool := range m.pools {
		created += pool.createdCount()
	}

	return Stats{
		ParsersCreated: created,
		ParsesCalled:   m.stats.parsesCalled,
	}
}

// Stats contains parser usage statistics.
type Stats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int
}
