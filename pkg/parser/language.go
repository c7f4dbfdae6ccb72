package parser

import (
	"path/filepath"
	"strings"
)

// Dialect identifies which tree-sitter grammar parses a source file.
type Dialect int

const (
	// DialectJavaScript covers .js, .jsx, .mjs and .cjs (JSX is part of the
	// JavaScript grammar).
	DialectJavaScript Dialect = iota
	// DialectTypeScript covers .ts, .mts and .cts.
	DialectTypeScript
	// DialectTSX covers .tsx (TypeScript grammar with JSX enabled).
	DialectTSX
	// DialectUnknown marks an unsupported file.
	DialectUnknown
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case DialectJavaScript:
		return "javascript"
	case DialectTypeScript:
		return "typescript"
	case DialectTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// DetectDialect detects the dialect from a file path.
// Returns DialectUnknown if the file extension is not recognized.
func DetectDialect(filePath string) Dialect {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx":
		return DialectTSX
	default:
		return DialectUnknown
	}
}

// ParseDialect converts a dialect or language name to a Dialect.
// Returns DialectUnknown if the string is not recognized.
func ParseDialect(name string) Dialect {
	switch strings.ToLower(name) {
	case "javascript", "js", "jsx":
		return DialectJavaScript
	case "typescript", "ts":
		return DialectTypeScript
	case "tsx":
		return DialectTSX
	default:
		return DialectUnknown
	}
}

// SupportedExtensions returns the file extensions DetectDialect recognizes.
func SupportedExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx"}
}
