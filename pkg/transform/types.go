// Package transform rewrites the imports of one JavaScript or TypeScript
// module: it parses the source once, runs the rewrite engine over the
// top-level statements and splices the replacements back into the original
// bytes.
package transform

import "github.com/gnana997/transform-imports/pkg/parser"

// Result is the outcome of transforming one module.
type Result struct {
	// Name is the file path, or the display name given to Transform.
	Name    string
	Dialect parser.Dialect

	// Code is the transformed source. It aliases the input when Changed is
	// false.
	Code    []byte
	Changed bool

	// ImportsRewritten counts import declarations that were replaced.
	ImportsRewritten int

	// StatementsEmitted counts the declarations written in their place.
	StatementsEmitted int
}

// edit replaces source[start:end] with text.
type edit struct {
	start uint
	end   uint
	text  string
}
