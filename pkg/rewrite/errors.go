package rewrite

import (
	"errors"
	"fmt"
)

// ErrFullImport is matched by every *FullImportError via errors.Is.
var ErrFullImport = errors.New("full import not allowed")

// FullImportError reports a default or namespace import of a source whose
// config sets preventFullImport. It aborts the whole module transform.
type FullImportError struct {
	// Source is the import source string of the offending declaration.
	Source string
	// Line is the 1-based line of the declaration, 0 if unknown.
	Line uint
}

func (e *FullImportError) Error() string {
	return fmt.Sprintf("import of entire module %q not allowed due to preventFullImport setting", e.Source)
}

// Is makes errors.Is(err, ErrFullImport) true.
func (e *FullImportError) Is(target error) bool {
	return target == ErrFullImport
}
