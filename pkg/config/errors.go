package config

import "fmt"

// Error reports a configuration that cannot be used. It is always fatal and
// is returned before any statement is rewritten.
type Error struct {
	// Source is the offending table key, empty when the document itself is
	// malformed.
	Source string
	Err    error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("invalid import config for %q: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("invalid import config: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
