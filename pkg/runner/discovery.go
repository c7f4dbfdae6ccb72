package runner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/transform-imports/pkg/parser"
)

// Matcher decides which root-relative paths a run covers.
type Matcher struct {
	include []string
	exclude []string
}

// NewMatcher validates the patterns and returns a Matcher.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	return &Matcher{include: include, exclude: exclude}, nil
}

// Excluded reports whether relPath (slash separated) matches an exclude pattern.
func (m *Matcher) Excluded(relPath string) bool {
	for _, pattern := range m.exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Matches reports whether the file at relPath should be transformed.
func (m *Matcher) Matches(relPath string) bool {
	if parser.DetectDialect(relPath) == parser.DialectUnknown {
		return false
	}
	if m.Excluded(relPath) {
		return false
	}
	if len(m.include) == 0 {
		return true
	}
	for _, pattern := range m.include {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Discover walks root and returns the matching files in lexical order.
func Discover(root string, matcher *Matcher, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, ok := relSlash(root, path)
		if !ok {
			return nil
		}

		if d.IsDir() {
			if relPath != "." && matcher.Excluded(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.Matches(relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}

// relSlash returns path relative to root with forward slashes.
func relSlash(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
