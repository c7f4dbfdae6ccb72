package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("regular file", func(t *testing.T) {
		path := filepath.Join(dir, "app.js")
		content := []byte("import {Button} from \"antd\";\n")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		data, err := ReadSource(path)
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("copy survives rewrite of the file", func(t *testing.T) {
		path := filepath.Join(dir, "rewrite.js")
		require.NoError(t, os.WriteFile(path, []byte("const a = 1;\n"), 0o644))

		data, err := ReadSource(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("const b = 2;\n"), 0o644))
		assert.Equal(t, "const a = 1;\n", string(data))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ts")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		data, err := ReadSource(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("large file", func(t *testing.T) {
		path := filepath.Join(dir, "large.js")
		content := bytes.Repeat([]byte("export const x = 1;\n"), 10000)
		require.NoError(t, os.WriteFile(path, content, 0o644))

		data, err := ReadSource(path)
		require.NoError(t, err)
		assert.Equal(t, len(content), len(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadSource(filepath.Join(dir, "missing.js"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadSource(dir)
		require.Error(t, err)
	})
}

func TestLoggerConfig_WithOverrides(t *testing.T) {
	base := DefaultLoggerConfig()

	got := base.WithOverrides("DEBUG", "json")
	assert.Equal(t, LevelDebug, got.Level)
	assert.Equal(t, FormatJSON, got.Format)

	got = base.WithOverrides("", "")
	assert.Equal(t, base.Level, got.Level)
	assert.Equal(t, base.Format, got.Format)

	got = base.WithOverrides("verbose", "xml")
	assert.Equal(t, base.Level, got.Level)
	assert.Equal(t, base.Format, got.Format)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept", "file", "app.js")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"file":"app.js"`)
}

func TestGetOptimalPoolSize(t *testing.T) {
	size := GetOptimalPoolSize()
	assert.GreaterOrEqual(t, size, 4)
	assert.LessOrEqual(t, size, 32)
	assert.Equal(t, 3, GetOptimalPoolSizeWithOverride(3))
	assert.Equal(t, size, GetOptimalPoolSizeWithOverride(0))
}
