package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/transform-imports/pkg/config"
	"github.com/gnana997/transform-imports/pkg/util"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), defaultProjectFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := loadProjectConfig(filepath.Join(t.TempDir(), defaultProjectFile))
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("full file", func(t *testing.T) {
		path := writeProject(t, `version: "1"
config: tables/imports.yaml
include: ["src/**/*.ts"]
exclude: ["**/*.test.ts"]
log_level: debug
log_format: json
`)
		cfg, err := loadProjectConfig(path)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "1", cfg.Version)
		assert.Equal(t, "tables/imports.yaml", cfg.Config)
		assert.Equal(t, []string{"src/**/*.ts"}, cfg.Include)
		assert.Equal(t, []string{"**/*.test.ts"}, cfg.Exclude)
		assert.Equal(t, filepath.Dir(path), cfg.dir)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := loadProjectConfig(writeProject(t, "imports: [unclosed"))
		require.Error(t, err)
	})

	t.Run("invalid inline table", func(t *testing.T) {
		_, err := loadProjectConfig(writeProject(t, "imports:\n  antd:\n    style: x\n"))
		require.Error(t, err)
		var cfgErr *config.Error
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestResolveTable(t *testing.T) {
	dir := t.TempDir()
	flagTable := filepath.Join(dir, "flag.json")
	require.NoError(t, os.WriteFile(flagTable, []byte(`{"flag-lib": {"transform": "flag-lib/${member}"}}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tables"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tables", "imports.yaml"),
		[]byte("file-lib:\n  transform: file-lib/${member}\n"), 0o644))

	inline := config.Table{"inline-lib": config.New("inline-lib/${member}")}

	tests := []struct {
		name     string
		flag     string
		project  *ProjectConfig
		expected []string
	}{
		{"flag wins", flagTable, &ProjectConfig{Config: "tables/imports.yaml", Imports: inline, dir: dir}, []string{"flag-lib"}},
		{"project config file", "", &ProjectConfig{Config: "tables/imports.yaml", Imports: inline, dir: dir}, []string{"file-lib"}},
		{"project inline table", "", &ProjectConfig{Imports: inline, dir: dir}, []string{"inline-lib"}},
		{"nothing configured", "", nil, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, _, err := resolveTable(tc.flag, tc.project)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, table.Sources())
		})
	}
}

func TestRunnerOptions(t *testing.T) {
	defaults := runnerOptions(nil)
	assert.NotEmpty(t, defaults.Include)
	assert.NotEmpty(t, defaults.Exclude)

	opts := runnerOptions(&ProjectConfig{Include: []string{"app/**/*.tsx"}})
	assert.Equal(t, []string{"app/**/*.tsx"}, opts.Include)
	assert.Equal(t, defaults.Exclude, opts.Exclude)
}

func TestLoggerConfig_Precedence(t *testing.T) {
	project := &ProjectConfig{LogLevel: "warn", LogFormat: "json"}

	t.Setenv(envLogLevel, "")
	t.Setenv(envLogFormat, "")
	cfg := loggerConfig(project, "", "")
	assert.Equal(t, util.LevelWarn, cfg.Level)
	assert.Equal(t, util.FormatJSON, cfg.Format)

	t.Setenv(envLogLevel, "error")
	cfg = loggerConfig(project, "", "")
	assert.Equal(t, util.LevelError, cfg.Level)

	cfg = loggerConfig(project, "debug", "text")
	assert.Equal(t, util.LevelDebug, cfg.Level)
	assert.Equal(t, util.FormatText, cfg.Format)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv(envWorkers, "3")
	assert.Equal(t, 3, getEnvInt(envWorkers, 0))

	t.Setenv(envWorkers, "many")
	assert.Equal(t, 0, getEnvInt(envWorkers, 0))

	t.Setenv(envConfig, "")
	assert.Equal(t, "fallback", getEnvOrDefault(envConfig, "fallback"))
	t.Setenv(envConfig, "imports.json")
	assert.Equal(t, "imports.json", getEnvOrDefault(envConfig, "fallback"))
}
