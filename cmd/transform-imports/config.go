package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/transform-imports/pkg/config"
	"github.com/gnana997/transform-imports/pkg/runner"
	"github.com/gnana997/transform-imports/pkg/util"
)

const (
	defaultProjectFile = ".transform-imports.yaml"

	envConfig    = "TRANSFORM_IMPORTS_CONFIG"
	envLogLevel  = "TRANSFORM_IMPORTS_LOG_LEVEL"
	envLogFormat = "TRANSFORM_IMPORTS_LOG_FORMAT"
	envWorkers   = "TRANSFORM_IMPORTS_WORKERS"
)

// ProjectConfig holds the contents of .transform-imports.yaml.
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Config is a JSON or YAML table file, relative to the project file.
	Config string `yaml:"config"`

	// Imports is an inline table, used when Config is empty.
	Imports config.Table `yaml:"imports"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// dir is the directory holding the project file.
	dir string
}

// loadProjectConfig reads the project file at path.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// resolveTable returns the import table to use, applying the fallback chain:
//  1. Explicit --config flag value
//  2. config file named by the project file
//  3. imports inlined in the project file
//  4. Empty table (nothing is rewritten)
//
// The second return value names where the table came from.
func resolveTable(flagValue string, project *ProjectConfig) (config.Table, string, error) {
	if flagValue != "" {
		table, err := config.Load(flagValue)
		return table, flagValue, err
	}

	if project != nil && project.Config != "" {
		path := project.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(project.dir, path)
		}
		table, err := config.Load(path)
		return table, path, err
	}

	if project != nil && len(project.Imports) > 0 {
		if err := project.Imports.Validate(); err != nil {
			return nil, "", err
		}
		return project.Imports, defaultProjectFile, nil
	}

	return config.Table{}, "", nil
}

// runnerOptions merges the project's globs into the default run options.
func runnerOptions(project *ProjectConfig) runner.Options {
	opts := runner.DefaultOptions()
	if project == nil {
		return opts
	}
	if len(project.Include) > 0 {
		opts.Include = project.Include
	}
	if len(project.Exclude) > 0 {
		opts.Exclude = project.Exclude
	}
	return opts
}

// loggerConfig layers the logger settings: defaults, project file,
// environment, then flags.
func loggerConfig(project *ProjectConfig, flagLevel, flagFormat string) util.LoggerConfig {
	cfg := util.DefaultLoggerConfig()
	if project != nil {
		cfg = cfg.WithOverrides(project.LogLevel, project.LogFormat)
	}
	cfg = cfg.WithOverrides(os.Getenv(envLogLevel), os.Getenv(envLogFormat))
	return cfg.WithOverrides(flagLevel, flagFormat)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
