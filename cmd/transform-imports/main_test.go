package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const antdJSON = `{
  "antd": {
    "transform": "antd/es/${member}",
    "style": "antd/es/${member}/style",
    "memberTransformers": ["dashed_case"]
  }
}`

const (
	appSource      = "import {DatePicker} from \"antd\";\nexport default DatePicker;\n"
	appTransformed = "import DatePicker from \"antd/es/date-picker\";\nimport \"antd/es/date-picker/style\";\nexport default DatePicker;\n"
)

// --- helpers ---

type output struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) output {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := &cli{stdin: strings.NewReader(""), stdout: &stdout, stderr: &stderr}
	code := c.run(args)
	return output{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// setupWorkspace writes a config file and a small source tree and returns
// (root, configPath).
func setupWorkspace(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	root := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "imports.json")
	require.NoError(t, os.WriteFile(configPath, []byte(antdJSON), 0o644))

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root, configPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// --- dispatch ---

func TestRun_Dispatch(t *testing.T) {
	out := runCLI(t, "version")
	assert.Equal(t, 0, out.code)
	assert.Equal(t, "transform-imports "+version+"\n", out.stdout)

	out = runCLI(t, "help")
	assert.Equal(t, 0, out.code)
	assert.Contains(t, out.stdout, "Usage: transform-imports")

	out = runCLI(t)
	assert.Equal(t, 2, out.code)
	assert.Contains(t, out.stderr, "Usage:")

	out = runCLI(t, "bogus")
	assert.Equal(t, 2, out.code)
	assert.Contains(t, out.stderr, "unknown command: bogus")
}

// --- run / check ---

func TestCheck_ReportsFilesToRewrite(t *testing.T) {
	root, configPath := setupWorkspace(t, map[string]string{
		"src/app.js":   appSource,
		"src/plain.ts": "export const x = 1;\n",
	})

	out := runCLI(t, "check", "--config", configPath, root)
	assert.Equal(t, 1, out.code)
	assert.Equal(t, "would rewrite "+filepath.Join(root, "src", "app.js")+"\n", out.stdout)
	assert.Contains(t, out.stderr, "2 files checked, 1 to rewrite, 0 failed")
	assert.Equal(t, appSource, readFile(t, filepath.Join(root, "src", "app.js")))
}

func TestCheck_CleanTree(t *testing.T) {
	root, configPath := setupWorkspace(t, map[string]string{
		"src/app.js": appTransformed,
	})

	out := runCLI(t, "check", "--config", configPath, root)
	assert.Equal(t, 0, out.code)
	assert.Empty(t, out.stdout)
}

func TestRun_Write(t *testing.T) {
	root, configPath := setupWorkspace(t, map[string]string{
		"src/app.js": appSource,
	})

	out := runCLI(t, "run", "--config", configPath, "--write", root)
	require.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, "rewrote "+filepath.Join(root, "src", "app.js")+"\n", out.stdout)
	assert.Equal(t, appTransformed, readFile(t, filepath.Join(root, "src", "app.js")))
}

func TestRun_OutDir(t *testing.T) {
	root, configPath := setupWorkspace(t, map[string]string{
		"src/app.js": appSource,
	})
	outDir := filepath.Join(t.TempDir(), "out")

	out := runCLI(t, "run", "--config", configPath, "--out", outDir, root)
	require.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, appTransformed, readFile(t, filepath.Join(outDir, "src", "app.js")))
	assert.Equal(t, appSource, readFile(t, filepath.Join(root, "src", "app.js")))
}

func TestRun_SingleFileToStdout(t *testing.T) {
	root, configPath := setupWorkspace(t, map[string]string{
		"app.js": appSource,
	})

	out := runCLI(t, "run", "--config", configPath, filepath.Join(root, "app.js"))
	require.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, appTransformed, out.stdout)
}

func TestRun_FullImportFails(t *testing.T) {
	root, configPath := setupWorkspace(t, map[string]string{
		"src/full.js": "import {Button} from \"antd\";\nimport antd from \"antd\";\n",
	})

	out := runCLI(t, "run", "--config", configPath, root)
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stderr, "full.js:2: import of entire module \"antd\" not allowed")
}

func TestRun_ProjectFile(t *testing.T) {
	root, _ := setupWorkspace(t, map[string]string{
		"src/app.js":    appSource,
		"legacy/old.js": appSource,
	})
	project := filepath.Join(root, defaultProjectFile)
	require.NoError(t, os.WriteFile(project, []byte(`version: "1"
imports:
  antd:
    transform: antd/es/${member}
    style: antd/es/${member}/style
    memberTransformers: [kebab_case]
exclude:
  - "legacy/**"
log_level: error
`), 0o644))

	out := runCLI(t, "run", "--project", project, "--write", root)
	require.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, appTransformed, readFile(t, filepath.Join(root, "src", "app.js")))
	assert.Equal(t, appSource, readFile(t, filepath.Join(root, "legacy", "old.js")))
}

func TestRun_BadInput(t *testing.T) {
	root, _ := setupWorkspace(t, nil)
	badConfig := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badConfig, []byte(`{"antd": {"memberTransformers": ["shouting"]}}`), 0o644))

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"bad config", []string{"run", "--config", badConfig, root}, "error:"},
		{"missing config", []string{"run", "--config", filepath.Join(root, "nope.json"), root}, "nope.json"},
		{"missing target", []string{"run", filepath.Join(root, "missing")}, "missing"},
		{"too many paths", []string{"check", root, root}, "expected at most one path"},
		{"unknown flag", []string{"check", "--frobnicate"}, "frobnicate"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := runCLI(t, tc.args...)
			assert.Equal(t, 2, out.code)
			assert.Contains(t, out.stderr, tc.message)
		})
	}
}
