package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const mcpServerName = "transform-imports"

// agentDef describes how to detect one AI agent and register the MCP
// server with it.
type agentDef struct {
	id          string
	displayName string

	// binary is set for agents configured through their own CLI
	// (`<binary> mcp add`).
	binary string

	// dirMarkers are project directories whose presence means the agent is
	// used here. Agents without markers are detected by the parent
	// directory of configPath.
	dirMarkers  []string
	configPath  func() string
	serversKey  string
	extraFields map[string]string
}

// detectedAgent is an agent found on this machine or in this project.
type detectedAgent struct {
	def          agentDef
	configPath   string
	alreadySetup bool
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	execFunc     = func(name string, args []string, stdout, stderr io.Writer) error {
		cmd := exec.Command(name, args...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		return cmd.Run()
	}
)

var agentRegistry = []agentDef{
	{
		id: "claude_code", displayName: "Claude Code",
		binary: "claude",
	},
	{
		id: "vscode", displayName: "VS Code",
		dirMarkers:  []string{".vscode"},
		configPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		serversKey:  "servers",
		extraFields: map[string]string{"type": "stdio"},
	},
	{
		id: "cursor", displayName: "Cursor",
		dirMarkers: []string{".cursor"},
		configPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		serversKey: "mcpServers",
	},
	{
		id: "claude_desktop", displayName: "Claude Desktop",
		configPath: claudeDesktopConfigPath,
		serversKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

func detectAgents() []detectedAgent {
	var detected []detectedAgent

	for _, def := range agentRegistry {
		if def.binary != "" {
			if _, err := lookPathFunc(def.binary); err == nil {
				detected = append(detected, detectedAgent{
					def:          def,
					alreadySetup: fileHasServer(".mcp.json", "mcpServers"),
				})
			}
			continue
		}

		configPath := def.configPath()
		found := false
		for _, marker := range def.dirMarkers {
			if _, err := statFunc(marker); err == nil {
				found = true
				break
			}
		}
		if !found && len(def.dirMarkers) == 0 {
			_, err := statFunc(filepath.Dir(configPath))
			found = err == nil
		}

		if found {
			detected = append(detected, detectedAgent{
				def:          def,
				configPath:   configPath,
				alreadySetup: fileHasServer(configPath, def.serversKey),
			})
		}
	}

	return detected
}

// fileHasServer reports whether the JSON file at path already registers the
// server under serversKey.
func fileHasServer(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	servers, _ := doc[serversKey].(map[string]any)
	_, exists := servers[mcpServerName]
	return exists
}

// mergeServerEntry adds the server entry under serversKey to the existing
// JSON document (which may be empty) and returns the new document.
// Returns nil, nil if the server is already registered.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	doc := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := doc[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[mcpServerName]; exists {
		return nil, nil
	}

	entry := map[string]any{
		"command": mcpServerName,
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	servers[mcpServerName] = entry
	doc[serversKey] = servers

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func configureFileAgent(d detectedAgent) error {
	if err := os.MkdirAll(filepath.Dir(d.configPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	existing, err := os.ReadFile(d.configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", d.configPath, err)
	}

	merged, err := mergeServerEntry(existing, d.def.serversKey, d.def.extraFields)
	if err != nil || merged == nil {
		return err
	}
	return os.WriteFile(d.configPath, merged, 0644)
}

func (c *cli) configureCLIAgent(def agentDef, scope string) error {
	args := []string{"mcp", "add", "--scope", scope, mcpServerName, "--", mcpServerName, "serve"}
	return execFunc(def.binary, args, c.stdout, c.stderr)
}

// runSetup registers the MCP server with every detected agent, asking
// for confirmation per agent unless --auto is given.
func (c *cli) runSetup(args []string) int {
	var (
		auto  bool
		scope string
	)
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.BoolVar(&auto, "auto", false, "Configure every detected agent without prompting")
	fs.StringVar(&scope, "scope", "project", "Scope for CLI agents (project, user)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	detected := detectAgents()
	if len(detected) == 0 {
		fmt.Fprintln(c.stdout, "No supported AI agents detected.")
		return 0
	}

	fmt.Fprintln(c.stdout, "Detected AI agents:")
	for _, d := range detected {
		if d.alreadySetup {
			fmt.Fprintf(c.stdout, "  * %s (already configured)\n", d.def.displayName)
		} else {
			fmt.Fprintf(c.stdout, "  * %s\n", d.def.displayName)
		}
	}

	input := bufio.NewScanner(c.stdin)
	failed := 0
	for _, d := range detected {
		if d.alreadySetup {
			continue
		}
		if !auto && !promptYesNo(input, c.stdout, fmt.Sprintf("Add %s MCP server to %s? [Y/n]", mcpServerName, d.def.displayName)) {
			fmt.Fprintln(c.stdout, "  skipped")
			continue
		}

		var err error
		if d.def.binary != "" {
			err = c.configureCLIAgent(d.def, scope)
		} else {
			err = configureFileAgent(d)
		}
		if err != nil {
			fmt.Fprintf(c.stdout, "  ! %s: failed: %v\n", d.def.displayName, err)
			failed++
			continue
		}
		fmt.Fprintf(c.stdout, "  + %s configured\n", d.def.displayName)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// promptYesNo prints question and reads one answer line. Empty input and
// EOF mean yes.
func promptYesNo(input *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	if !input.Scan() {
		return true
	}
	answer := strings.TrimSpace(strings.ToLower(input.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}
