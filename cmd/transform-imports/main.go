package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

const version = "0.1.0-dev"

func main() {
	_ = godotenv.Load()

	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(c.run(os.Args[1:]))
}

// cli holds the process I/O so commands can be exercised in tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// run dispatches a command and returns the process exit code.
func (c *cli) run(args []string) int {
	if len(args) < 1 {
		c.printUsage(c.stderr)
		return 2
	}

	command, rest := args[0], args[1:]
	switch command {
	case "run":
		return c.runBatch(rest, false)
	case "check":
		return c.runBatch(rest, true)
	case "watch":
		return c.runWatch(rest)
	case "serve":
		return c.runServe(rest)
	case "setup":
		return c.runSetup(rest)
	case "version", "--version":
		fmt.Fprintf(c.stdout, "transform-imports %s\n", version)
		return 0
	case "help", "-h", "--help":
		c.printUsage(c.stdout)
		return 0
	default:
		fmt.Fprintf(c.stderr, "unknown command: %s\n", command)
		c.printUsage(c.stderr)
		return 2
	}
}

func (c *cli) printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: transform-imports <command> [flags] [path]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run        Rewrite imports of a file or directory (prints a file, --write or --out to persist)")
	fmt.Fprintln(w, "  check      Exit 1 when any file would be rewritten or imports a whole module")
	fmt.Fprintln(w, "  watch      Rewrite files as they change")
	fmt.Fprintln(w, "  serve      Start MCP server on stdio")
	fmt.Fprintln(w, "  setup      Register the MCP server with detected AI agents")
	fmt.Fprintln(w, "  version    Print version")
	fmt.Fprintln(w, "  help       Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration is read from --config, then "+defaultProjectFile+".")
	fmt.Fprintln(w, "Run '<command> -h' for command flags.")
}
