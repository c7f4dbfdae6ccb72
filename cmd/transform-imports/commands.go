package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gnana997/transform-imports/pkg/config"
	mcpserver "github.com/gnana997/transform-imports/pkg/mcp"
	"github.com/gnana997/transform-imports/pkg/mcplog"
	"github.com/gnana997/transform-imports/pkg/parser"
	"github.com/gnana997/transform-imports/pkg/rewrite"
	"github.com/gnana997/transform-imports/pkg/runner"
	"github.com/gnana997/transform-imports/pkg/transform"
	"github.com/gnana997/transform-imports/pkg/util"
)

// commonOptions holds the flags shared by every command.
type commonOptions struct {
	configPath  string
	projectPath string
	logLevel    string
	logFormat   string
	workers     int
}

func (o *commonOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", getEnvOrDefault(envConfig, ""),
		"Import table file (.json, .yaml or .yml)")
	fs.StringVar(&o.projectPath, "project", defaultProjectFile, "Project file")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.logFormat, "log-format", "", "Log format (text, json)")
	fs.IntVar(&o.workers, "workers", getEnvInt(envWorkers, 0), "Worker and parser pool size (0 = auto)")
}

// session is everything a command needs once flags are parsed.
type session struct {
	project *ProjectConfig
	table   config.Table
	logger  *slog.Logger
	parser  *parser.Manager
	workers int
}

func (c *cli) open(opts commonOptions) (*session, error) {
	project, err := loadProjectConfig(opts.projectPath)
	if err != nil {
		return nil, err
	}

	logCfg := loggerConfig(project, opts.logLevel, opts.logFormat)
	logCfg.Output = c.stderr
	logger := util.NewLogger(logCfg)

	table, source, err := resolveTable(opts.configPath, project)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		logger.Warn("no import configuration found; nothing will be rewritten")
	} else {
		logger.Debug("loaded import configuration",
			"source", source,
			"packages", table.Sources())
	}

	workers := util.GetOptimalPoolSizeWithOverride(opts.workers)
	return &session{
		project: project,
		table:   table,
		logger:  logger,
		parser:  parser.NewManager(logger, workers),
		workers: workers,
	}, nil
}

func (s *session) Close() {
	s.parser.Close()
}

func (s *session) transformer() *transform.Transformer {
	return transform.NewTransformer(s.parser, rewrite.NewEngine(s.table, s.logger), s.logger)
}

func (s *session) newRunner(write bool, outDir string) (*runner.Runner, error) {
	opts := runnerOptions(s.project)
	opts.Write = write
	opts.OutDir = outDir
	opts.Workers = s.workers
	return runner.New(s.transformer(), opts, s.logger)
}

// parseFlags parses args and returns the single optional path argument.
func (c *cli) parseFlags(fs *flag.FlagSet, args []string) (string, bool) {
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	switch fs.NArg() {
	case 0:
		return ".", true
	case 1:
		return fs.Arg(0), true
	default:
		fmt.Fprintf(c.stderr, "%s: expected at most one path, got %d\n", fs.Name(), fs.NArg())
		return "", false
	}
}

// runBatch implements `run` and `check`.
func (c *cli) runBatch(args []string, check bool) int {
	name := "run"
	if check {
		name = "check"
	}

	var (
		opts   commonOptions
		write  bool
		outDir string
	)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	opts.register(fs)
	if !check {
		fs.BoolVar(&write, "write", false, "Rewrite files in place")
		fs.StringVar(&outDir, "out", "", "Write every processed file under this directory")
	}

	target, ok := c.parseFlags(fs, args)
	if !ok {
		return 2
	}

	s, err := c.open(opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}
	defer s.Close()

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}

	if !info.IsDir() {
		return c.runFile(s, target, check, write, outDir)
	}

	r, err := s.newRunner(write, outDir)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := r.Run(ctx, target)
	if stats != nil {
		c.report(stats, check || (!write && outDir == ""))
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}

	if stats.FilesFailed > 0 || (check && len(stats.FilesChanged) > 0) {
		return 1
	}
	return 0
}

// runFile handles a single file target. Without --write or --out the
// transformed code goes to stdout.
func (c *cli) runFile(s *session, path string, check, write bool, outDir string) int {
	r, err := s.newRunner(write, outDir)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}

	result, err := r.ProcessFile(filepath.Dir(path), path)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}

	switch {
	case check:
		if result.Result.Changed {
			fmt.Fprintf(c.stdout, "would rewrite %s\n", path)
			return 1
		}
	case result.Output != "":
		fmt.Fprintf(c.stdout, "wrote %s\n", result.Output)
	case !write && outDir == "":
		_, _ = c.stdout.Write(result.Result.Code)
	}
	return 0
}

// report prints per-file outcomes to stdout and failures to stderr.
func (c *cli) report(stats *runner.RunStats, dryRun bool) {
	for _, path := range stats.FilesChanged {
		if dryRun {
			fmt.Fprintf(c.stdout, "would rewrite %s\n", path)
		} else {
			fmt.Fprintf(c.stdout, "rewrote %s\n", path)
		}
	}
	for _, fileErr := range stats.Errors {
		fmt.Fprintf(c.stderr, "error: %v\n", fileErr)
	}
	fmt.Fprintf(c.stderr, "%d files checked, %d to rewrite, %d failed (%dms)\n",
		stats.FilesDiscovered, len(stats.FilesChanged), stats.FilesFailed, stats.DurationMs)
}

func (c *cli) runWatch(args []string) int {
	var (
		opts     commonOptions
		write    bool
		outDir   string
		debounce time.Duration
	)
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	opts.register(fs)
	fs.BoolVar(&write, "write", true, "Rewrite files in place")
	fs.StringVar(&outDir, "out", "", "Write processed files under this directory instead")
	fs.DurationVar(&debounce, "debounce", runner.DefaultWatchOptions().Debounce, "Delay before re-processing a changed file")

	root, ok := c.parseFlags(fs, args)
	if !ok {
		return 2
	}

	s, err := c.open(opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}
	defer s.Close()

	r, err := s.newRunner(write, outDir)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := r.Run(ctx, root)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}
	c.report(stats, !write && outDir == "")

	w, err := runner.NewWatcher(r, root, runner.WatchOptions{
		Debounce: debounce,
		OnResult: func(result *runner.FileResult, err error) {
			if err != nil {
				fmt.Fprintf(c.stderr, "error: %v\n", err)
				return
			}
			if result.Result.Changed && result.Output != "" {
				fmt.Fprintf(c.stdout, "rewrote %s\n", result.FilePath)
			}
		},
	}, s.logger)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}

	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) runServe(args []string) int {
	var (
		opts    commonOptions
		callLog string
	)
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	opts.register(fs)
	fs.StringVar(&callLog, "call-log", "", "Append a JSONL record of every tool call to this file")

	if _, ok := c.parseFlags(fs, args); !ok {
		return 2
	}

	s, err := c.open(opts)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}
	defer s.Close()

	logFile, err := mcplog.NewLogger(callLog)
	if err != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return 2
	}
	if logFile != nil {
		defer logFile.Close()
	}

	srv := mcpserver.NewServer(s.parser, s.table, logFile, s.logger, version)
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(c.stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}
