package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/pxldyrk/getcontext/config"
	"github.com/pxldyrk/getcontext/walk"
)

const version = "1.2.0"

// options is the merged CLI/config view of one invocation.
type options struct {
	rootDir      string
	output       string
	autoName     bool
	excludes     []string
	useGitignore bool
	workers      int
	maxFileSize  int64
	tui          bool
	verbose      bool
	logLevel     string
	logFile      string
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: getcontext [options] <directory>\n\n")
		fmt.Fprintf(os.Stderr, "Recursively collects readable files under the directory, honoring\n")
		fmt.Fprintf(os.Stderr, ".contextignore rules, and combines them into a single context file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  getcontext .                  # print the context artifact to stdout\n")
		fmt.Fprintf(os.Stderr, "  getcontext -o ctx.txt ./src   # write the artifact to ctx.txt\n")
		fmt.Fprintf(os.Stderr, "  getcontext --tui ./src        # pick files interactively\n")
	}

	output := pflag.StringP("output", "o", "", "Write the artifact to this file instead of stdout")
	autoName := pflag.Bool("auto-name", false, "Write to <dir>_context_<timestamp>.txt in the working directory")
	excludes := pflag.StringArrayP("exclude", "e", nil, "Extra ignore pattern (repeatable)")
	useGitignore := pflag.Bool("gitignore", false, "Additionally apply .gitignore rules from the scan root")
	workers := pflag.Int("workers", 0, "Extraction worker count (default 8)")
	maxFileSize := pflag.Int64("max-file-size", walk.DefaultMaxFileSize, "Maximum file size in bytes (default: 1MB)")
	tuiMode := pflag.BoolP("tui", "t", false, "Interactive file selection")
	verbose := pflag.BoolP("verbose", "v", false, "Log per-file diagnostics")
	logLevel := pflag.String("log-level", "info", "Log level: debug|info|warn|error")
	logFile := pflag.String("log-file", "", "Log file path (default: stderr, or getcontext.log in TUI mode)")
	showVersion := pflag.BoolP("version", "V", false, "Print version information")
	pflag.Parse()

	if *showVersion {
		fmt.Printf("getcontext version %s\n", version)
		return
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}

	rootDir := pflag.Arg(0)
	info, err := os.Stat(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: directory %q does not exist.\n", rootDir)
		os.Exit(1)
	}
	if !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %q is not a directory.\n", rootDir)
		os.Exit(1)
	}
	rootDir, _ = filepath.Abs(rootDir)

	opts := options{
		rootDir:      rootDir,
		output:       *output,
		autoName:     *autoName,
		excludes:     *excludes,
		useGitignore: *useGitignore,
		workers:      *workers,
		maxFileSize:  *maxFileSize,
		tui:          *tuiMode,
		verbose:      *verbose,
		logLevel:     *logLevel,
		logFile:      *logFile,
	}
	applyConfig(&opts)

	logger := setupLogger(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var code int
	if opts.tui {
		code = runTUI(ctx, opts, logger)
	} else {
		code = runScan(ctx, opts, logger)
	}
	os.Exit(code)
}

// applyConfig fills option fields the user did not set from the root's
// settings file. Flags always win over config.
func applyConfig(opts *options) {
	cfg, err := config.Load(opts.rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring %s: %v\n", config.FileName, err)
		return
	}

	opts.excludes = append(opts.excludes, cfg.Exclude...)
	if !pflag.Lookup("gitignore").Changed && cfg.UseGitignore {
		opts.useGitignore = true
	}
	if !pflag.Lookup("workers").Changed && cfg.Workers > 0 {
		opts.workers = cfg.Workers
	}
	if !pflag.Lookup("max-file-size").Changed && cfg.MaxFileSize > 0 {
		opts.maxFileSize = cfg.MaxFileSize
	}
	if !pflag.Lookup("output").Changed && cfg.Output != "" {
		opts.output = cfg.Output
	}
}

// setupLogger creates an slog.Logger. Stdout is reserved for the artifact,
// so logs go to stderr or a file; TUI mode defaults to a file because
// stderr is occupied by the terminal UI.
func setupLogger(opts options) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(opts.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if opts.verbose {
		level = slog.LevelDebug
	}

	logFile := opts.logFile
	if logFile == "" && opts.tui {
		logFile = filepath.Join(opts.rootDir, "getcontext.log")
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	return slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))
}
