package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/pxldyrk/getcontext/combine"
	"github.com/pxldyrk/getcontext/extract"
	"github.com/pxldyrk/getcontext/ignore"
	"github.com/pxldyrk/getcontext/tui"
	"github.com/pxldyrk/getcontext/walk"
)

// runScan performs the non-interactive scan-and-export flow and returns
// the process exit code.
func runScan(ctx context.Context, opts options, logger *slog.Logger) int {
	start := time.Now()

	rules := loadRules(opts, logger)

	fmt.Printf("Scanning directory: %s\n", opts.rootDir)
	if rules.Len() > 0 {
		fmt.Println("Found ignore rules, applying...")
	}

	scanner := walk.NewScanner(rules, logger)
	scanner.MaxFileSize = opts.maxFileSize
	files, stats, err := scanner.Scan(ctx, opts.rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info("scan complete",
		"files", len(files),
		"dirsVisited", stats.DirsVisited,
		"dirsPruned", stats.DirsPruned,
		"warnings", stats.Warnings,
		"duration", time.Since(start),
	)

	if len(files) == 0 {
		fmt.Println("No processable files found in the directory.")
		return 0
	}

	fmt.Printf("Found %d processable file(s):\n", len(files))
	printExtensionCounts(walk.ExtensionCounts(files))
	fmt.Println()

	artifact, err := extractAndCombine(ctx, opts, logger, files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return writeArtifact(opts, artifact, stats.Warnings)
}

// extractAndCombine runs the extraction pool over the eligible set and
// assembles the artifact.
func extractAndCombine(ctx context.Context, opts options, logger *slog.Logger, files []walk.File) (combine.Artifact, error) {
	batch := &extract.Batch{
		Registry: extract.NewRegistry(),
		Workers:  opts.workers,
		Logger:   logger,
	}
	contents, err := batch.ExtractAll(ctx, opts.rootDir, files)
	if err != nil {
		return combine.Artifact{}, err
	}

	artifact := combine.Combine(contents)
	logger.Info("export assembled",
		"files", artifact.FileCount,
		"failures", artifact.FailureCount,
		"lines", artifact.TotalLines,
	)
	return artifact, nil
}

// writeArtifact delivers the artifact to stdout or a file and prints the
// closing status line.
func writeArtifact(opts options, artifact combine.Artifact, scanWarnings int) int {
	destination := opts.output
	if opts.autoName {
		destination = autoOutputName(opts.rootDir)
	}

	if destination == "" {
		fmt.Print(artifact.Text)
	} else {
		if err := os.WriteFile(destination, []byte(artifact.Text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", destination, err)
			return 1
		}
		color.Green("Export successful: %s (%d files, %d lines)",
			destination, artifact.FileCount-artifact.FailureCount, artifact.TotalLines)
	}

	totalWarnings := scanWarnings + artifact.FailureCount
	if totalWarnings > 0 {
		color.Yellow("Warnings: %d file(s) could not be fully processed", totalWarnings)
	}
	return 0
}

// runTUI hands control to the interactive selector; the chosen files go
// through the same extract/combine pipeline on export.
func runTUI(ctx context.Context, opts options, logger *slog.Logger) int {
	rules := loadRules(opts, logger)

	exporter := func(selected []walk.File) (combine.Artifact, error) {
		return extractAndCombine(ctx, opts, logger, selected)
	}

	destination := opts.output
	if destination == "" || opts.autoName {
		destination = autoOutputName(opts.rootDir)
	}

	if err := tui.Run(ctx, tui.Options{
		RootDir:     opts.rootDir,
		Rules:       rules,
		Logger:      logger,
		MaxFileSize: opts.maxFileSize,
		Export:      exporter,
		Destination: destination,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadRules builds the ignore rule set for the root; a bad rules file
// degrades to whatever parsed, with a warning.
func loadRules(opts options, logger *slog.Logger) *ignore.RuleSet {
	rules, err := ignore.Load(ignore.LoadOptions{
		RootDir:       opts.rootDir,
		ExtraPatterns: opts.excludes,
		UseGitignore:  opts.useGitignore,
	})
	if err != nil {
		logger.Warn("ignore rules partially loaded", "error", err)
	}
	return rules
}

// autoOutputName mirrors the historical export naming:
// <dir>_context_<timestamp>.txt in the current working directory.
func autoOutputName(rootDir string) string {
	return fmt.Sprintf("%s_context_%s.txt", filepath.Base(rootDir), time.Now().Format("20060102_150405"))
}

func printExtensionCounts(counts map[string]int) {
	exts := make([]string, 0, len(counts))
	for ext := range counts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Printf("  %s: %d file(s)\n", ext, counts[ext])
	}
}
