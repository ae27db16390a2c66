// Package main provides the xplat command line interface.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"xplat/internal/audit"
	"xplat/internal/config"
	"xplat/internal/namestyle"
	"xplat/internal/orchestrator"
	"xplat/internal/output"
	"xplat/internal/renamer"
	"xplat/internal/watcher"
)

const usage = `Usage:
  xplat [-style STYLE] [-target DIR] [-dry-run] [-verbose] FILE...
      Sanitize the named files.

  xplat run -config FILE [-dry-run] [-verbose]
      Sanitize every file in the configured source directories.

  xplat preview -config FILE
      Show what a run would do without touching anything.

  xplat watch -config FILE [-verbose]
      Watch the configured directories and sanitize files as they arrive.

  xplat undo [-config FILE]
      Reverse the renames of the last completed run.

Styles: web (default), snake, kebab, camel.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "run":
			return cmdRun(args[1:])
		case "preview":
			return cmdPreview(args[1:])
		case "watch":
			return cmdWatch(args[1:])
		case "undo":
			return cmdUndo(args[1:])
		case "-h", "-help", "--help", "help":
			fmt.Print(usage)
			return 0
		}
	}
	return cmdRename(args)
}

// cmdRename is the default mode: sanitize the files named on the
// command line.
func cmdRename(args []string) int {
	fs := flag.NewFlagSet("xplat", flag.ExitOnError)
	styleFlag := fs.String("style", string(namestyle.DefaultStyle), "naming style (web, snake, kebab, camel)")
	target := fs.String("target", "", "move renamed files into this directory")
	dryRun := fs.Bool("dry-run", false, "show what would happen without renaming")
	verbose := fs.Bool("verbose", false, "show full paths")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	fs.Parse(args)

	out := newOutput(*verbose)

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	style, err := namestyle.ParseStyle(*styleFlag)
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	exitCode := 0
	for _, file := range files {
		newPath, err := renamer.Rename(file, *target, renamer.Options{
			Style:  style,
			DryRun: *dryRun,
		})
		if err != nil {
			out.Error("Error: %s: %v", file, err)
			exitCode = 1
			continue
		}
		out.Rename(file, newPath, *dryRun)
	}
	return exitCode
}

// cmdRun sanitizes every file in the configured source directories.
func cmdRun(args []string) int {
	fs := flag.NewFlagSet("xplat run", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file (JSON or YAML)")
	dryRun := fs.Bool("dry-run", false, "show what would happen without renaming")
	verbose := fs.Bool("verbose", false, "show full paths and skipped files")
	fs.Parse(args)

	out := newOutput(*verbose)

	orch, ok := loadOrchestrator(*configPath, out)
	if !ok {
		return 1
	}

	summary, err := orch.Run(orchestrator.RunOptions{DryRun: *dryRun})
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	reportSummary(out, summary, *dryRun)
	if summary.HasErrors() {
		return 1
	}
	return 0
}

// cmdPreview prints the plan a run would execute.
func cmdPreview(args []string) int {
	fs := flag.NewFlagSet("xplat preview", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file (JSON or YAML)")
	verbose := fs.Bool("verbose", false, "show full paths")
	fs.Parse(args)

	out := newOutput(*verbose)

	orch, ok := loadOrchestrator(*configPath, out)
	if !ok {
		return 1
	}

	result, err := orch.Preview()
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	for dir, preview := range result.BySource {
		out.Info("%s:", dir)
		for _, plan := range preview.Renames {
			out.Rename(plan.From, plan.To, true)
		}
		if preview.AlreadyClean > 0 {
			out.Info("  %d already clean", preview.AlreadyClean)
		}
		for _, name := range preview.Unrenamable {
			out.Error("  cannot sanitize %q: name has no usable characters", name)
		}
	}
	out.Info("%d renames planned", result.GrandTotal)
	return 0
}

// cmdWatch watches the configured directories until interrupted.
func cmdWatch(args []string) int {
	fs := flag.NewFlagSet("xplat watch", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file (JSON or YAML)")
	verbose := fs.Bool("verbose", false, "show full paths and skipped files")
	fs.Parse(args)

	out := newOutput(*verbose)

	if *configPath == "" {
		out.Error("Error: watch requires -config")
		return 1
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	orch := orchestrator.New(cfg)
	if err := orch.StartSession(); err != nil {
		out.Error("Error: %v", err)
		return 1
	}

	w := watcher.New(&watcher.Config{
		DebounceSeconds:   cfg.Watch.DebounceSeconds,
		StableThresholdMs: cfg.Watch.StableThresholdMs,
		IgnorePatterns:    cfg.Watch.IgnorePatterns,
	}, func(path string) (bool, error) {
		result, err := orch.HandleFile(path)
		if err != nil {
			out.Error("Error: %s: %v", path, err)
			return false, err
		}
		if result.Status == orchestrator.StatusRenamed {
			out.Rename(result.SourcePath, result.DestinationPath, false)
			return true, nil
		}
		out.Verbose("%s already clean", path)
		return false, nil
	})

	if err := w.Start(cfg.SourceDirectories); err != nil {
		out.Error("Error: %v", err)
		// The journal session is already open; end it so the run is not
		// left dangling without a RUN_END.
		if endErr := orch.EndSession(&orchestrator.Summary{}); endErr != nil {
			out.Error("Error: %v", endErr)
		}
		return 1
	}
	out.Info("Watching %d directories (Ctrl-C to stop)", len(cfg.SourceDirectories))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	watchSummary := w.Stop()

	summary := &orchestrator.Summary{
		TotalFiles: watchSummary.FilesRenamed + watchSummary.FilesSkipped + watchSummary.Errors,
		Renamed:    watchSummary.FilesRenamed,
		Skipped:    watchSummary.FilesSkipped,
		Errors:     watchSummary.Errors,
		Duration:   watchSummary.Duration,
	}
	if err := orch.EndSession(summary); err != nil {
		out.Error("Error: %v", err)
	}
	for _, jerr := range summary.JournalErrors {
		out.Error("Warning: journal write failed: %v", jerr)
	}

	out.Info("%s", summary)
	if watchSummary.Errors > 0 {
		return 1
	}
	return 0
}

// cmdUndo reverses the renames of the last completed run.
func cmdUndo(args []string) int {
	fs := flag.NewFlagSet("xplat undo", flag.ExitOnError)
	configPath := fs.String("config", "", "configuration file (JSON or YAML)")
	fs.Parse(args)

	out := newOutput(false)

	logDir := config.DefaultAuditSettings().LogDirectory
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			out.Error("Error: %v", err)
			return 1
		}
		if cfg.Audit != nil && cfg.Audit.LogDirectory != "" {
			logDir = cfg.Audit.LogDirectory
		}
	}

	summary, err := audit.Undo(logDir)
	if err != nil {
		if errors.Is(err, audit.ErrNoCompletedRun) {
			out.Error("Error: no completed run to undo")
		} else {
			out.Error("Error: %v", err)
		}
		return 1
	}

	out.Info("Undid run %s: %d reversed, %d skipped", summary.RunID, summary.Reversed, summary.Skipped)
	return 0
}

func newOutput(verbose bool) *output.Output {
	cfg := output.DefaultConfig()
	cfg.Verbose = verbose
	return output.New(cfg)
}

func loadOrchestrator(configPath string, out *output.Output) (*orchestrator.Orchestrator, bool) {
	if configPath == "" {
		out.Error("Error: -config is required")
		return nil, false
	}
	orch, err := orchestrator.NewFromPath(configPath)
	if err != nil {
		out.Error("Error: %v", err)
		return nil, false
	}
	return orch, true
}

// reportSummary prints the outcome of a batch run.
func reportSummary(out *output.Output, summary *orchestrator.Summary, dryRun bool) {
	for _, result := range summary.Results {
		switch result.Status {
		case orchestrator.StatusRenamed:
			out.Rename(result.SourcePath, result.DestinationPath, dryRun)
		case orchestrator.StatusSkipped:
			out.Verbose("%s already clean", result.SourcePath)
		}
	}
	for _, scanErr := range summary.ScanErrors {
		out.Error("Warning: %v", scanErr)
	}
	for _, failure := range summary.Failures() {
		out.Error("Error: %s: %v", failure.SourcePath, failure.Err)
	}
	for _, jerr := range summary.JournalErrors {
		out.Error("Warning: journal write failed: %v", jerr)
	}
	out.Info("%s", summary)
}
