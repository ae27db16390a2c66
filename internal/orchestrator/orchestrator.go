// Package orchestrator coordinates the sanitizing workflow across the
// configured source directories.
package orchestrator

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"xplat/internal/audit"
	"xplat/internal/config"
	"xplat/internal/namestyle"
	"xplat/internal/renamer"
	"xplat/internal/scanner"
)

// RunOptions configures a batch run.
type RunOptions struct {
	DryRun bool
}

// Orchestrator wraps a configuration and an optional journal writer.
// Watch mode calls HandleFile from concurrent timer goroutines, so the
// journal state is guarded.
type Orchestrator struct {
	cfg   *config.Configuration
	style namestyle.Style

	mu          sync.Mutex // guards writer and journalErrs
	writer      *audit.Writer
	journalErrs []error
}

// New creates an Orchestrator for the given configuration.
func New(cfg *config.Configuration) *Orchestrator {
	return &Orchestrator{
		cfg:   cfg,
		style: cfg.ParsedStyle(),
	}
}

// NewFromPath creates an Orchestrator by loading configuration from a file.
func NewFromPath(configPath string) (*Orchestrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg), nil
}

// Run scans every configured source directory and sanitizes each file
// that needs it. Scan failures are collected per directory and the run
// continues with the remaining directories. Unless DryRun is set and
// journaling is enabled, the whole run is recorded in the journal.
func (o *Orchestrator) Run(opts RunOptions) (*Summary, error) {
	start := time.Now()

	journaling := !opts.DryRun && o.cfg.Audit != nil && o.cfg.Audit.Enabled
	if journaling {
		if err := o.startSession(audit.RunTypeRename); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		Results:    make([]Result, 0),
		ScanErrors: make([]error, 0),
	}

	for _, sourceDir := range o.cfg.SourceDirectories {
		files, err := scanner.Scan(sourceDir)
		if err != nil {
			summary.ScanErrors = append(summary.ScanErrors, fmt.Errorf("failed to scan %s: %w", sourceDir, err))
			continue
		}

		for _, file := range files {
			result := o.processFile(file, opts.DryRun)
			summary.Results = append(summary.Results, result)
		}
	}

	summary.tally()
	summary.Duration = time.Since(start)

	if journaling {
		if err := o.endSession(summary); err != nil {
			return nil, err
		}
	}
	summary.JournalErrors = o.drainJournalErrs()

	return summary, nil
}

// processFile sanitizes a single scanned file, journaling the outcome
// when a session is open.
func (o *Orchestrator) processFile(file scanner.FileEntry, dryRun bool) Result {
	if !scanner.NeedsRename(file, o.style) {
		o.record(func(w *audit.Writer) error {
			return w.RecordSkip(file.FullPath, audit.ReasonAlreadyClean)
		})
		return Result{SourcePath: file.FullPath, Status: StatusSkipped}
	}

	newPath, err := renamer.Rename(file.FullPath, o.cfg.TargetDirectory, renamer.Options{
		Style:  o.style,
		DryRun: dryRun,
	})
	if err != nil {
		o.record(func(w *audit.Writer) error {
			return w.RecordError(file.FullPath, err)
		})
		return Result{SourcePath: file.FullPath, Status: StatusFailed, Err: err}
	}

	o.record(func(w *audit.Writer) error {
		return w.RecordRename(file.FullPath, newPath)
	})
	return Result{SourcePath: file.FullPath, DestinationPath: newPath, Status: StatusRenamed}
}

// HandleFile sanitizes a single file outside the batch scan, for watch
// mode. Already-clean names are reported as skipped, not errors.
func (o *Orchestrator) HandleFile(path string) (Result, error) {
	entry := scanner.FileEntry{Name: filepath.Base(path), FullPath: path}
	result := o.processFile(entry, false)
	return result, result.Err
}

// StartSession opens the journal and begins a rename run. Watch mode
// uses one session for the whole watch. Callers that use Run do not call
// this; Run manages its own session.
func (o *Orchestrator) StartSession() error {
	if o.cfg.Audit == nil || !o.cfg.Audit.Enabled {
		return nil
	}
	return o.startSession(audit.RunTypeRename)
}

// EndSession closes the current journal run with the given summary.
// With no session open it is a no-op.
func (o *Orchestrator) EndSession(summary *Summary) error {
	err := o.endSession(summary)
	summary.JournalErrors = o.drainJournalErrs()
	return err
}

func (o *Orchestrator) drainJournalErrs() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	errs := o.journalErrs
	o.journalErrs = nil
	return errs
}

func (o *Orchestrator) startSession(runType audit.RunType) error {
	writer, err := audit.NewWriter(o.cfg.Audit.LogDirectory)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	if _, err := writer.StartRun(runType, string(o.style)); err != nil {
		writer.Close()
		return err
	}
	o.mu.Lock()
	o.writer = writer
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) endSession(summary *Summary) error {
	o.mu.Lock()
	writer := o.writer
	o.writer = nil
	o.mu.Unlock()
	if writer == nil {
		return nil
	}
	defer writer.Close()
	return writer.EndRun(audit.RunSummary{
		TotalFiles: summary.TotalFiles,
		Renamed:    summary.Renamed,
		Skipped:    summary.Skipped,
		Errors:     summary.Errors,
	})
}

// record applies fn to the journal writer when a session is open.
// The file operation has already happened by the time it is journaled,
// so a failed journal write must not fail the file's result; it is
// counted and reported at the end of the run instead. The lock is held
// across fn so a concurrent EndSession cannot close the writer mid-write.
func (o *Orchestrator) record(fn func(*audit.Writer) error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.writer == nil {
		return
	}
	if err := fn(o.writer); err != nil {
		o.journalErrs = append(o.journalErrs, err)
	}
}
