package orchestrator

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// ResultStatus classifies the outcome for one file.
type ResultStatus string

const (
	StatusRenamed ResultStatus = "RENAMED"
	StatusSkipped ResultStatus = "SKIPPED"
	StatusFailed  ResultStatus = "FAILED"
)

// Result represents the outcome of sanitizing a single file.
type Result struct {
	SourcePath      string
	DestinationPath string // empty for skips and failures
	Status          ResultStatus
	Err             error
}

// Summary represents the overall results of a run.
type Summary struct {
	TotalFiles    int
	Renamed       int
	Skipped       int
	Errors        int
	Duration      time.Duration
	Results       []Result
	ScanErrors    []error
	JournalErrors []error
}

// tally recomputes the counters from Results.
func (s *Summary) tally() {
	s.TotalFiles = len(s.Results)
	byStatus := lo.CountValuesBy(s.Results, func(r Result) ResultStatus { return r.Status })
	s.Renamed = byStatus[StatusRenamed]
	s.Skipped = byStatus[StatusSkipped]
	s.Errors = byStatus[StatusFailed]
}

// Failures returns the failed results.
func (s *Summary) Failures() []Result {
	return lo.Filter(s.Results, func(r Result, _ int) bool {
		return r.Status == StatusFailed
	})
}

// HasErrors returns true if anything went wrong during the run.
func (s *Summary) HasErrors() bool {
	return s.Errors > 0 || len(s.ScanErrors) > 0 || len(s.JournalErrors) > 0
}

// String formats a one-line run summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Processed %d files: %d renamed, %d already clean, %d errors",
		s.TotalFiles, s.Renamed, s.Skipped, s.Errors)
}
