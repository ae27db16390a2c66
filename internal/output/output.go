// Package output handles CLI output formatting, including verbose mode
// and a TTY-only progress line for batch runs.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// DefaultConfig returns a Config with TTY detection on stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Output writes formatted CLI output.
type Output struct {
	config Config

	mu             sync.Mutex
	progressActive bool
	progressTotal  int
}

// New creates an Output with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// Info prints a message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprintf(o.config.Writer, ensureNewline(format), args...)
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.Info(format, args...)
}

// Error prints an error message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.clearProgressLine()
	fmt.Fprintf(o.config.ErrWriter, ensureNewline(format), args...)
}

// Rename reports one performed (or planned) rename. In verbose mode the
// full paths are shown; otherwise just the base names.
func (o *Output) Rename(from, to string, dryRun bool) {
	arrow := "->"
	if dryRun {
		arrow = "would ->"
	}
	if o.config.Verbose {
		o.Info("%s %s %s", from, arrow, to)
		return
	}
	o.Info("%s %s %s", filepath.Base(from), arrow, filepath.Base(to))
}

// StartProgress begins a progress line. Progress is suppressed when the
// output is not a terminal or verbose mode is on, since both cases want
// line-oriented output.
func (o *Output) StartProgress(total int) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progressActive = true
	o.progressTotal = total
}

// UpdateProgress rewrites the progress line in place.
func (o *Output) UpdateProgress(current int) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progressActive {
		return
	}
	fmt.Fprintf(o.config.Writer, "\rSanitizing %d/%d...", current, o.progressTotal)
}

// EndProgress clears the progress line.
func (o *Output) EndProgress() {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progressActive {
		return
	}
	o.progressActive = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && !o.config.Verbose
}

func (o *Output) clearProgressLine() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.progressActive && o.config.IsTTY {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

func ensureNewline(format string) string {
	if strings.HasSuffix(format, "\n") {
		return format
	}
	return format + "\n"
}
