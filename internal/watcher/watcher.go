// Package watcher monitors directories and sanitizes filenames as files
// arrive.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains watcher settings.
type Config struct {
	DebounceSeconds   int      // Delay before processing (default: 2)
	StableThresholdMs int      // File size stability threshold in milliseconds (default: 1000)
	IgnorePatterns    []string // Glob patterns to ignore (e.g. "*.tmp", "*.part")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
		IgnorePatterns:    DefaultIgnorePatterns(),
	}
}

// Summary contains stats from a watch session.
type Summary struct {
	FilesRenamed int
	FilesSkipped int
	Errors       int
	Duration     time.Duration
}

// FileHandler processes one stable, non-ignored file. It reports whether
// the file was renamed (false means it was already clean) or an error.
type FileHandler func(path string) (renamed bool, err error)

// Watcher monitors directories for new files and routes them through
// debouncing and a size-stability wait before handing them to the
// handler. Without both, a file still being downloaded would be renamed
// out from under its writer.
type Watcher struct {
	config    *Config
	handler   FileHandler
	fsWatcher *fsnotify.Watcher
	filter    *Filter
	debouncer *Debouncer
	stability *StabilityChecker
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu           sync.Mutex
	filesRenamed int
	filesSkipped int
	errorCount   int
}

// New creates a Watcher. A nil config uses defaults. The handler is
// called for each file that survives filtering and stabilizes.
func New(config *Config, handler FileHandler) *Watcher {
	if config == nil {
		config = DefaultConfig()
	}
	w := &Watcher{
		config:    config,
		handler:   handler,
		filter:    NewFilter(config.IgnorePatterns),
		stability: NewStabilityChecker(time.Duration(config.StableThresholdMs) * time.Millisecond),
		done:      make(chan struct{}),
	}
	w.debouncer = NewDebouncer(time.Duration(config.DebounceSeconds)*time.Second, w.processFile)
	return w
}

// Start begins watching the given directories. The watcher runs until
// Stop is called.
func (w *Watcher) Start(dirs []string) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			w.fsWatcher.Close()
			return err
		}
		if err := w.fsWatcher.Add(absDir); err != nil {
			w.fsWatcher.Close()
			return err
		}
	}

	w.startTime = time.Now()
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts the watcher down and returns the session summary.
func (w *Watcher) Stop() *Summary {
	close(w.done)
	w.debouncer.CancelAll()
	w.wg.Wait()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return &Summary{
		FilesRenamed: w.filesRenamed,
		FilesSkipped: w.filesSkipped,
		Errors:       w.errorCount,
		Duration:     time.Since(w.startTime),
	}
}

// processEvents consumes fsnotify events until Stop.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// New files appear as Create; downloads that finish by being
			// moved into place appear as Rename on the final path.
			if event.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
				w.handleEvent(event.Name)
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.errorCount++
			w.mu.Unlock()
		}
	}
}

// handleEvent filters the path and schedules it for debounced processing.
func (w *Watcher) handleEvent(path string) {
	if w.filter.ShouldIgnore(path) {
		w.mu.Lock()
		w.filesSkipped++
		w.mu.Unlock()
		return
	}
	w.debouncer.Add(path)
}

// processFile runs after the debounce delay: wait for the file to
// stabilize, then hand it to the handler.
func (w *Watcher) processFile(path string) {
	select {
	case <-w.done:
		return
	default:
	}

	if err := w.stability.WaitForStable(path); err != nil {
		// Vanished or never settled; either way there is nothing to rename.
		w.mu.Lock()
		w.filesSkipped++
		w.mu.Unlock()
		return
	}

	if w.handler == nil {
		return
	}

	renamed, err := w.handler(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case err != nil:
		w.errorCount++
	case renamed:
		w.filesRenamed++
	default:
		w.filesSkipped++
	}
}

// Config returns the active watcher configuration.
func (w *Watcher) Config() *Config {
	return w.config
}
