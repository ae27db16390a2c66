package watcher

import (
	"errors"
	"os"
	"time"
)

var (
	// ErrFileNotFound means the file disappeared before it stabilized.
	ErrFileNotFound = errors.New("file not found")
	// ErrFileUnstable means the file kept changing past the timeout.
	ErrFileUnstable = errors.New("file size did not stabilize")
)

// StabilityChecker waits for a file's size to stop changing before it is
// touched. Downloads and copies grow in place; renaming mid-write leaves
// the writer appending to the old path.
type StabilityChecker struct {
	threshold time.Duration // How long the size must hold steady
	interval  time.Duration // Polling interval
	timeout   time.Duration // Give up after this long
}

// NewStabilityChecker creates a checker that requires the file size to
// hold for the given threshold.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &StabilityChecker{
		threshold: threshold,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// WaitForStable blocks until the file's size has been unchanged for the
// threshold duration. Returns ErrFileNotFound if the file vanishes, or
// ErrFileUnstable if it never settles within the timeout.
func (s *StabilityChecker) WaitForStable(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return ErrFileNotFound
	}
	lastSize := info.Size()
	stableSince := time.Now()
	deadline := time.Now().Add(s.timeout)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		info, err := os.Lstat(path)
		if err != nil {
			return ErrFileNotFound
		}

		if info.Size() != lastSize {
			lastSize = info.Size()
			stableSince = time.Now()
		} else if time.Since(stableSince) >= s.threshold {
			return nil
		}

		if time.Now().After(deadline) {
			return ErrFileUnstable
		}
	}
	return nil
}
