package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LogFilename is the journal file name within the log directory.
const LogFilename = "xplat-audit.jsonl"

// Writer appends events to the journal. It is append-only and
// fail-fast: a write error aborts the operation that triggered it.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	writer     *bufio.Writer
	logPath    string
	currentRun *RunID
}

// NewWriter opens (creating if necessary) the journal under logDir.
// A brand-new journal starts with a LOG_INITIALIZED event.
func NewWriter(logDir string) (*Writer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	logPath := filepath.Join(logDir, LogFilename)

	isNewLog := false
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		isNewLog = true
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	w := &Writer{
		file:    file,
		writer:  bufio.NewWriter(file),
		logPath: logPath,
	}

	if isNewLog {
		event := Event{
			Timestamp: time.Now().UTC(),
			EventType: EventLogInitialized,
			Status:    StatusSuccess,
		}
		if err := w.writeEventLocked(event); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
	}

	return w, nil
}

// LogPath returns the path of the journal file.
func (w *Writer) LogPath() string {
	return w.logPath
}

// StartRun writes a RUN_START event and makes the new run current.
func (w *Writer) StartRun(runType RunType, style string) (RunID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	runID := RunID(uuid.NewString())

	event := Event{
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		EventType: EventRunStart,
		Status:    StatusSuccess,
		Style:     style,
		Metadata:  map[string]string{"runType": string(runType)},
	}
	if err := w.writeEventLocked(event); err != nil {
		return "", fmt.Errorf("failed to write RUN_START event: %w", err)
	}

	w.currentRun = &runID
	return runID, nil
}

// EndRun writes a RUN_END event carrying the run summary.
func (w *Writer) EndRun(summary RunSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return fmt.Errorf("no run in progress")
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	event := Event{
		Timestamp: time.Now().UTC(),
		RunID:     *w.currentRun,
		EventType: EventRunEnd,
		Status:    StatusSuccess,
		Metadata:  map[string]string{"summary": string(summaryJSON)},
	}
	if err := w.writeEventLocked(event); err != nil {
		return fmt.Errorf("failed to write RUN_END event: %w", err)
	}

	w.currentRun = nil
	return nil
}

// RecordRename journals a successful rename from source to destination.
func (w *Writer) RecordRename(sourcePath, destinationPath string) error {
	return w.recordOperation(Event{
		EventType:       EventRename,
		Status:          StatusSuccess,
		SourcePath:      sourcePath,
		DestinationPath: destinationPath,
	})
}

// RecordSkip journals a file that was passed over.
func (w *Writer) RecordSkip(path string, reason ReasonCode) error {
	return w.recordOperation(Event{
		EventType:  EventSkip,
		Status:     StatusSkipped,
		SourcePath: path,
		ReasonCode: reason,
	})
}

// RecordError journals a failed rename attempt.
func (w *Writer) RecordError(path string, opErr error) error {
	return w.recordOperation(Event{
		EventType:  EventError,
		Status:     StatusFailure,
		SourcePath: path,
		ErrorDetails: &ErrorDetails{
			ErrorType:    fmt.Sprintf("%T", opErr),
			ErrorMessage: opErr.Error(),
		},
	})
}

// RecordUndoRename journals a reversed rename.
func (w *Writer) RecordUndoRename(sourcePath, destinationPath string) error {
	return w.recordOperation(Event{
		EventType:       EventUndoRename,
		Status:          StatusSuccess,
		SourcePath:      sourcePath,
		DestinationPath: destinationPath,
	})
}

// RecordUndoSkip journals a rename that could not be reversed.
func (w *Writer) RecordUndoSkip(path string, reason ReasonCode) error {
	return w.recordOperation(Event{
		EventType:  EventUndoSkip,
		Status:     StatusSkipped,
		SourcePath: path,
		ReasonCode: reason,
	})
}

func (w *Writer) recordOperation(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.currentRun == nil {
		return fmt.Errorf("no run in progress")
	}

	event.Timestamp = time.Now().UTC()
	event.RunID = *w.currentRun
	return w.writeEventLocked(event)
}

// writeEventLocked appends one event line and flushes. Callers hold w.mu
// (or, during NewWriter, have exclusive access).
func (w *Writer) writeEventLocked(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return w.writer.Flush()
}

// Close flushes and closes the journal file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
