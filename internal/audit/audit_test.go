package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMarshalOmitsEmptyFields(t *testing.T) {
	event := Event{
		Timestamp:  time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		RunID:      "run-1",
		EventType:  EventSkip,
		Status:     StatusSkipped,
		ReasonCode: ReasonAlreadyClean,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	raw := string(data)
	assert.Contains(t, raw, `"timestamp":"2026-08-24T10:00:00Z"`)
	assert.Contains(t, raw, `"reasonCode":"ALREADY_CLEAN"`)
	assert.NotContains(t, raw, "sourcePath")
	assert.NotContains(t, raw, "destinationPath")
	assert.NotContains(t, raw, "style")
	assert.NotContains(t, raw, "errorDetails")
}

func TestEventRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:       time.Date(2026, 8, 24, 11, 30, 0, 0, time.UTC),
		RunID:           "run-2",
		EventType:       EventRename,
		Status:          StatusSuccess,
		SourcePath:      "/in/My File.txt",
		DestinationPath: "/in/my-file.txt",
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestWriterJournalsRun(t *testing.T) {
	logDir := t.TempDir()

	writer, err := NewWriter(logDir)
	require.NoError(t, err)

	runID, err := writer.StartRun(RunTypeRename, "web")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	require.NoError(t, writer.RecordRename("/in/A File.txt", "/in/a-file.txt"))
	require.NoError(t, writer.RecordSkip("/in/clean.txt", ReasonAlreadyClean))
	require.NoError(t, writer.RecordError("/in/!!!.txt", os.ErrInvalid))
	require.NoError(t, writer.EndRun(RunSummary{TotalFiles: 3, Renamed: 1, Skipped: 1, Errors: 1}))
	require.NoError(t, writer.Close())

	events, err := NewReader(logDir).ReadAll()
	require.NoError(t, err)

	// LOG_INITIALIZED + RUN_START + RENAME + SKIP + ERROR + RUN_END
	require.Len(t, events, 6)
	assert.Equal(t, EventLogInitialized, events[0].EventType)
	assert.Equal(t, EventRunStart, events[1].EventType)
	assert.Equal(t, string(RunTypeRename), events[1].Metadata["runType"])
	assert.Equal(t, "web", events[1].Style)
	assert.Equal(t, EventRename, events[2].EventType)
	assert.Equal(t, "/in/a-file.txt", events[2].DestinationPath)
	assert.Equal(t, EventSkip, events[3].EventType)
	assert.Equal(t, ReasonAlreadyClean, events[3].ReasonCode)
	assert.Equal(t, EventError, events[4].EventType)
	require.NotNil(t, events[4].ErrorDetails)
	assert.Equal(t, EventRunEnd, events[5].EventType)

	// All run events share the run ID.
	for _, e := range events[1:] {
		assert.Equal(t, runID, e.RunID)
	}
}

func TestWriterRequiresRunInProgress(t *testing.T) {
	writer, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	defer writer.Close()

	assert.Error(t, writer.RecordRename("/a", "/b"))
	assert.Error(t, writer.EndRun(RunSummary{}))
}

func TestReaderSkipsCorruptLines(t *testing.T) {
	logDir := t.TempDir()
	writer, err := NewWriter(logDir)
	require.NoError(t, err)
	_, err = writer.StartRun(RunTypeRename, "web")
	require.NoError(t, err)
	require.NoError(t, writer.EndRun(RunSummary{}))
	require.NoError(t, writer.Close())

	// Simulate a crash mid-write.
	logPath := filepath.Join(logDir, LogFilename)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"timestamp":"2026-08-24T1`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := NewReader(logDir).ReadAll()
	require.NoError(t, err)
	assert.Len(t, events, 3) // corrupt tail dropped
}

func TestLastCompletedRenameRun(t *testing.T) {
	logDir := t.TempDir()
	writer, err := NewWriter(logDir)
	require.NoError(t, err)

	first, err := writer.StartRun(RunTypeRename, "web")
	require.NoError(t, err)
	require.NoError(t, writer.EndRun(RunSummary{}))

	second, err := writer.StartRun(RunTypeRename, "snake")
	require.NoError(t, err)
	require.NoError(t, writer.EndRun(RunSummary{}))

	// An undo run and an unfinished run must not be picked.
	_, err = writer.StartRun(RunTypeUndo, "")
	require.NoError(t, err)
	require.NoError(t, writer.EndRun(RunSummary{}))
	_, err = writer.StartRun(RunTypeRename, "web")
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	got, err := NewReader(logDir).LastCompletedRenameRun()
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.NotEqual(t, first, got)
}

func TestLastCompletedRenameRunEmpty(t *testing.T) {
	logDir := t.TempDir()
	writer, err := NewWriter(logDir)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	_, err = NewReader(logDir).LastCompletedRenameRun()
	assert.ErrorIs(t, err, ErrNoCompletedRun)
}

func TestUndoReversesLastRun(t *testing.T) {
	workDir := t.TempDir()
	logDir := filepath.Join(workDir, "audit")

	// Perform and journal two renames.
	pathA := filepath.Join(workDir, "A File.txt")
	pathB := filepath.Join(workDir, "B File.txt")
	require.NoError(t, os.WriteFile(pathA, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(pathB, []byte("b"), 0644))

	newA := filepath.Join(workDir, "a-file.txt")
	newB := filepath.Join(workDir, "b-file.txt")

	writer, err := NewWriter(logDir)
	require.NoError(t, err)
	_, err = writer.StartRun(RunTypeRename, "web")
	require.NoError(t, err)
	require.NoError(t, os.Rename(pathA, newA))
	require.NoError(t, writer.RecordRename(pathA, newA))
	require.NoError(t, os.Rename(pathB, newB))
	require.NoError(t, writer.RecordRename(pathB, newB))
	require.NoError(t, writer.EndRun(RunSummary{TotalFiles: 2, Renamed: 2}))
	require.NoError(t, writer.Close())

	summary, err := Undo(logDir)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Reversed)
	assert.Equal(t, 0, summary.Skipped)
	assert.FileExists(t, pathA)
	assert.FileExists(t, pathB)
	assert.NoFileExists(t, newA)
	assert.NoFileExists(t, newB)

	// The undo itself is journaled.
	events, err := NewReader(logDir).ReadAll()
	require.NoError(t, err)
	var undoRenames int
	for _, e := range events {
		if e.EventType == EventUndoRename {
			undoRenames++
		}
	}
	assert.Equal(t, 2, undoRenames)
}

func TestUndoSkipsMissingAndOccupied(t *testing.T) {
	workDir := t.TempDir()
	logDir := filepath.Join(workDir, "audit")

	moved := filepath.Join(workDir, "Gone.txt")
	movedDest := filepath.Join(workDir, "gone.txt")
	occupied := filepath.Join(workDir, "Busy.txt")
	occupiedDest := filepath.Join(workDir, "busy.txt")

	require.NoError(t, os.WriteFile(movedDest, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(occupiedDest, []byte("y"), 0644))

	writer, err := NewWriter(logDir)
	require.NoError(t, err)
	_, err = writer.StartRun(RunTypeRename, "web")
	require.NoError(t, err)
	require.NoError(t, writer.RecordRename(moved, movedDest))
	require.NoError(t, writer.RecordRename(occupied, occupiedDest))
	require.NoError(t, writer.EndRun(RunSummary{TotalFiles: 2, Renamed: 2}))
	require.NoError(t, writer.Close())

	// The first file's renamed form disappears; the second's original
	// path gets re-occupied.
	require.NoError(t, os.Remove(movedDest))
	require.NoError(t, os.WriteFile(occupied, []byte("squatter"), 0644))

	summary, err := Undo(logDir)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Reversed)
	assert.Equal(t, 2, summary.Skipped)

	// The squatter is untouched.
	content, err := os.ReadFile(occupied)
	require.NoError(t, err)
	assert.Equal(t, "squatter", string(content))

	events, err := NewReader(logDir).ReadAll()
	require.NoError(t, err)
	var reasons []string
	for _, e := range events {
		if e.EventType == EventUndoSkip {
			reasons = append(reasons, string(e.ReasonCode))
		}
	}
	assert.ElementsMatch(t, []string{"SOURCE_MISSING", "DESTINATION_OCCUPIED"}, reasons)
}
