package audit

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCompletedRun is returned when the journal holds no finished
// rename run to inspect or undo.
var ErrNoCompletedRun = errors.New("no completed rename run in journal")

// Reader provides read access to a journal file.
type Reader struct {
	logPath string
}

// NewReader creates a Reader for the journal under logDir.
func NewReader(logDir string) *Reader {
	return &Reader{logPath: filepath.Join(logDir, LogFilename)}
}

// ReadAll returns every event in the journal in write order.
// Corrupt lines are skipped rather than aborting the read: a partial
// trailing line after a crash must not make the whole journal unusable.
func (r *Reader) ReadAll() ([]Event, error) {
	file, err := os.Open(r.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found: %s", r.logPath)
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := event.UnmarshalJSON(line); err != nil {
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return events, nil
}

// EventsForRun returns all events belonging to the given run, in order.
func (r *Reader) EventsForRun(runID RunID) ([]Event, error) {
	events, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var runEvents []Event
	for _, e := range events {
		if e.RunID == runID {
			runEvents = append(runEvents, e)
		}
	}
	return runEvents, nil
}

// LastCompletedRenameRun returns the ID of the most recent rename run
// that has both RUN_START and RUN_END events. Undo runs are not
// candidates: undoing an undo is re-running the rename, not a journal
// replay.
func (r *Reader) LastCompletedRenameRun() (RunID, error) {
	events, err := r.ReadAll()
	if err != nil {
		return "", err
	}

	started := make(map[RunID]bool)
	var lastCompleted RunID

	for _, e := range events {
		switch e.EventType {
		case EventRunStart:
			if e.Metadata["runType"] == string(RunTypeRename) {
				started[e.RunID] = true
			}
		case EventRunEnd:
			if started[e.RunID] {
				lastCompleted = e.RunID
			}
		}
	}

	if lastCompleted == "" {
		return "", ErrNoCompletedRun
	}
	return lastCompleted, nil
}

// RenamesForRun returns the successful RENAME events of a run, in the
// order they were performed.
func (r *Reader) RenamesForRun(runID RunID) ([]Event, error) {
	events, err := r.EventsForRun(runID)
	if err != nil {
		return nil, err
	}

	var renames []Event
	for _, e := range events {
		if e.EventType == EventRename && e.Status == StatusSuccess {
			renames = append(renames, e)
		}
	}
	return renames, nil
}
