package audit

import (
	"fmt"
	"os"
)

// UndoSummary reports the outcome of an undo operation.
type UndoSummary struct {
	RunID    RunID // the run that was reversed
	Reversed int
	Skipped  int
}

// Undo reverses the most recent completed rename run recorded in the
// journal under logDir.
//
// Renames are reversed in reverse order. Each reversal checks that the
// renamed file is still where the journal put it and that its original
// path is unoccupied; failing either check produces an UNDO_SKIP event
// instead of touching anything. The undo is itself journaled as a run,
// so the journal stays a complete history.
func Undo(logDir string) (*UndoSummary, error) {
	reader := NewReader(logDir)

	runID, err := reader.LastCompletedRenameRun()
	if err != nil {
		return nil, err
	}

	renames, err := reader.RenamesForRun(runID)
	if err != nil {
		return nil, err
	}

	writer, err := NewWriter(logDir)
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	if _, err := writer.StartRun(RunTypeUndo, ""); err != nil {
		return nil, err
	}

	summary := &UndoSummary{RunID: runID}

	for i := len(renames) - 1; i >= 0; i-- {
		rename := renames[i]
		renamedPath := rename.DestinationPath
		originalPath := rename.SourcePath

		if _, err := os.Lstat(renamedPath); err != nil {
			summary.Skipped++
			if recErr := writer.RecordUndoSkip(renamedPath, ReasonSourceMissing); recErr != nil {
				return nil, recErr
			}
			continue
		}

		if _, err := os.Lstat(originalPath); err == nil {
			summary.Skipped++
			if recErr := writer.RecordUndoSkip(originalPath, ReasonDestinationOccupied); recErr != nil {
				return nil, recErr
			}
			continue
		}

		if err := os.Rename(renamedPath, originalPath); err != nil {
			return nil, fmt.Errorf("failed to reverse rename of %s: %w", renamedPath, err)
		}

		summary.Reversed++
		if recErr := writer.RecordUndoRename(renamedPath, originalPath); recErr != nil {
			return nil, recErr
		}
	}

	if err := writer.EndRun(RunSummary{
		TotalFiles: len(renames),
		Renamed:    summary.Reversed,
		Skipped:    summary.Skipped,
	}); err != nil {
		return nil, err
	}

	return summary, nil
}
