// Package audit provides an append-only journal of rename operations.
// Every batch or watch run is recorded as a sequence of JSON Lines
// events, which is what makes undo possible.
package audit

import "time"

// RunID is a unique identifier for each journaled run (UUID v4).
type RunID string

// EventType represents the type of journal event.
type EventType string

const (
	// Run lifecycle events
	EventRunStart EventType = "RUN_START"
	EventRunEnd   EventType = "RUN_END"

	// File operation events
	EventRename EventType = "RENAME"
	EventSkip   EventType = "SKIP"
	EventError  EventType = "ERROR"

	// Undo events
	EventUndoRename EventType = "UNDO_RENAME"
	EventUndoSkip   EventType = "UNDO_SKIP"

	// System events
	EventLogInitialized EventType = "LOG_INITIALIZED"
)

// Status represents the outcome of an operation.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
	StatusSkipped Status = "SKIPPED"
)

// ReasonCode explains a SKIP or UNDO_SKIP event.
type ReasonCode string

const (
	// ReasonAlreadyClean marks a file whose name needed no change.
	ReasonAlreadyClean ReasonCode = "ALREADY_CLEAN"

	// Undo skip reasons
	ReasonSourceMissing       ReasonCode = "SOURCE_MISSING"
	ReasonDestinationOccupied ReasonCode = "DESTINATION_OCCUPIED"
)

// RunType distinguishes rename runs from undo runs in the journal.
type RunType string

const (
	RunTypeRename RunType = "RENAME"
	RunTypeUndo   RunType = "UNDO"
)

// ErrorDetails carries the failure attached to an ERROR event.
type ErrorDetails struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}

// Event is a single journal record.
type Event struct {
	Timestamp       time.Time         `json:"timestamp"` // RFC 3339, UTC
	RunID           RunID             `json:"runId"`
	EventType       EventType         `json:"eventType"`
	Status          Status            `json:"status"`
	SourcePath      string            `json:"sourcePath,omitempty"`
	DestinationPath string            `json:"destinationPath,omitempty"`
	Style           string            `json:"style,omitempty"`
	ReasonCode      ReasonCode        `json:"reasonCode,omitempty"`
	ErrorDetails    *ErrorDetails     `json:"errorDetails,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// RunSummary contains statistics recorded on RUN_END.
type RunSummary struct {
	TotalFiles int `json:"totalFiles"`
	Renamed    int `json:"renamed"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}
