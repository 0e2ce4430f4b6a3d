package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values.
const (
	RunStatusCompleted         = "completed"
	RunStatusCompletedFailures = "completed_with_failures"
)

// Run is a persisted batch run summary.
type Run struct {
	ID           uuid.UUID `json:"id"`
	RunTimestamp string    `json:"run_timestamp"`
	InputDir     string    `json:"input_dir"`
	TotalFiles   int       `json:"total_files"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	Archived     bool      `json:"archived"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Failure is a persisted errors.json entry.
type Failure struct {
	RunID uuid.UUID `json:"run_id"`
	File  string    `json:"file"`
	Error string    `json:"error"`
	Kind  string    `json:"kind"`
}

func runStatus(failed int) string {
	if failed > 0 {
		return RunStatusCompletedFailures
	}
	return RunStatusCompleted
}
