package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shaoshing/jscs-jsdoc/internal/index"
)

// ErrNoRuns is returned when the history is empty.
var ErrNoRuns = errors.New("no runs recorded")

// RunSummary is a row of the run history.
type RunSummary struct {
	ID         string
	Root       string
	StartedAt  time.Time
	Files      int
	Errors     int
	Violations int
}

// Store defines operations for persisting run history.
type Store interface {
	// SaveRun stores a run with all of its violations and file errors.
	SaveRun(ctx context.Context, run *index.Run) error

	// LatestRun loads the most recent run for root.
	LatestRun(ctx context.Context, root string) (*index.Run, error)

	// ListRuns returns summaries of the newest runs first.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	Close() error
}
