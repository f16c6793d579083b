package driven

import (
	"context"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// ScanHistoryStore persists one entry per scan invocation.
type ScanHistoryStore interface {
	// RecordRun saves a finished run, successful or not.
	RecordRun(ctx context.Context, run domain.ScanRun) error

	// ListRuns returns recent runs, most recent first.
	ListRuns(ctx context.Context, limit int) ([]domain.ScanRun, error)

	// PruneRuns keeps only the most recent 'keep' runs.
	PruneRuns(ctx context.Context, keep int) error
}
