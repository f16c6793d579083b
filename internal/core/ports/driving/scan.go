package driving

import (
	"context"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// ScanOrchestrator runs the detection rules and reconciles their findings
// into the issue ledger.
type ScanOrchestrator interface {
	// RunAllScans performs one complete scan pass.
	// Fetch failures return domain.ErrSourceUnavailable and write nothing.
	// Write failures return domain.ErrScanFailed and write nothing.
	RunAllScans(ctx context.Context) (*domain.RunSummary, error)

	// History returns recent scan runs, most recent first.
	History(ctx context.Context, limit int) ([]domain.ScanRun, error)

	// PruneHistory trims scan history to the retention limit.
	PruneHistory(ctx context.Context) error
}
