package driving

import (
	"context"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// RecordImporter loads record snapshots into the scanned record store.
type RecordImporter interface {
	// Import reads the snapshot at path and stores every record it holds.
	// Returns how many records were stored per object type.
	Import(ctx context.Context, path string) (map[domain.ObjectType]int, error)
}
