package driven

import (
	"context"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// RecordSource fetches bounded snapshots of business records.
// It hides the storage technology from the rules.
type RecordSource interface {
	// Fetch returns at most limit records of the given type, in no
	// particular order, with only the requested fields populated.
	// A store that cannot be reached fails with domain.ErrSourceUnavailable
	// and returns no records. Zero records is not an error.
	Fetch(ctx context.Context, objectType domain.ObjectType, fields domain.FieldSet, limit int) ([]domain.SourceRecord, error)
}

// RecordSnapshot yields every record held by a snapshot, such as a file export.
type RecordSnapshot interface {
	// Load reads the whole snapshot.
	// An unreadable snapshot fails with domain.ErrSourceUnavailable.
	Load(ctx context.Context) ([]domain.SourceRecord, error)
}

// RecordWriter stores records so later scans can fetch them.
type RecordWriter interface {
	// Put inserts or replaces records by ID in one transaction.
	Put(ctx context.Context, records []domain.SourceRecord) error
}
