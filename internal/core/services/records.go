package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// Ensure RecordImporter implements the interface.
var _ driving.RecordImporter = (*RecordImporter)(nil)

// SnapshotOpener returns a snapshot reader for a file path.
type SnapshotOpener func(path string) driven.RecordSnapshot

// RecordImporter copies snapshot records into a record store.
type RecordImporter struct {
	writer driven.RecordWriter
	open   SnapshotOpener
}

// NewRecordImporter creates a record importer.
func NewRecordImporter(writer driven.RecordWriter, open SnapshotOpener) *RecordImporter {
	return &RecordImporter{writer: writer, open: open}
}

// Import reads the snapshot at path and writes all of its records.
// Nothing is written if any record is invalid.
func (i *RecordImporter) Import(ctx context.Context, path string) (map[domain.ObjectType]int, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: snapshot path is required", domain.ErrInvalidInput)
	}
	if i.writer == nil || i.open == nil {
		return nil, errors.New("record importer not configured")
	}

	timer := logger.Timer("import " + path)
	defer timer()

	records, err := i.open(path).Load(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ObjectType]int)
	for idx := range records {
		rec := records[idx]
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: %s record %d has no id", domain.ErrInvalidInput, rec.ObjectType, idx+1)
		}
		if !rec.ObjectType.IsValid() {
			return nil, fmt.Errorf("%w: record %s has unknown object type %q",
				domain.ErrInvalidInput, rec.ID, rec.ObjectType)
		}
		counts[rec.ObjectType]++
	}

	if len(records) == 0 {
		return counts, nil
	}
	if err := i.writer.Put(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store records: %w", err)
	}
	logger.Info("Imported %d records from %s", len(records), path)
	return counts, nil
}
