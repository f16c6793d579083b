package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// mockSnapshot implements driven.RecordSnapshot for testing.
type mockSnapshot struct {
	records []domain.SourceRecord
	err     error
}

func (m *mockSnapshot) Load(_ context.Context) ([]domain.SourceRecord, error) {
	return m.records, m.err
}

// mockRecordWriter implements driven.RecordWriter for testing.
type mockRecordWriter struct {
	put   []domain.SourceRecord
	calls int
	err   error
}

func (m *mockRecordWriter) Put(_ context.Context, records []domain.SourceRecord) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.put = append(m.put, records...)
	return nil
}

func openerFor(snap *mockSnapshot, gotPath *string) SnapshotOpener {
	return func(path string) driven.RecordSnapshot {
		if gotPath != nil {
			*gotPath = path
		}
		return snap
	}
}

func TestRecordImporter_Import(t *testing.T) {
	snap := &mockSnapshot{records: []domain.SourceRecord{
		{ID: "001", ObjectType: domain.ObjectAccount, Name: "Acme"},
		{ID: "002", ObjectType: domain.ObjectAccount, Name: "Globex"},
		{ID: "003", ObjectType: domain.ObjectContact, Email: "a@acme.com", ParentID: "001"},
	}}
	writer := &mockRecordWriter{}
	var path string
	importer := NewRecordImporter(writer, openerFor(snap, &path))

	counts, err := importer.Import(context.Background(), "records.yaml")
	require.NoError(t, err)

	assert.Equal(t, "records.yaml", path)
	assert.Equal(t, 2, counts[domain.ObjectAccount])
	assert.Equal(t, 1, counts[domain.ObjectContact])
	assert.Len(t, writer.put, 3)
}

func TestRecordImporter_EmptySnapshot(t *testing.T) {
	writer := &mockRecordWriter{}
	importer := NewRecordImporter(writer, openerFor(&mockSnapshot{}, nil))

	counts, err := importer.Import(context.Background(), "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.Equal(t, 0, writer.calls)
}

func TestRecordImporter_Errors(t *testing.T) {
	writeErr := errors.New("disk full")

	tests := []struct {
		name    string
		path    string
		snap    *mockSnapshot
		writer  *mockRecordWriter
		wantErr error
	}{
		{
			name:    "empty path",
			path:    "",
			snap:    &mockSnapshot{},
			writer:  &mockRecordWriter{},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unreadable snapshot",
			path:    "missing.yaml",
			snap:    &mockSnapshot{err: domain.ErrSourceUnavailable},
			writer:  &mockRecordWriter{},
			wantErr: domain.ErrSourceUnavailable,
		},
		{
			name: "record without id",
			path: "bad.yaml",
			snap: &mockSnapshot{records: []domain.SourceRecord{
				{ID: "001", ObjectType: domain.ObjectAccount},
				{ObjectType: domain.ObjectLead},
			}},
			writer:  &mockRecordWriter{},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown object type",
			path: "bad.yaml",
			snap: &mockSnapshot{records: []domain.SourceRecord{
				{ID: "001", ObjectType: "Widget"},
			}},
			writer:  &mockRecordWriter{},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "write failure",
			path: "records.yaml",
			snap: &mockSnapshot{records: []domain.SourceRecord{
				{ID: "001", ObjectType: domain.ObjectAccount},
			}},
			writer:  &mockRecordWriter{err: writeErr},
			wantErr: writeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			importer := NewRecordImporter(tt.writer, openerFor(tt.snap, nil))

			_, err := importer.Import(context.Background(), tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, tt.writer.put)
		})
	}
}

func TestRecordImporter_NotConfigured(t *testing.T) {
	importer := NewRecordImporter(nil, nil)

	_, err := importer.Import(context.Background(), "records.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
