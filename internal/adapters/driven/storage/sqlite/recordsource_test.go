package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

func seedRecords(t *testing.T, store *Store) {
	t.Helper()
	require.NoError(t, store.RecordSource().Put(context.Background(), []domain.SourceRecord{
		{ID: "001A", ObjectType: domain.ObjectAccount, Owner: "Ana", Name: "Acme Inc", Phone: "555-0101", Website: "acme.com"},
		{ID: "001B", ObjectType: domain.ObjectAccount, Owner: "Ben", Name: "acme inc.", Phone: "5550101"},
		{ID: "003A", ObjectType: domain.ObjectContact, Owner: "Cy", Name: "Jo", Email: "jo@gmial.com", ParentID: "001A"},
		{ID: "00QA", ObjectType: domain.ObjectLead, Owner: "Di", Phone: "1234567890", Email: "lead@example.com"},
		{ID: "006A", ObjectType: domain.ObjectOpportunity, Owner: "Ed", ParentID: "001Z"},
		{ID: "500A", ObjectType: domain.ObjectCase, Owner: "Fay"},
	}))
}

func TestRecordSource_FetchProjectsFields(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedRecords(t, store)

	ctx := context.Background()
	src := store.RecordSource()

	accounts, err := src.Fetch(ctx, domain.ObjectAccount, domain.FieldSet{domain.FieldID, domain.FieldName}, 100)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.SourceRecord{ID: "001A", ObjectType: domain.ObjectAccount, Name: "Acme Inc"}, accounts[0])
	assert.Empty(t, accounts[1].Phone)

	contacts, err := src.Fetch(ctx, domain.ObjectContact,
		domain.FieldSet{domain.FieldID, domain.FieldEmail, domain.FieldParent, domain.FieldWebsite}, 100)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "jo@gmial.com", contacts[0].Email)
	assert.Equal(t, "001A", contacts[0].ParentID)
	assert.Empty(t, contacts[0].Owner)
}

func TestRecordSource_FetchLimit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedRecords(t, store)

	got, err := store.RecordSource().Fetch(context.Background(), domain.ObjectAccount,
		domain.FieldSet{domain.FieldID}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecordSource_FetchCancelledKeepsCause(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedRecords(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.RecordSource().Fetch(ctx, domain.ObjectAccount, domain.FieldSet{domain.FieldID}, 10)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRecordSource_FetchEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.RecordSource().Fetch(context.Background(), domain.ObjectCase,
		domain.FieldSet{domain.FieldID, domain.FieldParent}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordSource_FetchUnknownType(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RecordSource().Fetch(context.Background(), "Widget", domain.FieldSet{domain.FieldID}, 10)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecordSource_FetchClosedStore(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.RecordSource().Fetch(context.Background(), domain.ObjectAccount, domain.FieldSet{domain.FieldID}, 10)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
}

func TestRecordSource_PutReplacesAndDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedRecords(t, store)

	ctx := context.Background()
	src := store.RecordSource()

	require.NoError(t, src.Put(ctx, []domain.SourceRecord{
		{ID: "500A", ObjectType: domain.ObjectCase, Owner: "Fay", ParentID: "001A"},
	}))
	cases, err := src.Fetch(ctx, domain.ObjectCase, domain.FieldSet{domain.FieldID, domain.FieldParent}, 10)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "001A", cases[0].ParentID)

	require.NoError(t, src.Delete(ctx, domain.ObjectCase, "500A"))
	cases, err = src.Fetch(ctx, domain.ObjectCase, domain.FieldSet{domain.FieldID}, 10)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestRecordSource_PutRejectsInvalid(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	src := store.RecordSource()

	err := src.Put(ctx, []domain.SourceRecord{
		{ID: "001A", ObjectType: domain.ObjectAccount, Name: "Acme"},
		{ID: "", ObjectType: domain.ObjectAccount, Name: "No ID"},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// The valid record is rolled back with the batch.
	got, err := src.Fetch(ctx, domain.ObjectAccount, domain.FieldSet{domain.FieldID}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
