package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

func openIssue(id, recordID string, t domain.IssueType, sev domain.Severity, detected time.Time) domain.Issue {
	return domain.Issue{
		ID:         id,
		RecordID:   recordID,
		ObjectType: domain.ObjectContact,
		IssueType:  t,
		Severity:   sev,
		Status:     domain.StatusOpen,
		DetectedAt: detected,
	}
}

func TestNewIssueStore(t *testing.T) {
	store := NewIssueStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.issues)
}

func TestIssueStore_CreateAndGet(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	now := time.Now()

	err := store.CreateIssues(ctx, []domain.Issue{openIssue("i1", "003", domain.IssueInvalidEmail, domain.SeverityHigh, now)})
	require.NoError(t, err)

	got, err := store.GetIssue(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "003", got.RecordID)

	_, err = store.GetIssue(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIssueStore_UniqueOpenKey(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("i1", "003", domain.IssueInvalidEmail, domain.SeverityHigh, now),
	}))

	err := store.CreateIssues(ctx, []domain.Issue{
		openIssue("i2", "003", domain.IssueInvalidPhone, domain.SeverityHigh, now),
		openIssue("i3", "003", domain.IssueInvalidEmail, domain.SeverityMedium, now),
	})
	require.Error(t, err)

	// Atomic: the valid first issue of the failed batch was not kept.
	_, err = store.GetIssue(ctx, "i2")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// A closed issue frees the key.
	require.NoError(t, store.SetStatus(ctx, []string{"i1"}, domain.StatusFixed, now))
	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("i3", "003", domain.IssueInvalidEmail, domain.SeverityMedium, now),
	}))
}

func TestIssueStore_MaxBatch(t *testing.T) {
	store := NewIssueStore()
	store.SetMaxBatch(1)
	ctx := context.Background()
	now := time.Now()

	err := store.CreateIssues(ctx, []domain.Issue{
		openIssue("i1", "1", domain.IssueDuplicate, domain.SeverityHigh, now),
		openIssue("i2", "2", domain.IssueDuplicate, domain.SeverityHigh, now),
	})
	require.Error(t, err)

	all, err := store.ListIssues(ctx, domain.IssueFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIssueStore_UpdateSeverity_OnlyOpen(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("open", "1", domain.IssueDuplicate, domain.SeverityMedium, now),
		openIssue("closed", "2", domain.IssueDuplicate, domain.SeverityMedium, now),
	}))
	require.NoError(t, store.SetStatus(ctx, []string{"closed"}, domain.StatusIgnored, now))

	require.NoError(t, store.UpdateSeverity(ctx, []domain.SeverityUpdate{
		{IssueID: "open", Severity: domain.SeverityHigh},
		{IssueID: "closed", Severity: domain.SeverityHigh},
		{IssueID: "unknown", Severity: domain.SeverityHigh},
	}))

	open, _ := store.GetIssue(ctx, "open")
	closed, _ := store.GetIssue(ctx, "closed")
	assert.Equal(t, domain.SeverityHigh, open.Severity)
	assert.Equal(t, domain.SeverityMedium, closed.Severity)
	assert.Equal(t, now, open.DetectedAt)
}

func TestIssueStore_QueryByKey(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("a", "1", domain.IssueDuplicate, domain.SeverityMedium, now),
		openIssue("b", "1", domain.IssueInvalidPhone, domain.SeverityMedium, now),
		openIssue("c", "2", domain.IssueDuplicate, domain.SeverityMedium, now),
	}))
	require.NoError(t, store.SetStatus(ctx, []string{"c"}, domain.StatusFixed, now))

	keys := []domain.IssueKey{
		{RecordID: "1", IssueType: domain.IssueDuplicate},
		{RecordID: "2", IssueType: domain.IssueDuplicate},
	}

	all, err := store.QueryIssuesByKey(ctx, keys)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := store.QueryOpenIssuesByKey(ctx, keys)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "a", open[0].ID)
}

func TestIssueStore_ListIssues_Sorted(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("low", "1", domain.IssueInvalidPhone, domain.SeverityLow, base.Add(time.Hour)),
		openIssue("old-high", "2", domain.IssueInvalidPhone, domain.SeverityHigh, base),
		openIssue("new-high", "3", domain.IssueInvalidPhone, domain.SeverityHigh, base.Add(time.Minute)),
		openIssue("medium", "4", domain.IssueDuplicate, domain.SeverityMedium, base),
	}))

	all, err := store.ListIssues(ctx, domain.IssueFilter{})
	require.NoError(t, err)
	var ids []string
	for _, i := range all {
		ids = append(ids, i.ID)
	}
	assert.Equal(t, []string{"new-high", "old-high", "medium", "low"}, ids)

	phones, err := store.ListIssues(ctx, domain.IssueFilter{IssueType: domain.IssueInvalidPhone})
	require.NoError(t, err)
	assert.Len(t, phones, 3)
}

func TestIssueStore_SetStatus(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("a", "1", domain.IssueDuplicate, domain.SeverityMedium, now),
		openIssue("b", "2", domain.IssueDuplicate, domain.SeverityMedium, now),
	}))

	fixedAt := now.Add(time.Hour)
	require.NoError(t, store.SetStatus(ctx, []string{"a"}, domain.StatusFixed, fixedAt))
	a, _ := store.GetIssue(ctx, "a")
	assert.Equal(t, domain.StatusFixed, a.Status)
	assert.Equal(t, fixedAt, a.FixedAt)

	require.NoError(t, store.SetStatus(ctx, []string{"a"}, domain.StatusIgnored, fixedAt))
	a, _ = store.GetIssue(ctx, "a")
	assert.True(t, a.FixedAt.IsZero())

	err := store.SetStatus(ctx, []string{"b", "nope"}, domain.StatusFixed, fixedAt)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	b, _ := store.GetIssue(ctx, "b")
	assert.Equal(t, domain.StatusOpen, b.Status)

	err = store.SetStatus(ctx, []string{"b"}, domain.StatusOpen, fixedAt)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestIssueStore_Summary(t *testing.T) {
	store := NewIssueStore()
	ctx := context.Background()
	now := time.Now()

	summary, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)

	require.NoError(t, store.CreateIssues(ctx, []domain.Issue{
		openIssue("a", "1", domain.IssueDuplicate, domain.SeverityHigh, now),
		openIssue("b", "2", domain.IssueInvalidEmail, domain.SeverityLow, now),
		openIssue("c", "3", domain.IssueInvalidEmail, domain.SeverityLow, now),
	}))

	summary, err = store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.BySeverity[domain.SeverityHigh])
	assert.Equal(t, 0, summary.BySeverity[domain.SeverityMedium])
	assert.Equal(t, 2, summary.BySeverity[domain.SeverityLow])
	assert.Equal(t, 2, summary.ByType[domain.IssueInvalidEmail])
}
