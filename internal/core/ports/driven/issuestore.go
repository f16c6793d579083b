package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// IssueStore persists the issue ledger.
// Implementations must guarantee at most one Open issue per IssueKey.
type IssueStore interface {
	// CreateIssues inserts a batch of issues atomically.
	CreateIssues(ctx context.Context, issues []domain.Issue) error

	// UpdateSeverity refreshes the severity of Open issues atomically.
	// Updates addressed to non-Open issues are ignored.
	UpdateSeverity(ctx context.Context, updates []domain.SeverityUpdate) error

	// ApplyBatch performs creates and severity updates in one transaction.
	// Either every write is applied or none is.
	ApplyBatch(ctx context.Context, creates []domain.Issue, updates []domain.SeverityUpdate) error

	// QueryOpenIssuesByKey returns the Open issues for the given keys.
	QueryOpenIssuesByKey(ctx context.Context, keys []domain.IssueKey) ([]domain.Issue, error)

	// QueryIssuesByKey returns issues of any status for the given keys.
	QueryIssuesByKey(ctx context.Context, keys []domain.IssueKey) ([]domain.Issue, error)

	// GetIssue retrieves an issue by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetIssue(ctx context.Context, id string) (*domain.Issue, error)

	// ListIssues returns matching issues sorted by severity descending,
	// then DetectedAt descending.
	ListIssues(ctx context.Context, filter domain.IssueFilter) ([]domain.Issue, error)

	// Summary counts every issue in the ledger.
	Summary(ctx context.Context) (domain.IssueSummary, error)

	// SetStatus moves the issues to Fixed or Ignored atomically.
	// Fixed stamps FixedAt with at; Ignored clears it.
	// Returns domain.ErrNotFound, changing nothing, if any ID is unknown.
	SetStatus(ctx context.Context, ids []string, status domain.Status, at time.Time) error
}
