package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// IssueService is the read and status-mutation surface of the issue ledger.
type IssueService interface {
	// GetAllIssues returns every issue, severity descending then newest first.
	GetAllIssues(ctx context.Context) ([]domain.Issue, error)

	// GetIssuesByType returns issues of one type in the same order.
	// An unknown type fails with domain.ErrInvalidInput.
	GetIssuesByType(ctx context.Context, issueType string) ([]domain.Issue, error)

	// GetIssue returns a single issue or domain.ErrNotFound.
	GetIssue(ctx context.Context, id string) (*domain.Issue, error)

	// GetIssuesSummary returns total and per-bucket counts.
	GetIssuesSummary(ctx context.Context) (domain.IssueSummary, error)

	// SetStatus moves one issue to Fixed or Ignored.
	SetStatus(ctx context.Context, id string, status domain.Status) error

	// BulkSetStatus moves many issues to Fixed or Ignored atomically.
	BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error

	// Export writes issues matching the filter in the named format.
	Export(ctx context.Context, format string, filter domain.IssueFilter, w io.Writer) error

	// ExportFormats lists the available export formats.
	ExportFormats() []string
}
