package driven

import (
	"io"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// IssueExporter writes issues in one file format.
type IssueExporter interface {
	// Format is the name users select, e.g. "csv".
	Format() string

	// Export writes the issues in the order given.
	Export(w io.Writer, issues []domain.Issue) error
}
