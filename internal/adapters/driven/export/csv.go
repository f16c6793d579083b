package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// CSV writes one header row then one row per issue.
type CSV struct{}

var _ driven.IssueExporter = (*CSV)(nil)

// NewCSV creates a CSV exporter.
func NewCSV() *CSV {
	return &CSV{}
}

// Format returns "csv".
func (*CSV) Format() string { return "csv" }

// Export writes issues to w.
func (*CSV) Export(w io.Writer, issues []domain.Issue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, i := range issues {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("writing issue %s: %w", i.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
