package export

import (
	"encoding/json"
	"io"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// issueJSON is the exported shape of an issue.
type issueJSON struct {
	ID          string `json:"id"`
	RecordID    string `json:"record_id"`
	ObjectType  string `json:"object_type"`
	IssueType   string `json:"issue_type"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	Description string `json:"description"`
	RecordOwner string `json:"record_owner,omitempty"`
	DetectedAt  string `json:"detected_at"`
	FixedAt     string `json:"fixed_at,omitempty"`
}

// ToJSON converts an issue to its exported shape.
func ToJSON(i domain.Issue) any {
	return issueJSON{
		ID:          i.ID,
		RecordID:    i.RecordID,
		ObjectType:  string(i.ObjectType),
		IssueType:   string(i.IssueType),
		Severity:    string(i.Severity),
		Status:      string(i.Status),
		Description: i.Description,
		RecordOwner: i.RecordOwner,
		DetectedAt:  formatTime(i.DetectedAt),
		FixedAt:     formatTime(i.FixedAt),
	}
}

// JSON writes an indented array of issues.
type JSON struct{}

var _ driven.IssueExporter = (*JSON)(nil)

// NewJSON creates a JSON exporter.
func NewJSON() *JSON {
	return &JSON{}
}

// Format returns "json".
func (*JSON) Format() string { return "json" }

// Export writes issues to w.
func (*JSON) Export(w io.Writer, issues []domain.Issue) error {
	out := make([]any, 0, len(issues))
	for _, i := range issues {
		out = append(out, ToJSON(i))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
