// Package export writes issue lists as CSV, JSON or XLSX.
package export

import (
	"time"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// columns is the shared column order of the tabular formats.
var columns = []string{
	"id", "record_id", "object_type", "issue_type", "severity",
	"status", "description", "record_owner", "detected_at", "fixed_at",
}

func row(i domain.Issue) []string {
	return []string{
		i.ID,
		i.RecordID,
		string(i.ObjectType),
		string(i.IssueType),
		string(i.Severity),
		string(i.Status),
		i.Description,
		i.RecordOwner,
		formatTime(i.DetectedAt),
		formatTime(i.FixedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// All returns every exporter.
func All() []driven.IssueExporter {
	return []driven.IssueExporter{NewCSV(), NewJSON(), NewXLSX()}
}
