package domain

import (
	"fmt"
	"strings"
	"time"
)

// RunSummary is the outcome of one scan pass.
type RunSummary struct {
	// RunID identifies the persisted scan history entry.
	RunID string

	// StartedAt is when the pass began.
	StartedAt time.Time

	// Created is the number of new Open issues.
	Created int

	// Refreshed is the number of Open issues whose severity changed.
	Refreshed int

	// Findings is the number of findings produced by all rules.
	Findings int

	// PerType counts findings per issue type.
	PerType map[IssueType]int

	// Duration is the wall time of the pass.
	Duration time.Duration
}

// DurationMs returns the duration in whole milliseconds.
func (s RunSummary) DurationMs() int64 {
	return s.Duration.Milliseconds()
}

// String renders the summary for display.
func (s RunSummary) String() string {
	var parts []string
	for _, t := range AllIssueTypes() {
		if n := s.PerType[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", t, n))
		}
	}
	breakdown := "no findings"
	if len(parts) > 0 {
		breakdown = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Scan complete: %d new %s, %d refreshed (%s) in %dms",
		s.Created, pluralise(s.Created, "issue", "issues"), s.Refreshed, breakdown, s.DurationMs())
}

func pluralise(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// ScanRun is a persisted record of one scan invocation.
type ScanRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Created    int
	Refreshed  int
	Findings   int
	PerType    map[IssueType]int

	// Error is empty for successful runs.
	Error string
}

// Succeeded reports whether the run completed without error.
func (r ScanRun) Succeeded() bool {
	return r.Error == ""
}

// ScanRunFromSummary builds a history entry from a completed pass.
func ScanRunFromSummary(s RunSummary) ScanRun {
	return ScanRun{
		ID:         s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.StartedAt.Add(s.Duration),
		Created:    s.Created,
		Refreshed:  s.Refreshed,
		Findings:   s.Findings,
		PerType:    s.PerType,
	}
}
