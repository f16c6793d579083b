package domain

import (
	"fmt"
	"sort"
	"time"
)

// Severity ranks how urgently an issue needs attention.
type Severity string

// Severity levels, highest first.
const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// AllSeverities lists every severity, highest first.
func AllSeverities() []Severity {
	return []Severity{SeverityHigh, SeverityMedium, SeverityLow}
}

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Rank returns a sortable weight: higher is more severe, 0 for unknown.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity converts a raw value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
	}
	return sev, nil
}

// Status is the lifecycle state of an issue.
type Status string

// Issue statuses.
const (
	StatusOpen    Status = "Open"
	StatusFixed   Status = "Fixed"
	StatusIgnored Status = "Ignored"
)

// IsValid returns true if the status is recognised.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusFixed, StatusIgnored:
		return true
	default:
		return false
	}
}

// IsClosed returns true for statuses set by explicit user action.
func (s Status) IsClosed() bool {
	return s == StatusFixed || s == StatusIgnored
}

// ParseClosingStatus accepts only the statuses a caller may set: Fixed or Ignored.
func ParseClosingStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsClosed() {
		return "", fmt.Errorf("%w: status must be Fixed or Ignored, got %q", ErrInvalidInput, s)
	}
	return st, nil
}

// IssueKey identifies an issue for reconciliation.
// At most one Open issue exists per key.
type IssueKey struct {
	RecordID  string
	IssueType IssueType
}

// Issue is a persisted data-quality defect.
type Issue struct {
	// ID is the unique identifier for the issue.
	ID string

	// RecordID is a weak reference to the affected record.
	// The record may have been deleted since detection.
	RecordID string

	// ObjectType is the kind of the affected record.
	ObjectType ObjectType

	// IssueType is the rule family that detected the issue.
	IssueType IssueType

	// Severity is refreshed on every rescan that reaffirms an Open issue.
	Severity Severity

	// Description explains the defect in user-facing terms.
	Description string

	// RecordOwner is the owner at detection time. It is never backfilled.
	RecordOwner string

	// Status is changed only by explicit user action.
	Status Status

	// DetectedAt is set once, at creation.
	DetectedAt time.Time

	// FixedAt is set if and only if Status is Fixed.
	FixedAt time.Time
}

// Key returns the reconciliation key of the issue.
func (i Issue) Key() IssueKey {
	return IssueKey{RecordID: i.RecordID, IssueType: i.IssueType}
}

// SeverityUpdate refreshes the severity of an Open issue.
type SeverityUpdate struct {
	IssueID  string
	Severity Severity
}

// IssueFilter narrows ledger reads. Zero values match everything.
type IssueFilter struct {
	IssueType IssueType
	Status    Status
	Severity  Severity
}

// Matches reports whether the issue passes the filter.
func (f IssueFilter) Matches(i Issue) bool {
	if f.IssueType != "" && i.IssueType != f.IssueType {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Severity != "" && i.Severity != f.Severity {
		return false
	}
	return true
}

// SortIssues orders issues by severity descending, then DetectedAt descending.
// Ties fall back to ID so the order is stable across stores.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		x, y := issues[a], issues[b]
		if x.Severity.Rank() != y.Severity.Rank() {
			return x.Severity.Rank() > y.Severity.Rank()
		}
		if !x.DetectedAt.Equal(y.DetectedAt) {
			return x.DetectedAt.After(y.DetectedAt)
		}
		return x.ID < y.ID
	})
}

// IssueSummary is the ledger-wide breakdown of issue counts.
type IssueSummary struct {
	// Total equals the sum of BySeverity.
	Total int

	BySeverity map[Severity]int
	ByType     map[IssueType]int
	ByStatus   map[Status]int
}

// NewIssueSummary returns a summary with every bucket present at zero.
func NewIssueSummary() IssueSummary {
	s := IssueSummary{
		BySeverity: make(map[Severity]int),
		ByType:     make(map[IssueType]int),
		ByStatus:   make(map[Status]int),
	}
	for _, sev := range AllSeverities() {
		s.BySeverity[sev] = 0
	}
	for _, t := range AllIssueTypes() {
		s.ByType[t] = 0
	}
	for _, st := range []Status{StatusOpen, StatusFixed, StatusIgnored} {
		s.ByStatus[st] = 0
	}
	return s
}

// Add counts one issue into every bucket.
func (s *IssueSummary) Add(i Issue) {
	s.AddCount(i.Severity, i.IssueType, i.Status, 1)
}

// AddCount counts n issues sharing the same severity, type and status.
func (s *IssueSummary) AddCount(sev Severity, t IssueType, st Status, n int) {
	s.Total += n
	s.BySeverity[sev] += n
	s.ByType[t] += n
	s.ByStatus[st] += n
}
