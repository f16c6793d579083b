package domain

import "fmt"

// IssueType identifies the rule family that produced an issue.
// Each type is an independent keyspace for reconciliation.
type IssueType string

// Issue types.
const (
	IssueDuplicate      IssueType = "Duplicate"
	IssueInvalidEmail   IssueType = "InvalidEmail"
	IssueInvalidPhone   IssueType = "InvalidPhone"
	IssueOrphanedRecord IssueType = "OrphanedRecord"
)

// AllIssueTypes lists every issue type.
func AllIssueTypes() []IssueType {
	return []IssueType{IssueDuplicate, IssueInvalidEmail, IssueInvalidPhone, IssueOrphanedRecord}
}

// IsValid returns true if the issue type is recognised.
func (t IssueType) IsValid() bool {
	switch t {
	case IssueDuplicate, IssueInvalidEmail, IssueInvalidPhone, IssueOrphanedRecord:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t IssueType) String() string {
	return string(t)
}

// ParseIssueType converts a raw filter value into an IssueType.
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown issue type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Signal is the raw severity signal a rule attaches to a finding.
type Signal struct {
	// Severity is the rule's own classification.
	Severity Severity

	// Reason is a short machine-friendly label, e.g. "typo" or "cluster".
	Reason string

	// Attributes carries rule-specific facts available to severity policies.
	Attributes map[string]string
}

// Finding is a transient detection result, consumed by reconciliation
// within the same scan pass.
type Finding struct {
	IssueType   IssueType
	RecordID    string
	ObjectType  ObjectType
	RecordOwner string
	Description string
	Signal      Signal
}

// Key returns the reconciliation key of the finding.
func (f Finding) Key() IssueKey {
	return IssueKey{RecordID: f.RecordID, IssueType: f.IssueType}
}

// ClassifiedFinding is a finding with its final severity.
type ClassifiedFinding struct {
	Finding
	Severity Severity
}
