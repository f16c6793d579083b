// Package orphan detects records missing their required parent.
package orphan

import (
	"strings"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/rules"
)

// Ensure Rule implements the interface.
var _ driven.Evaluator = (*Rule)(nil)

// Relationship is a required child to parent reference.
type Relationship struct {
	Child    domain.ObjectType
	Parent   domain.ObjectType
	Severity domain.Severity
}

// DefaultRelationships are the parent references every scan checks.
func DefaultRelationships() []Relationship {
	return []Relationship{
		{Child: domain.ObjectContact, Parent: domain.ObjectAccount, Severity: domain.SeverityMedium},
		{Child: domain.ObjectOpportunity, Parent: domain.ObjectAccount, Severity: domain.SeverityHigh},
		{Child: domain.ObjectCase, Parent: domain.ObjectAccount, Severity: domain.SeverityHigh},
	}
}

// Rule checks parent references against the set of existing parents.
type Rule struct {
	relationships []Relationship
}

// New creates a new orphan checker over the default relationships.
func New() *Rule {
	return &Rule{relationships: DefaultRelationships()}
}

// Name identifies the rule.
func (r *Rule) Name() string {
	return "orphan"
}

// IssueType returns the keyspace of this rule's findings.
func (r *Rule) IssueType() domain.IssueType {
	return domain.IssueOrphanedRecord
}

// Requirements declares parent IDs once per parent type, then each child type.
func (r *Rule) Requirements() []domain.SnapshotRequest {
	var reqs []domain.SnapshotRequest
	seen := make(map[domain.ObjectType]bool)
	for _, rel := range r.relationships {
		if !seen[rel.Parent] {
			seen[rel.Parent] = true
			reqs = append(reqs, domain.SnapshotRequest{
				ObjectType: rel.Parent,
				Fields:     domain.FieldSet{domain.FieldID},
			})
		}
	}
	for _, rel := range r.relationships {
		reqs = append(reqs, domain.SnapshotRequest{
			ObjectType: rel.Child,
			Fields:     domain.FieldSet{domain.FieldID, domain.FieldOwner, domain.FieldParent},
		})
	}
	return reqs
}

// Evaluate emits one finding per child whose parent reference is empty
// or unknown. Both cases are reported identically.
func (r *Rule) Evaluate(snapshot domain.Snapshot) []domain.Finding {
	parents := make(map[domain.ObjectType]map[string]struct{})
	for _, rel := range r.relationships {
		if _, ok := parents[rel.Parent]; ok {
			continue
		}
		ids := make(map[string]struct{})
		rules.Each(r.Name(), snapshot.Records(rel.Parent), rel.Parent, func(rec domain.SourceRecord) {
			ids[rec.ID] = struct{}{}
		})
		parents[rel.Parent] = ids
	}

	var findings []domain.Finding
	for _, rel := range r.relationships {
		valid := parents[rel.Parent]
		desc := string(rel.Child) + " has no " + string(rel.Parent)
		rules.Each(r.Name(), snapshot.Records(rel.Child), rel.Child, func(rec domain.SourceRecord) {
			ref := strings.TrimSpace(rec.ParentID)
			reason := "missing_reference"
			if ref != "" {
				if _, ok := valid[ref]; ok {
					return
				}
				reason = "dangling_reference"
			}
			findings = append(findings, domain.Finding{
				IssueType:   domain.IssueOrphanedRecord,
				RecordID:    rec.ID,
				ObjectType:  rel.Child,
				RecordOwner: rec.Owner,
				Description: desc,
				Signal: domain.Signal{
					Severity:   rel.Severity,
					Reason:     reason,
					Attributes: rules.Attrs("parent_type", string(rel.Parent), "parent_id", ref),
				},
			})
		})
	}
	return findings
}
