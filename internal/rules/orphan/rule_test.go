package orphan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

func accounts(ids ...string) []domain.SourceRecord {
	out := make([]domain.SourceRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.SourceRecord{ID: id, ObjectType: domain.ObjectAccount})
	}
	return out
}

func TestRule_Requirements(t *testing.T) {
	reqs := New().Requirements()

	require.Len(t, reqs, 4)
	assert.Equal(t, domain.ObjectAccount, reqs[0].ObjectType)
	assert.Equal(t, domain.FieldSet{domain.FieldID}, reqs[0].Fields)
	assert.Equal(t, domain.ObjectContact, reqs[1].ObjectType)
	assert.True(t, reqs[1].Fields.Has(domain.FieldParent))
}

func TestEvaluate_ContactEmptyAndDanglingIdentical(t *testing.T) {
	tests := []struct {
		name     string
		parentID string
	}{
		{"empty reference", ""},
		{"whitespace reference", "  "},
		{"non-existent account", "001-missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := New().Evaluate(domain.Snapshot{
				domain.ObjectAccount: accounts("001A"),
				domain.ObjectContact: {
					{ID: "003A", ObjectType: domain.ObjectContact, Owner: "Lee", ParentID: tt.parentID},
				},
			})

			require.Len(t, findings, 1)
			f := findings[0]
			assert.Equal(t, domain.IssueOrphanedRecord, f.IssueType)
			assert.Equal(t, domain.SeverityMedium, f.Signal.Severity)
			assert.Equal(t, "Contact has no Account", f.Description)
			assert.Equal(t, "003A", f.RecordID)
			assert.Equal(t, "Lee", f.RecordOwner)
		})
	}
}

func TestEvaluate_SeverityByType(t *testing.T) {
	findings := New().Evaluate(domain.Snapshot{
		domain.ObjectAccount: accounts("001A", "001B"),
		domain.ObjectContact: {
			{ID: "003A", ObjectType: domain.ObjectContact, ParentID: "001A"},
		},
		domain.ObjectOpportunity: {
			{ID: "006A", ObjectType: domain.ObjectOpportunity, ParentID: "001B"},
			{ID: "006B", ObjectType: domain.ObjectOpportunity, ParentID: "001Z"},
		},
		domain.ObjectCase: {
			{ID: "500A", ObjectType: domain.ObjectCase},
		},
	})

	require.Len(t, findings, 2)
	assert.Equal(t, "006B", findings[0].RecordID)
	assert.Equal(t, domain.SeverityHigh, findings[0].Signal.Severity)
	assert.Equal(t, "Opportunity has no Account", findings[0].Description)
	assert.Equal(t, "dangling_reference", findings[0].Signal.Reason)

	assert.Equal(t, "500A", findings[1].RecordID)
	assert.Equal(t, domain.SeverityHigh, findings[1].Signal.Severity)
	assert.Equal(t, "Case has no Account", findings[1].Description)
	assert.Equal(t, "missing_reference", findings[1].Signal.Reason)
}

func TestEvaluate_NoAccountsOrphansEverything(t *testing.T) {
	findings := New().Evaluate(domain.Snapshot{
		domain.ObjectContact: {
			{ID: "003A", ObjectType: domain.ObjectContact, ParentID: "001A"},
			{ID: "003B", ObjectType: domain.ObjectContact, ParentID: "001B"},
		},
	})

	assert.Len(t, findings, 2)
}

func TestEvaluate_MalformedParentIgnored(t *testing.T) {
	findings := New().Evaluate(domain.Snapshot{
		domain.ObjectAccount: {{ID: "", ObjectType: domain.ObjectAccount}},
		domain.ObjectContact: {
			{ID: "003A", ObjectType: domain.ObjectContact, ParentID: ""},
		},
	})

	require.Len(t, findings, 1)
}
