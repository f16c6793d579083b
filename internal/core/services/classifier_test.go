package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// mockPolicy implements driven.SeverityPolicy for testing.
type mockPolicy struct {
	match    func(f domain.Finding, proposed domain.Severity) bool
	severity domain.Severity
	calls    int
}

func (m *mockPolicy) Override(f domain.Finding, proposed domain.Severity) (domain.Severity, bool) {
	m.calls++
	if m.match != nil && m.match(f, proposed) {
		return m.severity, true
	}
	return "", false
}

var _ driven.SeverityPolicy = (*mockPolicy)(nil)

func TestSeverityClassifier_NoPolicy(t *testing.T) {
	c := NewSeverityClassifier(nil)

	for _, sev := range domain.AllSeverities() {
		f := domain.Finding{Signal: domain.Signal{Severity: sev}}
		assert.Equal(t, sev, c.Classify(f))
	}
}

func TestSeverityClassifier_InvalidSignalFallsBack(t *testing.T) {
	c := NewSeverityClassifier(nil)
	assert.Equal(t, domain.SeverityMedium, c.Classify(domain.Finding{}))
	assert.Equal(t, domain.SeverityMedium, c.Classify(domain.Finding{Signal: domain.Signal{Severity: "Critical"}}))
}

func TestSeverityClassifier_PolicyOverride(t *testing.T) {
	policy := &mockPolicy{
		match: func(f domain.Finding, _ domain.Severity) bool {
			return f.ObjectType == domain.ObjectContact
		},
		severity: domain.SeverityLow,
	}
	c := NewSeverityClassifier(policy)

	contact := domain.Finding{ObjectType: domain.ObjectContact, Signal: domain.Signal{Severity: domain.SeverityMedium}}
	cse := domain.Finding{ObjectType: domain.ObjectCase, Signal: domain.Signal{Severity: domain.SeverityHigh}}

	assert.Equal(t, domain.SeverityLow, c.Classify(contact))
	assert.Equal(t, domain.SeverityHigh, c.Classify(cse))
	assert.Equal(t, 2, policy.calls)
}

func TestSeverityClassifier_InvalidOverrideIgnored(t *testing.T) {
	policy := &mockPolicy{
		match:    func(domain.Finding, domain.Severity) bool { return true },
		severity: "Urgent",
	}
	c := NewSeverityClassifier(policy)

	f := domain.Finding{Signal: domain.Signal{Severity: domain.SeverityHigh}}
	assert.Equal(t, domain.SeverityHigh, c.Classify(f))
}

func TestSeverityClassifier_ClassifyAll(t *testing.T) {
	c := NewSeverityClassifier(nil)
	findings := []domain.Finding{
		{RecordID: "1", Signal: domain.Signal{Severity: domain.SeverityHigh}},
		{RecordID: "2", Signal: domain.Signal{Severity: domain.SeverityLow}},
	}

	out := c.ClassifyAll(findings)
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].RecordID)
	assert.Equal(t, domain.SeverityHigh, out[0].Severity)
	assert.Equal(t, domain.SeverityLow, out[1].Severity)
}
