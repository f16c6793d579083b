package services

import (
	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// SeverityClassifier assigns the final severity of each finding.
// Rules embed their own thresholds; the optional policy overrides them
// globally.
type SeverityClassifier struct {
	policy driven.SeverityPolicy
}

// NewSeverityClassifier creates a classifier. policy may be nil.
func NewSeverityClassifier(policy driven.SeverityPolicy) *SeverityClassifier {
	return &SeverityClassifier{policy: policy}
}

// Classify returns the severity for f.
func (c *SeverityClassifier) Classify(f domain.Finding) domain.Severity {
	sev := f.Signal.Severity
	if !sev.IsValid() {
		logger.Warn("classifier: %s finding for %s has no valid severity %q, using Medium", f.IssueType, f.RecordID, sev)
		sev = domain.SeverityMedium
	}
	if c.policy == nil {
		return sev
	}
	if override, ok := c.policy.Override(f, sev); ok && override.IsValid() {
		if override != sev {
			logger.Debug("classifier: policy moved %s %s from %s to %s", f.IssueType, f.RecordID, sev, override)
		}
		return override
	}
	return sev
}

// ClassifyAll classifies a batch of findings, preserving order.
func (c *SeverityClassifier) ClassifyAll(findings []domain.Finding) []domain.ClassifiedFinding {
	out := make([]domain.ClassifiedFinding, len(findings))
	for i, f := range findings {
		out[i] = domain.ClassifiedFinding{Finding: f, Severity: c.Classify(f)}
	}
	return out
}
