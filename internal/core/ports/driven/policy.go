package driven

import "github.com/custodia-labs/hygiene/internal/core/domain"

// SeverityPolicy applies global severity overrides without touching rules.
type SeverityPolicy interface {
	// Override returns the policy severity for the finding, given the
	// severity proposed by its rule. ok is false when no rule matches.
	Override(f domain.Finding, proposed domain.Severity) (sev domain.Severity, ok bool)
}
