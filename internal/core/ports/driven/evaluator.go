package driven

import "github.com/custodia-labs/hygiene/internal/core/domain"

// Evaluator is a deterministic detection rule.
// Evaluators hold no mutable state and may run concurrently.
type Evaluator interface {
	// Name identifies the rule in logs and traces.
	Name() string

	// IssueType is the keyspace of every finding this rule produces.
	IssueType() domain.IssueType

	// Requirements declares the records and fields the rule reads.
	Requirements() []domain.SnapshotRequest

	// Evaluate inspects the snapshot and returns its findings.
	// Malformed records are skipped; an empty result is success.
	Evaluate(snapshot domain.Snapshot) []domain.Finding
}
