package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// ReconcileOptions tunes how findings map onto closed issues.
type ReconcileOptions struct {
	// ReopenFixed creates a new Open issue for a finding whose key only
	// has Fixed issues. Ignored keys are always suppressed.
	ReopenFixed bool
}

// ReconcileResult holds the writes one scan pass needs.
type ReconcileResult struct {
	ToCreate []domain.Issue
	ToUpdate []domain.SeverityUpdate
}

// IsEmpty reports whether the pass needs no writes.
func (r ReconcileResult) IsEmpty() bool {
	return len(r.ToCreate) == 0 && len(r.ToUpdate) == 0
}

// Reconciler merges findings into the existing ledger state.
// It never closes issues and never touches non-Open issues.
type Reconciler struct {
	opts  ReconcileOptions
	newID func() string
}

// NewReconciler creates a reconciler.
func NewReconciler(opts ReconcileOptions) *Reconciler {
	return &Reconciler{opts: opts, newID: uuid.NewString}
}

type closedState struct {
	fixed   bool
	ignored bool
}

// Reconcile compares findings with the existing issues for their keys.
// existing may hold issues of any status; findings repeated for one key
// collapse to the most severe.
func (r *Reconciler) Reconcile(existing []domain.Issue, findings []domain.ClassifiedFinding, now time.Time) ReconcileResult {
	open := make(map[domain.IssueKey]domain.Issue)
	closed := make(map[domain.IssueKey]closedState)
	for _, issue := range existing {
		key := issue.Key()
		switch issue.Status {
		case domain.StatusOpen:
			if _, dup := open[key]; !dup {
				open[key] = issue
			}
		case domain.StatusFixed:
			st := closed[key]
			st.fixed = true
			closed[key] = st
		case domain.StatusIgnored:
			st := closed[key]
			st.ignored = true
			closed[key] = st
		}
	}

	var result ReconcileResult
	for _, f := range collapse(findings) {
		key := f.Key()
		if issue, ok := open[key]; ok {
			if issue.Severity != f.Severity {
				result.ToUpdate = append(result.ToUpdate, domain.SeverityUpdate{IssueID: issue.ID, Severity: f.Severity})
			}
			continue
		}
		if st, ok := closed[key]; ok {
			if st.ignored || !r.opts.ReopenFixed {
				continue
			}
		}
		result.ToCreate = append(result.ToCreate, domain.Issue{
			ID:          r.newID(),
			RecordID:    f.RecordID,
			ObjectType:  f.ObjectType,
			IssueType:   f.IssueType,
			Severity:    f.Severity,
			Description: f.Description,
			RecordOwner: f.RecordOwner,
			Status:      domain.StatusOpen,
			DetectedAt:  now,
		})
	}
	return result
}

// collapse keeps one finding per key, the most severe, in first-seen order.
func collapse(findings []domain.ClassifiedFinding) []domain.ClassifiedFinding {
	index := make(map[domain.IssueKey]int, len(findings))
	out := make([]domain.ClassifiedFinding, 0, len(findings))
	for _, f := range findings {
		key := f.Key()
		if i, ok := index[key]; ok {
			if f.Severity.Rank() > out[i].Severity.Rank() {
				out[i] = f
			}
			continue
		}
		index[key] = len(out)
		out = append(out, f)
	}
	return out
}
