package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// Ensure IssueStore implements the interface.
var _ driven.IssueStore = (*IssueStore)(nil)

// IssueStore is an in-memory implementation of driven.IssueStore.
// Every batch is applied to a copy and swapped in only on success.
type IssueStore struct {
	mu       sync.RWMutex
	issues   map[string]domain.Issue
	maxBatch int
}

// NewIssueStore creates a new in-memory issue store.
func NewIssueStore() *IssueStore {
	return &IssueStore{
		issues: make(map[string]domain.Issue),
	}
}

// SetMaxBatch limits how many writes one batch may carry. Zero means no limit.
func (s *IssueStore) SetMaxBatch(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxBatch = n
}

// CreateIssues inserts a batch of issues atomically.
func (s *IssueStore) CreateIssues(ctx context.Context, issues []domain.Issue) error {
	return s.ApplyBatch(ctx, issues, nil)
}

// UpdateSeverity refreshes the severity of Open issues atomically.
func (s *IssueStore) UpdateSeverity(ctx context.Context, updates []domain.SeverityUpdate) error {
	return s.ApplyBatch(ctx, nil, updates)
}

// ApplyBatch performs creates and severity updates in one step.
func (s *IssueStore) ApplyBatch(_ context.Context, creates []domain.Issue, updates []domain.SeverityUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxBatch > 0 && len(creates)+len(updates) > s.maxBatch {
		return fmt.Errorf("batch of %d writes exceeds limit of %d", len(creates)+len(updates), s.maxBatch)
	}

	next := make(map[string]domain.Issue, len(s.issues)+len(creates))
	openKeys := make(map[domain.IssueKey]string)
	for id, issue := range s.issues {
		next[id] = issue
		if issue.Status == domain.StatusOpen {
			openKeys[issue.Key()] = id
		}
	}

	for _, issue := range creates {
		if issue.ID == "" {
			return fmt.Errorf("creating issue for %s: %w: missing id", issue.RecordID, domain.ErrInvalidInput)
		}
		if _, exists := next[issue.ID]; exists {
			return fmt.Errorf("creating issue %s: duplicate id", issue.ID)
		}
		if issue.Status == domain.StatusOpen {
			if other, exists := openKeys[issue.Key()]; exists {
				return fmt.Errorf("creating issue %s: open issue %s already exists for %s/%s",
					issue.ID, other, issue.RecordID, issue.IssueType)
			}
			openKeys[issue.Key()] = issue.ID
		}
		next[issue.ID] = issue
	}

	for _, u := range updates {
		issue, ok := next[u.IssueID]
		if !ok || issue.Status != domain.StatusOpen {
			continue
		}
		issue.Severity = u.Severity
		next[u.IssueID] = issue
	}

	s.issues = next
	return nil
}

// QueryOpenIssuesByKey returns the Open issues for the given keys.
func (s *IssueStore) QueryOpenIssuesByKey(ctx context.Context, keys []domain.IssueKey) ([]domain.Issue, error) {
	all, err := s.QueryIssuesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}
	open := all[:0]
	for _, issue := range all {
		if issue.Status == domain.StatusOpen {
			open = append(open, issue)
		}
	}
	return open, nil
}

// QueryIssuesByKey returns issues of any status for the given keys.
func (s *IssueStore) QueryIssuesByKey(_ context.Context, keys []domain.IssueKey) ([]domain.Issue, error) {
	want := make(map[domain.IssueKey]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Issue
	for _, issue := range s.issues {
		if want[issue.Key()] {
			out = append(out, issue)
		}
	}
	domain.SortIssues(out)
	return out, nil
}

// GetIssue retrieves an issue by ID.
func (s *IssueStore) GetIssue(_ context.Context, id string) (*domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &issue, nil
}

// ListIssues returns matching issues in display order.
func (s *IssueStore) ListIssues(_ context.Context, filter domain.IssueFilter) ([]domain.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		if filter.Matches(issue) {
			out = append(out, issue)
		}
	}
	domain.SortIssues(out)
	return out, nil
}

// Summary counts every issue.
func (s *IssueStore) Summary(_ context.Context) (domain.IssueSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := domain.NewIssueSummary()
	for _, issue := range s.issues {
		summary.Add(issue)
	}
	return summary, nil
}

// SetStatus moves the issues to Fixed or Ignored atomically.
func (s *IssueStore) SetStatus(_ context.Context, ids []string, status domain.Status, at time.Time) error {
	if !status.IsClosed() {
		return fmt.Errorf("%w: cannot set status %q", domain.ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.issues[id]; !ok {
			return fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
		}
	}
	for _, id := range ids {
		issue := s.issues[id]
		issue.Status = status
		if status == domain.StatusFixed {
			issue.FixedAt = at
		} else {
			issue.FixedAt = time.Time{}
		}
		s.issues[id] = issue
	}
	return nil
}
