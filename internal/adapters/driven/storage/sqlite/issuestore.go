package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// keyChunk bounds the number of bound parameters per IN query.
const keyChunk = 500

const issueColumns = `id, record_id, object_type, issue_type, severity, description,
	record_owner, status, detected_at, fixed_at`

// issueOrder sorts by severity descending, then newest first.
const issueOrder = `
	ORDER BY CASE severity WHEN 'High' THEN 3 WHEN 'Medium' THEN 2 WHEN 'Low' THEN 1 ELSE 0 END DESC,
		detected_at DESC, id ASC`

// issueStore implements driven.IssueStore.
type issueStore struct {
	store *Store
}

var _ driven.IssueStore = (*issueStore)(nil)

// CreateIssues inserts a batch of issues atomically.
func (s *issueStore) CreateIssues(ctx context.Context, issues []domain.Issue) error {
	return s.ApplyBatch(ctx, issues, nil)
}

// UpdateSeverity refreshes the severity of Open issues atomically.
func (s *issueStore) UpdateSeverity(ctx context.Context, updates []domain.SeverityUpdate) error {
	return s.ApplyBatch(ctx, nil, updates)
}

// ApplyBatch performs creates and severity updates in one transaction.
// A create that would produce a second Open issue for a key violates
// idx_issues_open_key and rolls the whole batch back.
func (s *issueStore) ApplyBatch(ctx context.Context, creates []domain.Issue, updates []domain.SeverityUpdate) error {
	if len(creates) == 0 && len(updates) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if len(creates) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO issues (`+issueColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, issue := range creates {
			if issue.ID == "" {
				return fmt.Errorf("creating issue for %s: %w: missing id", issue.RecordID, domain.ErrInvalidInput)
			}
			if _, err := stmt.ExecContext(ctx, issue.ID, issue.RecordID, string(issue.ObjectType),
				string(issue.IssueType), string(issue.Severity), issue.Description, issue.RecordOwner,
				string(issue.Status), formatTime(issue.DetectedAt), formatNullableTime(issue.FixedAt)); err != nil {
				return fmt.Errorf("inserting issue %s: %w", issue.ID, err)
			}
		}
	}

	if len(updates) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`UPDATE issues SET severity = ? WHERE id = ? AND status = 'Open'`)
		if err != nil {
			return fmt.Errorf("preparing update: %w", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			if _, err := stmt.ExecContext(ctx, string(u.Severity), u.IssueID); err != nil {
				return fmt.Errorf("updating issue %s: %w", u.IssueID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// QueryOpenIssuesByKey returns the Open issues for the given keys.
func (s *issueStore) QueryOpenIssuesByKey(ctx context.Context, keys []domain.IssueKey) ([]domain.Issue, error) {
	return s.queryByKey(ctx, keys, true)
}

// QueryIssuesByKey returns issues of any status for the given keys.
func (s *issueStore) QueryIssuesByKey(ctx context.Context, keys []domain.IssueKey) ([]domain.Issue, error) {
	return s.queryByKey(ctx, keys, false)
}

func (s *issueStore) queryByKey(ctx context.Context, keys []domain.IssueKey, openOnly bool) ([]domain.Issue, error) {
	want := make(map[domain.IssueKey]bool, len(keys))
	var recordIDs []string
	seen := make(map[string]bool)
	for _, k := range keys {
		want[k] = true
		if !seen[k.RecordID] {
			seen[k.RecordID] = true
			recordIDs = append(recordIDs, k.RecordID)
		}
	}

	var out []domain.Issue
	for start := 0; start < len(recordIDs); start += keyChunk {
		end := min(start+keyChunk, len(recordIDs))
		chunk := recordIDs[start:end]

		query := `SELECT ` + issueColumns + ` FROM issues WHERE record_id IN (` + placeholders(len(chunk)) + `)`
		if openOnly {
			query += ` AND status = 'Open'`
		}
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		issues, err := s.query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for _, issue := range issues {
			if want[issue.Key()] {
				out = append(out, issue)
			}
		}
	}

	domain.SortIssues(out)
	return out, nil
}

// GetIssue retrieves an issue by ID.
func (s *issueStore) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	issue, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// ListIssues returns matching issues in display order.
func (s *issueStore) ListIssues(ctx context.Context, filter domain.IssueFilter) ([]domain.Issue, error) {
	var where []string
	var args []any
	if filter.IssueType != "" {
		where = append(where, "issue_type = ?")
		args = append(args, string(filter.IssueType))
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, string(filter.Severity))
	}

	query := `SELECT ` + issueColumns + ` FROM issues`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return s.query(ctx, query+issueOrder, args...)
}

// Summary counts every issue.
func (s *issueStore) Summary(ctx context.Context) (domain.IssueSummary, error) {
	summary := domain.NewIssueSummary()

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT severity, issue_type, status, COUNT(*)
		FROM issues GROUP BY severity, issue_type, status
	`)
	if err != nil {
		return summary, fmt.Errorf("querying issue summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sev, typ, status string
		var n int
		if err := rows.Scan(&sev, &typ, &status, &n); err != nil {
			return summary, fmt.Errorf("scanning issue summary: %w", err)
		}
		summary.AddCount(domain.Severity(sev), domain.IssueType(typ), domain.Status(status), n)
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("iterating issue summary: %w", err)
	}
	return summary, nil
}

// SetStatus moves the issues to Fixed or Ignored atomically.
func (s *issueStore) SetStatus(ctx context.Context, ids []string, status domain.Status, at time.Time) error {
	if !status.IsClosed() {
		return fmt.Errorf("%w: cannot set status %q", domain.ErrInvalidInput, status)
	}

	var fixedAt interface{}
	if status == domain.StatusFixed {
		fixedAt = formatTime(at)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `UPDATE issues SET status = ?, fixed_at = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, string(status), fixedAt, id)
		if err != nil {
			return fmt.Errorf("updating issue %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating issue %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *issueStore) query(ctx context.Context, query string, args ...any) ([]domain.Issue, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	var issues []domain.Issue //nolint:prealloc // size unknown from query
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return issues, nil
}

func scanIssue(row rowScanner) (*domain.Issue, error) {
	var issue domain.Issue
	var objectType, issueType, severity, status, detectedAt string
	var fixedAt sql.NullString

	if err := row.Scan(&issue.ID, &issue.RecordID, &objectType, &issueType, &severity,
		&issue.Description, &issue.RecordOwner, &status, &detectedAt, &fixedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}

	issue.ObjectType = domain.ObjectType(objectType)
	issue.IssueType = domain.IssueType(issueType)
	issue.Severity = domain.Severity(severity)
	issue.Status = domain.Status(status)
	issue.DetectedAt = parseTime(detectedAt)
	issue.FixedAt = parseNullableTime(fixedAt)
	return &issue, nil
}
