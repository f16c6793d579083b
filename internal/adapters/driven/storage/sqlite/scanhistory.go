package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// scanHistoryStore implements driven.ScanHistoryStore.
type scanHistoryStore struct {
	store *Store
}

var _ driven.ScanHistoryStore = (*scanHistoryStore)(nil)

// RecordRun saves a finished run.
func (s *scanHistoryStore) RecordRun(ctx context.Context, run domain.ScanRun) error {
	if run.ID == "" {
		return fmt.Errorf("%w: scan run without id", domain.ErrInvalidInput)
	}
	perType, err := json.Marshal(run.PerType)
	if err != nil {
		return fmt.Errorf("marshalling per-type counts: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO scan_runs (id, started_at, finished_at, created, refreshed, findings, per_type, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Created, run.Refreshed, run.Findings, string(perType), nullString(run.Error))
	if err != nil {
		return fmt.Errorf("recording scan run: %w", err)
	}
	return nil
}

// ListRuns returns recent runs, most recent first.
func (s *scanHistoryStore) ListRuns(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, created, refreshed, findings, per_type, error
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scan runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ScanRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.ScanRun
		var startedAt, finishedAt, perType string
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Created, &run.Refreshed,
			&run.Findings, &perType, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning scan run: %w", err)
		}
		run.StartedAt = parseTime(startedAt)
		run.FinishedAt = parseTime(finishedAt)
		run.Error = errMsg.String
		if perType != "" && perType != "null" {
			if err := json.Unmarshal([]byte(perType), &run.PerType); err != nil {
				return nil, fmt.Errorf("unmarshalling per-type counts: %w", err)
			}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan runs: %w", err)
	}
	return runs, nil
}

// PruneRuns keeps only the most recent 'keep' runs.
func (s *scanHistoryStore) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM scan_runs
		WHERE id NOT IN (
			SELECT id FROM scan_runs ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning scan runs: %w", err)
	}
	return nil
}
