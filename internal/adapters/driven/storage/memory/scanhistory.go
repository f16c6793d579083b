package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// Ensure ScanHistoryStore implements the interface.
var _ driven.ScanHistoryStore = (*ScanHistoryStore)(nil)

// ScanHistoryStore is an in-memory implementation of driven.ScanHistoryStore.
type ScanHistoryStore struct {
	mu   sync.RWMutex
	runs []domain.ScanRun
}

// NewScanHistoryStore creates a new in-memory scan history store.
func NewScanHistoryStore() *ScanHistoryStore {
	return &ScanHistoryStore{}
}

// RecordRun saves a finished run.
func (s *ScanHistoryStore) RecordRun(_ context.Context, run domain.ScanRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	sort.SliceStable(s.runs, func(i, j int) bool {
		return s.runs[i].StartedAt.After(s.runs[j].StartedAt)
	})
	return nil
}

// ListRuns returns recent runs, most recent first.
func (s *ScanHistoryStore) ListRuns(_ context.Context, limit int) ([]domain.ScanRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.runs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.ScanRun, n)
	copy(out, s.runs[:n])
	return out, nil
}

// PruneRuns keeps only the most recent runs.
func (s *ScanHistoryStore) PruneRuns(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep >= 0 && len(s.runs) > keep {
		s.runs = s.runs[:keep]
	}
	return nil
}
