package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// Ensure RecordSource implements the interface.
var _ driven.RecordSource = (*RecordSource)(nil)

// RecordSource is an in-memory implementation of driven.RecordSource.
type RecordSource struct {
	mu      sync.RWMutex
	records map[domain.ObjectType][]domain.SourceRecord
	err     error
	fetches map[domain.ObjectType]int
}

// NewRecordSource creates a new in-memory record source.
func NewRecordSource(records ...domain.SourceRecord) *RecordSource {
	s := &RecordSource{
		records: make(map[domain.ObjectType][]domain.SourceRecord),
		fetches: make(map[domain.ObjectType]int),
	}
	s.Put(records...)
	return s
}

// Put adds or replaces records by ID.
func (s *RecordSource) Put(records ...domain.SourceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		list := s.records[r.ObjectType]
		replaced := false
		for i := range list {
			if list[i].ID == r.ID {
				list[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, r)
		}
		s.records[r.ObjectType] = list
	}
}

// Remove deletes a record.
func (s *RecordSource) Remove(objectType domain.ObjectType, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.records[objectType]
	for i := range list {
		if list[i].ID == id {
			s.records[objectType] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// SetError makes every subsequent Fetch fail with err. nil clears it.
func (s *RecordSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Fetches returns how many times the object type was fetched.
func (s *RecordSource) Fetches(objectType domain.ObjectType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetches[objectType]
}

// Fetch returns a projected copy of at most limit records.
func (s *RecordSource) Fetch(ctx context.Context, objectType domain.ObjectType, fields domain.FieldSet, limit int) ([]domain.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[objectType]++
	if s.err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, s.err)
	}

	list := s.records[objectType]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]domain.SourceRecord, len(list))
	for i, r := range list {
		out[i] = r.Project(fields)
	}
	return out, nil
}
