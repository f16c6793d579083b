package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
)

// Ensure ScanLock implements the interface.
var _ driven.ScanLock = (*ScanLock)(nil)

// ScanLock serialises scans within one process.
type ScanLock struct {
	mu sync.Mutex
}

// NewScanLock creates a new in-process scan lock.
func NewScanLock() *ScanLock {
	return &ScanLock{}
}

// Acquire takes the lock without waiting.
func (l *ScanLock) Acquire(_ context.Context) (func(context.Context) error, error) {
	if !l.mu.TryLock() {
		return nil, domain.ErrScanInProgress
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(l.mu.Unlock)
		return nil
	}, nil
}
