package driven

import "context"

// ScanLock serialises scans.
type ScanLock interface {
	// Acquire takes the lock or fails with domain.ErrScanInProgress.
	// The returned release func must be called exactly once.
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}
