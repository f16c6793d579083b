package driving

import "context"

// Scheduler runs the recurring scan and history-prune tasks.
type Scheduler interface {
	// Start blocks until ctx is cancelled or Stop is called.
	// It returns nil immediately when the scheduler is disabled.
	Start(ctx context.Context) error

	// Stop waits for in-flight tasks to finish.
	Stop() error
}
