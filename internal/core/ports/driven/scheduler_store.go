package driven

import (
	"context"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// SchedulerStore persists task state so a restarted scheduler resumes
// its schedule instead of rescanning immediately.
type SchedulerStore interface {
	// GetTask returns nil and no error for an unknown ID.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask upserts by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// DeleteTask is a no-op for an unknown ID.
	DeleteTask(ctx context.Context, taskID string) error
}
