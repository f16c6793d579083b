package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs recurring scans and history maintenance.
// It is a pure core service with no external control API.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	scans  driving.ScanOrchestrator
	tick   time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	scans driving.ScanOrchestrator,
) *Scheduler {
	return &Scheduler{
		config: config,
		store:  store,
		scans:  scans,
		tick:   time.Minute,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		log.Printf("scheduler: disabled by configuration")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		log.Printf("scheduler: failed to initialise tasks: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks ensures every built-in task exists in the store and
// removes tasks left behind by IDs this build no longer runs.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for _, t := range domain.BuiltinTasks() {
		if err := s.ensureTask(ctx, t.ID, t.Name, s.config.GetTaskConfig(t.ID)); err != nil {
			return err
		}
	}

	stored, err := s.store.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, t := range stored {
		if domain.IsBuiltinTask(t.ID) {
			continue
		}
		if err := s.store.DeleteTask(ctx, t.ID); err != nil {
			return err
		}
		log.Printf("scheduler: removed stale task %s", t.ID)
	}
	return nil
}

// ensureTask creates or updates a task in the store.
// A task absent from the configuration is stored disabled.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now(),
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}
	if task.Interval <= 0 {
		task.Enabled = false
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		log.Printf("scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		if tasks[i].IsDue(now) {
			s.runTask(ctx, &tasks[i])
		}
	}
}

// runTask executes a single task in the background.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		started := time.Now()
		var err error
		switch task.ID {
		case domain.TaskIDDataQualityScan:
			var written int
			written, err = s.runScan(ctx)
			if err == nil {
				log.Printf("scheduler: %s wrote %d issues", task.ID, written)
			}
		case domain.TaskIDHistoryPrune:
			err = s.runPrune(ctx)
		default:
			log.Printf("scheduler: unknown task ID: %s", task.ID)
			return
		}

		task.Complete(started, time.Now(), err)
		if err != nil {
			log.Printf("scheduler: task %s failed: %v", task.ID, err)
		}

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			log.Printf("scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
	}()
}

// runScan performs one scan pass and returns the number of issues written.
func (s *Scheduler) runScan(ctx context.Context) (int, error) {
	if s.scans == nil {
		return 0, nil
	}
	summary, err := s.scans.RunAllScans(ctx)
	if err != nil {
		return 0, err
	}
	log.Printf("scheduler: %s", summary)
	return summary.Created + summary.Refreshed, nil
}

func (s *Scheduler) runPrune(ctx context.Context) error {
	if s.scans == nil {
		return nil
	}
	return s.scans.PruneHistory(ctx)
}
