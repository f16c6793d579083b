package cli

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
	assert.Contains(t, serveCmd.Long, "schedule.interval")
}

func TestServeCmd_NotConfigured(t *testing.T) {
	setupCLITest(t, Services{})

	err := execute("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler not configured")
}

func TestServeCmd_Disabled(t *testing.T) {
	sched := &mockScheduler{}
	setupCLITest(t, Services{Scheduler: sched, SchedulerConfig: domain.SchedulerConfig{Enabled: false}})

	err := execute("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler is disabled")
	assert.False(t, sched.wasStarted())
}

func TestServeCmd_RunsUntilCancelled(t *testing.T) {
	runServeUntilCancelled(t)
}

func TestServeCmd_CancelReachesServeAfterEarlierRun(t *testing.T) {
	setupCLITest(t, Services{Scheduler: &mockScheduler{}, SchedulerConfig: domain.SchedulerConfig{Enabled: false}})
	require.Error(t, execute("serve"))

	runServeUntilCancelled(t)
}

// runServeUntilCancelled starts serve in the background and checks that
// cancelling its context stops both the scheduler and the config watcher.
func runServeUntilCancelled(t *testing.T) {
	t.Helper()

	sched := &mockScheduler{}
	var watched atomic.Bool
	buf := setupCLITest(t, Services{
		Scheduler:       sched,
		SchedulerConfig: domain.DefaultSchedulerConfig(),
		ConfigWatcher: func(ctx context.Context) error {
			watched.Store(true)
			<-ctx.Done()
			return ctx.Err()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rootCmd.SetArgs([]string{"serve"})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	assert.Eventually(t, func() bool {
		return sched.wasStarted() && watched.Load()
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("serve did not stop after cancel")
	}
	assert.Contains(t, buf.String(), "Scheduler running")
}

func TestServeCmd_SchedulerError(t *testing.T) {
	sched := &mockScheduler{err: errors.New("store closed")}
	setupCLITest(t, Services{Scheduler: sched, SchedulerConfig: domain.DefaultSchedulerConfig()})

	err := execute("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler stopped: store closed")
}
