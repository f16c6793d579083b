package domain

import "time"

// Built-in task IDs.
const (
	TaskIDDataQualityScan = "data-quality-scan"
	TaskIDHistoryPrune    = "history-prune"
)

// TaskDefinition names a task the scheduler knows how to run.
type TaskDefinition struct {
	ID   string
	Name string
}

// BuiltinTasks lists every task the scheduler maintains, in run order.
func BuiltinTasks() []TaskDefinition {
	return []TaskDefinition{
		{ID: TaskIDDataQualityScan, Name: "Data Quality Scan"},
		{ID: TaskIDHistoryPrune, Name: "Scan History Prune"},
	}
}

// IsBuiltinTask reports whether id names a built-in task.
func IsBuiltinTask(id string) bool {
	for _, t := range BuiltinTasks() {
		if t.ID == id {
			return true
		}
	}
	return false
}

// ScheduledTask is the persisted state of one recurring task.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time

	// LastError is empty after a successful run.
	LastError string
}

// IsDue reports whether an enabled task should run at now.
// A task that has never been scheduled is due immediately.
func (t ScheduledTask) IsDue(now time.Time) bool {
	if !t.Enabled {
		return false
	}
	return t.NextRun.IsZero() || !t.NextRun.After(now)
}

// Complete stamps the outcome of a run and schedules the next one.
func (t *ScheduledTask) Complete(started, ended time.Time, err error) {
	t.LastRun = started
	t.NextRun = ended.Add(t.Interval)
	if err != nil {
		t.LastError = err.Error()
		return
	}
	t.LastError = ""
	t.LastSuccess = ended
}

// SchedulerConfig is the scheduler section of ScanSettings.
type SchedulerConfig struct {
	// Enabled is the master switch; hygiene serve refuses to start without it.
	Enabled bool

	TaskConfigs map[string]TaskConfig
}

// TaskConfig configures one task. A zero Interval disables it.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// GetTaskConfig returns the configuration for taskID, or the zero
// TaskConfig when it is not configured.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	if c.TaskConfigs == nil {
		return TaskConfig{}
	}
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig scans daily and prunes scan history every six hours.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDDataQualityScan: {Enabled: true, Interval: 24 * time.Hour},
			TaskIDHistoryPrune:    {Enabled: true, Interval: 6 * time.Hour},
		},
	}
}
