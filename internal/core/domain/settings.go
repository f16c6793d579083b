package domain

import "time"

// RecordSourceType selects the record source adapter.
type RecordSourceType string

// Record source types.
const (
	RecordSourceSQLite RecordSourceType = "sqlite"
	RecordSourceYAML   RecordSourceType = "yaml"
)

// ScanSettings holds user-configurable scan behaviour.
type ScanSettings struct {
	// RecordLimit caps records fetched per object type.
	RecordLimit int

	// Timeout bounds a whole scan pass.
	Timeout time.Duration

	// ReopenFixed lets a finding create a new Open issue when its key
	// only has Fixed issues. Ignored keys stay suppressed.
	ReopenFixed bool

	// PhoneRegion enables the region validity check when non-empty.
	PhoneRegion string

	// Source selects and configures the record source.
	Source RecordSourceSettings

	// Lock configures cross-process scan serialisation.
	Lock LockSettings

	// SeverityRules are evaluated in order; the first match wins.
	SeverityRules []SeverityRule

	// Scheduler controls background scans.
	Scheduler SchedulerConfig
}

// RecordSourceSettings configures the record source.
type RecordSourceSettings struct {
	Type RecordSourceType

	// Path is the records database (sqlite) or snapshot file (yaml).
	Path string

	// RequestsPerSecond throttles fetches when positive.
	RequestsPerSecond float64
}

// LockSettings configures the scan lock.
type LockSettings struct {
	// RedisAddr enables the Redis lock when non-empty.
	RedisAddr string

	// TTL bounds how long a crashed holder blocks other scans.
	TTL time.Duration
}

// DefaultScanSettings returns sensible defaults.
func DefaultScanSettings() ScanSettings {
	return ScanSettings{
		RecordLimit: MaxRecordsPerType,
		Timeout:     5 * time.Minute,
		Source: RecordSourceSettings{
			Type: RecordSourceSQLite,
		},
		Lock: LockSettings{
			TTL: 10 * time.Minute,
		},
		Scheduler: DefaultSchedulerConfig(),
	}
}
