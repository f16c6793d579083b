// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - IssueStore: the issue ledger
//   - RecordSource: Account, Contact, Lead, Opportunity and Case snapshots
//   - ScanHistoryStore: one row per scan run
//   - SchedulerStore: scheduled task state
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The ledger carries a partial unique index on (record_id, issue_type) for Open
// issues, so two Open issues for the same key can never be committed.
//
// # Data Location
//
// By default, the database is stored at ~/.hygiene/data/hygiene.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
