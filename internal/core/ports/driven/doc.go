// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RecordSource: Bounded, field-projected record snapshots
//   - Evaluator: A detection rule over a snapshot
//   - IssueStore: The issue ledger
//   - ScanHistoryStore: Scan run history
//   - SchedulerStore: Scheduled task state
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SeverityPolicy: Global severity overrides. Without it, rule severities stand.
//   - ScanLock: Cross-process scan serialisation. Without it, the ledger's
//     uniqueness constraint alone guards interleaved scans.
//   - IssueExporter: Export formats. Without any, export is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or rule package
package driven
