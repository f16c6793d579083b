// Package domain defines the core business entities for hygiene.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceRecord: A read-only snapshot of a business record
//   - Finding: A transient detection result produced by a rule
//   - Issue: A persisted, actionable data-quality defect
//   - RunSummary: The outcome of one scan pass
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
