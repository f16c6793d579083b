// Package driving declares what the CLI, the MCP server and the scheduler
// may ask of the core: run scans, read and triage issues, import records.
//
// Implementations live in internal/core/services. Adapters depend on these
// interfaces only, so tests substitute hand-written mocks.
package driving
