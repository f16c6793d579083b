package mcp

import (
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Scans runs detection and reads scan history.
	Scans driving.ScanOrchestrator

	// Issues reads and triages the issue ledger.
	Issues driving.IssueService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Issues == nil {
		return ErrMissingIssueService
	}
	if p.Scans == nil {
		return ErrMissingScanService
	}
	return nil
}
