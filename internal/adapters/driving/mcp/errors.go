// Package mcp provides an MCP (Model Context Protocol) server adapter for hygiene.
// It lets AI assistants run scans and triage the issue ledger.
package mcp

import "errors"

var (
	// ErrMissingIssueService is returned when the issue service is not provided.
	ErrMissingIssueService = errors.New("mcp: issue service is required")

	// ErrMissingScanService is returned when the scan orchestrator is not provided.
	ErrMissingScanService = errors.New("mcp: scan service is required")
)
