package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// defaultIssueLimit caps list_issues results when no limit is given.
const defaultIssueLimit = 100

// RunScanInput is the input schema for the run_scan tool.
type RunScanInput struct{}

// RunScanOutput is the output schema for the run_scan tool.
type RunScanOutput struct {
	RunID      string         `json:"run_id"`
	Created    int            `json:"created"`
	Refreshed  int            `json:"refreshed"`
	Findings   int            `json:"findings"`
	PerType    map[string]int `json:"per_type"`
	DurationMs int64          `json:"duration_ms"`
	Message    string         `json:"message"`
}

// ListIssuesInput is the input schema for the list_issues tool.
type ListIssuesInput struct {
	IssueType string `json:"issue_type,omitempty" jsonschema:"only return issues of this type: Duplicate, InvalidEmail, InvalidPhone or OrphanedRecord"`
	Status    string `json:"status,omitempty" jsonschema:"only return issues with this status: Open, Fixed or Ignored"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of issues to return (default 100)"`
}

// ListIssuesOutput is the output schema for the list_issues tool.
type ListIssuesOutput struct {
	Issues []IssueOutput `json:"issues"`
	Count  int           `json:"count"`
	Total  int           `json:"total"`
}

// IssueOutput represents a single issue.
type IssueOutput struct {
	ID          string `json:"id"`
	RecordID    string `json:"record_id"`
	ObjectType  string `json:"object_type"`
	IssueType   string `json:"issue_type"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	Description string `json:"description"`
	RecordOwner string `json:"record_owner,omitempty"`
	DetectedAt  string `json:"detected_at"`
	FixedAt     string `json:"fixed_at,omitempty"`
}

// IssueSummaryInput is the input schema for the issue_summary tool.
type IssueSummaryInput struct{}

// IssueSummaryOutput is the output schema for the issue_summary tool.
type IssueSummaryOutput struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByType     map[string]int `json:"by_type"`
	ByStatus   map[string]int `json:"by_status"`
}

// SetIssueStatusInput is the input schema for the set_issue_status tool.
type SetIssueStatusInput struct {
	IDs    []string `json:"ids" jsonschema:"IDs of the issues to update"`
	Status string   `json:"status" jsonschema:"new status: Fixed or Ignored"`
}

// SetIssueStatusOutput is the output schema for the set_issue_status tool.
type SetIssueStatusOutput struct {
	Updated int    `json:"updated"`
	Status  string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_scan",
		Description: "Run every data-quality rule and reconcile the findings into the issue ledger",
	}, s.handleRunScan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_issues",
		Description: "List issues ordered by severity, then newest first",
	}, s.handleListIssues)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "issue_summary",
		Description: "Count issues by severity, type and status",
	}, s.handleIssueSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_issue_status",
		Description: "Mark issues as Fixed or Ignored. Later scans never reopen ignored issues",
	}, s.handleSetIssueStatus)
}

// handleRunScan handles the run_scan tool invocation.
func (s *Server) handleRunScan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RunScanInput,
) (*mcp.CallToolResult, RunScanOutput, error) {
	summary, err := s.ports.Scans.RunAllScans(ctx)
	if err != nil {
		return nil, RunScanOutput{}, err
	}

	perType := make(map[string]int, len(summary.PerType))
	for t, n := range summary.PerType {
		perType[string(t)] = n
	}

	return nil, RunScanOutput{
		RunID:      summary.RunID,
		Created:    summary.Created,
		Refreshed:  summary.Refreshed,
		Findings:   summary.Findings,
		PerType:    perType,
		DurationMs: summary.DurationMs(),
		Message:    summary.String(),
	}, nil
}

// handleListIssues handles the list_issues tool invocation.
func (s *Server) handleListIssues(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListIssuesInput,
) (*mcp.CallToolResult, ListIssuesOutput, error) {
	var status domain.Status
	if input.Status != "" {
		status = domain.Status(input.Status)
		if !status.IsValid() {
			return nil, ListIssuesOutput{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultIssueLimit
	}

	var (
		issues []domain.Issue
		err    error
	)
	if input.IssueType != "" {
		issues, err = s.ports.Issues.GetIssuesByType(ctx, input.IssueType)
	} else {
		issues, err = s.ports.Issues.GetAllIssues(ctx)
	}
	if err != nil {
		return nil, ListIssuesOutput{}, err
	}

	output := ListIssuesOutput{Issues: []IssueOutput{}}
	for i := range issues {
		if status != "" && issues[i].Status != status {
			continue
		}
		output.Total++
		if len(output.Issues) < limit {
			output.Issues = append(output.Issues, toIssueOutput(&issues[i]))
		}
	}
	output.Count = len(output.Issues)

	return nil, output, nil
}

// handleIssueSummary handles the issue_summary tool invocation.
func (s *Server) handleIssueSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IssueSummaryInput,
) (*mcp.CallToolResult, IssueSummaryOutput, error) {
	summary, err := s.ports.Issues.GetIssuesSummary(ctx)
	if err != nil {
		return nil, IssueSummaryOutput{}, err
	}
	return nil, toSummaryOutput(summary), nil
}

// handleSetIssueStatus handles the set_issue_status tool invocation.
func (s *Server) handleSetIssueStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetIssueStatusInput,
) (*mcp.CallToolResult, SetIssueStatusOutput, error) {
	status, err := domain.ParseClosingStatus(input.Status)
	if err != nil {
		return nil, SetIssueStatusOutput{}, err
	}

	if err := s.ports.Issues.BulkSetStatus(ctx, input.IDs, status); err != nil {
		return nil, SetIssueStatusOutput{}, err
	}

	return nil, SetIssueStatusOutput{Updated: len(input.IDs), Status: string(status)}, nil
}

func toIssueOutput(issue *domain.Issue) IssueOutput {
	out := IssueOutput{
		ID:          issue.ID,
		RecordID:    issue.RecordID,
		ObjectType:  string(issue.ObjectType),
		IssueType:   string(issue.IssueType),
		Severity:    string(issue.Severity),
		Status:      string(issue.Status),
		Description: issue.Description,
		RecordOwner: issue.RecordOwner,
		DetectedAt:  issue.DetectedAt.UTC().Format(time.RFC3339),
	}
	if !issue.FixedAt.IsZero() {
		out.FixedAt = issue.FixedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toSummaryOutput(summary domain.IssueSummary) IssueSummaryOutput {
	out := IssueSummaryOutput{
		Total:      summary.Total,
		BySeverity: make(map[string]int, len(summary.BySeverity)),
		ByType:     make(map[string]int, len(summary.ByType)),
		ByStatus:   make(map[string]int, len(summary.ByStatus)),
	}
	for k, v := range summary.BySeverity {
		out.BySeverity[string(k)] = v
	}
	for k, v := range summary.ByType {
		out.ByType[string(k)] = v
	}
	for k, v := range summary.ByStatus {
		out.ByStatus[string(k)] = v
	}
	return out
}
