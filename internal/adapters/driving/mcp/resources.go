package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for hygiene resources.
	uriScheme = "hygiene://"

	// runsResourceLimit is how many scan runs the runs resource lists.
	runsResourceLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "issues",
		Name:        "issues",
		Description: "All issues in the ledger, ordered by severity",
		MIMEType:    "application/json",
	}, s.handleIssuesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "summary",
		Name:        "summary",
		Description: "Issue counts by severity, type and status",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent scan runs, most recent first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "issues/{issueId}",
		Name:        "issue",
		Description: "A single issue by ID",
		MIMEType:    "application/json",
	}, s.handleIssueResource)
}

// handleIssuesResource returns every issue in the ledger.
func (s *Server) handleIssuesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	issues, err := s.ports.Issues.GetAllIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	out := make([]IssueOutput, len(issues))
	for i := range issues {
		out[i] = toIssueOutput(&issues[i])
	}
	return jsonResource(req.Params.URI, out)
}

// handleSummaryResource returns the ledger summary.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summary, err := s.ports.Issues.GetIssuesSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarising issues: %w", err)
	}
	return jsonResource(req.Params.URI, toSummaryOutput(summary))
}

// handleRunsResource returns recent scan runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.Scans.History(ctx, runsResourceLimit)
	if err != nil {
		return nil, fmt.Errorf("listing scan runs: %w", err)
	}

	type runInfo struct {
		ID         string         `json:"id"`
		StartedAt  string         `json:"started_at"`
		FinishedAt string         `json:"finished_at,omitempty"`
		Created    int            `json:"created"`
		Refreshed  int            `json:"refreshed"`
		Findings   int            `json:"findings"`
		PerType    map[string]int `json:"per_type,omitempty"`
		Error      string         `json:"error,omitempty"`
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		run := runs[i]
		info := runInfo{
			ID:        run.ID,
			StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
			Created:   run.Created,
			Refreshed: run.Refreshed,
			Findings:  run.Findings,
			Error:     run.Error,
		}
		if !run.FinishedAt.IsZero() {
			info.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
		}
		if len(run.PerType) > 0 {
			info.PerType = make(map[string]int, len(run.PerType))
			for t, n := range run.PerType {
				info.PerType[string(t)] = n
			}
		}
		infos[i] = info
	}
	return jsonResource(req.Params.URI, infos)
}

// handleIssueResource returns a single issue.
func (s *Server) handleIssueResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract issueId from URI: hygiene://issues/{issueId}
	id := extractIssueID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	issue, err := s.ports.Issues.GetIssue(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting issue: %w", err)
	}
	return jsonResource(req.Params.URI, toIssueOutput(issue))
}

// jsonResource marshals v as the single content of a resource result.
func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractIssueID extracts the issue ID from a URI like hygiene://issues/{issueId}.
func extractIssueID(uri string) string {
	const prefix = uriScheme + "issues/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
