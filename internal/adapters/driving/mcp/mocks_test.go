package mcp

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
)

// mockScanOrchestrator is a mock implementation of driving.ScanOrchestrator.
type mockScanOrchestrator struct {
	summary *domain.RunSummary
	runs    []domain.ScanRun
	err     error

	scans      int
	historyLim int
}

func (m *mockScanOrchestrator) RunAllScans(_ context.Context) (*domain.RunSummary, error) {
	m.scans++
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockScanOrchestrator) History(_ context.Context, limit int) ([]domain.ScanRun, error) {
	m.historyLim = limit
	return m.runs, m.err
}

func (m *mockScanOrchestrator) PruneHistory(_ context.Context) error {
	return m.err
}

// mockIssueService is a mock implementation of driving.IssueService.
type mockIssueService struct {
	issues  []domain.Issue
	summary domain.IssueSummary
	err     error

	gotType   string
	gotIDs    []string
	gotStatus domain.Status
}

func (m *mockIssueService) GetAllIssues(_ context.Context) ([]domain.Issue, error) {
	return m.issues, m.err
}

func (m *mockIssueService) GetIssuesByType(_ context.Context, issueType string) ([]domain.Issue, error) {
	m.gotType = issueType
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Issue
	for i := range m.issues {
		if string(m.issues[i].IssueType) == issueType {
			out = append(out, m.issues[i])
		}
	}
	return out, nil
}

func (m *mockIssueService) GetIssue(_ context.Context, id string) (*domain.Issue, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.issues {
		if m.issues[i].ID == id {
			issue := m.issues[i]
			return &issue, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockIssueService) GetIssuesSummary(_ context.Context) (domain.IssueSummary, error) {
	return m.summary, m.err
}

func (m *mockIssueService) SetStatus(ctx context.Context, id string, status domain.Status) error {
	return m.BulkSetStatus(ctx, []string{id}, status)
}

func (m *mockIssueService) BulkSetStatus(_ context.Context, ids []string, status domain.Status) error {
	m.gotIDs = ids
	m.gotStatus = status
	return m.err
}

func (m *mockIssueService) Export(_ context.Context, _ string, _ domain.IssueFilter, _ io.Writer) error {
	return m.err
}

func (m *mockIssueService) ExportFormats() []string {
	return []string{"csv", "json", "xlsx"}
}

var (
	_ driving.ScanOrchestrator = (*mockScanOrchestrator)(nil)
	_ driving.IssueService     = (*mockIssueService)(nil)
)

var fixtureTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func fixtureIssues() []domain.Issue {
	return []domain.Issue{
		{
			ID: "iss-1", RecordID: "003A", ObjectType: domain.ObjectContact,
			IssueType: domain.IssueInvalidEmail, Severity: domain.SeverityHigh, Status: domain.StatusOpen,
			Description: "Email has a likely typo in the domain", RecordOwner: "Dana", DetectedAt: fixtureTime,
		},
		{
			ID: "iss-2", RecordID: "001A", ObjectType: domain.ObjectAccount,
			IssueType: domain.IssueDuplicate, Severity: domain.SeverityMedium, Status: domain.StatusFixed,
			Description: "Possible duplicate of 001B", DetectedAt: fixtureTime, FixedAt: fixtureTime.Add(time.Hour),
		},
		{
			ID: "iss-3", RecordID: "006A", ObjectType: domain.ObjectOpportunity,
			IssueType: domain.IssueOrphanedRecord, Severity: domain.SeverityMedium, Status: domain.StatusOpen,
			Description: "Opportunity has no valid Account", DetectedAt: fixtureTime,
		},
	}
}

func newTestServer(t *testing.T, scans *mockScanOrchestrator, issues *mockIssueService) *Server {
	t.Helper()
	if scans == nil {
		scans = &mockScanOrchestrator{}
	}
	if issues == nil {
		issues = &mockIssueService{}
	}
	server, err := NewServer(&Ports{Scans: scans, Issues: issues})
	require.NoError(t, err)
	return server
}
