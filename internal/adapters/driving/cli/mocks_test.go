package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
)

// mockScanOrchestrator implements driving.ScanOrchestrator for testing.
type mockScanOrchestrator struct {
	summary *domain.RunSummary
	runs    []domain.ScanRun
	err     error

	gotLimit int
}

func (m *mockScanOrchestrator) RunAllScans(_ context.Context) (*domain.RunSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockScanOrchestrator) History(_ context.Context, limit int) ([]domain.ScanRun, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

func (m *mockScanOrchestrator) PruneHistory(_ context.Context) error {
	return m.err
}

// mockIssueService implements driving.IssueService for testing.
type mockIssueService struct {
	issues  []domain.Issue
	summary domain.IssueSummary
	err     error

	gotIDs    []string
	gotStatus domain.Status
	gotFormat string
	gotFilter domain.IssueFilter
}

func (m *mockIssueService) GetAllIssues(_ context.Context) ([]domain.Issue, error) {
	return m.issues, m.err
}

func (m *mockIssueService) GetIssuesByType(_ context.Context, issueType string) ([]domain.Issue, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, err := domain.ParseIssueType(issueType); err != nil {
		return nil, err
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
	return nil, fmt.Errorf("issue %s: %w", id, domain.ErrNotFound)
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

func (m *mockIssueService) Export(_ context.Context, format string, filter domain.IssueFilter, w io.Writer) error {
	m.gotFormat = format
	m.gotFilter = filter
	if m.err != nil {
		return m.err
	}
	if format != "csv" && format != "json" {
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
	_, err := fmt.Fprintf(w, "%s export of %d issues\n", format, len(m.issues))
	return err
}

func (m *mockIssueService) ExportFormats() []string {
	return []string{"csv", "json"}
}

// mockRecordImporter implements driving.RecordImporter for testing.
type mockRecordImporter struct {
	counts  map[domain.ObjectType]int
	err     error
	gotPath string
}

func (m *mockRecordImporter) Import(_ context.Context, path string) (map[domain.ObjectType]int, error) {
	m.gotPath = path
	return m.counts, m.err
}

// mockScheduler implements driving.Scheduler for testing.
// Start blocks until the context is cancelled.
type mockScheduler struct {
	mu      sync.Mutex
	started bool
	err     error
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	return nil
}

func (m *mockScheduler) wasStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

var (
	_ driving.ScanOrchestrator = (*mockScanOrchestrator)(nil)
	_ driving.IssueService     = (*mockIssueService)(nil)
	_ driving.RecordImporter   = (*mockRecordImporter)(nil)
	_ driving.Scheduler        = (*mockScheduler)(nil)
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
			ID: "iss-3", RecordID: "00QA", ObjectType: domain.ObjectLead,
			IssueType: domain.IssueInvalidPhone, Severity: domain.SeverityLow, Status: domain.StatusOpen,
			Description: "Phone number is too short", DetectedAt: fixtureTime,
		},
	}
}

// setupCLITest swaps the package services for the given mocks and resets
// flag state left over from earlier commands.
func setupCLITest(t *testing.T, s Services) *bytes.Buffer {
	t.Helper()

	old := Services{
		ScanOrchestrator: scanOrchestrator,
		IssueService:     issueService,
		RecordImporter:   recordImporter,
		Scheduler:        scheduler,
		SchedulerConfig:  schedulerConfig,
		ConfigWatcher:    configWatcher,
	}
	SetServices(s)

	issuesType, issuesStatus, issuesJSON = "", "", false
	exportFormat, exportType, exportOutput = "csv", "", ""
	historyLimit = 10
	versionShort = false
	resetContexts(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(io.Discard)

	t.Cleanup(func() {
		SetServices(old)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetContexts(rootCmd)
	})
	return buf
}

// resetContexts clears the context cobra stored on every command during
// an earlier run. A subcommand inherits the root's context only while its
// own is nil.
func resetContexts(cmd *cobra.Command) {
	cmd.SetContext(nil) //nolint:staticcheck // nil is what cobra checks for
	for _, sub := range cmd.Commands() {
		resetContexts(sub)
	}
}

// execute runs the root command with args.
func execute(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}
