package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
)

// Ensure IssueService implements the interface.
var _ driving.IssueService = (*IssueService)(nil)

// IssueService exposes the issue ledger to the presentation layer.
type IssueService struct {
	store     driven.IssueStore
	exporters map[string]driven.IssueExporter
	now       func() time.Time
}

// NewIssueService creates a new issue service.
func NewIssueService(store driven.IssueStore, exporters ...driven.IssueExporter) *IssueService {
	s := &IssueService{
		store:     store,
		exporters: make(map[string]driven.IssueExporter, len(exporters)),
		now:       time.Now,
	}
	for _, e := range exporters {
		s.exporters[strings.ToLower(e.Format())] = e
	}
	return s
}

// GetAllIssues returns every issue, severity descending then newest first.
func (s *IssueService) GetAllIssues(ctx context.Context) ([]domain.Issue, error) {
	return s.store.ListIssues(ctx, domain.IssueFilter{})
}

// GetIssuesByType returns issues of one type.
func (s *IssueService) GetIssuesByType(ctx context.Context, issueType string) ([]domain.Issue, error) {
	t, err := domain.ParseIssueType(issueType)
	if err != nil {
		return nil, err
	}
	return s.store.ListIssues(ctx, domain.IssueFilter{IssueType: t})
}

// GetIssue returns a single issue.
func (s *IssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: issue id is required", domain.ErrInvalidInput)
	}
	return s.store.GetIssue(ctx, id)
}

// GetIssuesSummary returns total and per-bucket counts.
func (s *IssueService) GetIssuesSummary(ctx context.Context) (domain.IssueSummary, error) {
	return s.store.Summary(ctx)
}

// SetStatus moves one issue to Fixed or Ignored.
func (s *IssueService) SetStatus(ctx context.Context, id string, status domain.Status) error {
	return s.BulkSetStatus(ctx, []string{id}, status)
}

// BulkSetStatus moves many issues to Fixed or Ignored atomically.
// Unknown IDs fail the whole call with domain.ErrNotFound.
func (s *IssueService) BulkSetStatus(ctx context.Context, ids []string, status domain.Status) error {
	if !status.IsClosed() {
		return fmt.Errorf("%w: status must be Fixed or Ignored, got %q", domain.ErrInvalidInput, status)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one issue id is required", domain.ErrInvalidInput)
	}
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%w: empty issue id", domain.ErrInvalidInput)
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return s.store.SetStatus(ctx, unique, status, s.now())
}

// Export writes issues matching the filter in the named format.
func (s *IssueService) Export(ctx context.Context, format string, filter domain.IssueFilter, w io.Writer) error {
	exporter, ok := s.exporters[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("%w: unknown export format %q (available: %s)",
			domain.ErrInvalidInput, format, strings.Join(s.ExportFormats(), ", "))
	}
	if filter.IssueType != "" && !filter.IssueType.IsValid() {
		return fmt.Errorf("%w: unknown issue type %q", domain.ErrInvalidInput, filter.IssueType)
	}
	issues, err := s.store.ListIssues(ctx, filter)
	if err != nil {
		return err
	}
	if err := exporter.Export(w, issues); err != nil {
		return fmt.Errorf("exporting %s: %w", format, err)
	}
	return nil
}

// ExportFormats lists the available export formats, sorted.
func (s *IssueService) ExportFormats() []string {
	formats := make([]string, 0, len(s.exporters))
	for f := range s.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
