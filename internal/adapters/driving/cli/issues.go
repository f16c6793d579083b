package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

var (
	issuesType   string
	issuesStatus string
	issuesJSON   bool

	exportFormat string
	exportType   string
	exportOutput string
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Review detected issues",
	Long:  `List, inspect, export, fix or ignore issues recorded in the ledger.`,
}

var issuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues by severity",
	Long: `Lists issues ordered by severity (High first), then by detection time
(newest first).`,
	Args: cobra.NoArgs,
	RunE: runIssuesList,
}

var issuesShowCmd = &cobra.Command{
	Use:   "show [issue-id]",
	Short: "Show issue details",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssuesShow,
}

var issuesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show issue counts",
	Args:  cobra.NoArgs,
	RunE:  runIssuesSummary,
}

var issuesFixCmd = &cobra.Command{
	Use:   "fix [issue-id...]",
	Short: "Mark issues as fixed",
	Long: `Marks issues as Fixed. Later scans never reopen a fixed issue unless
scan.reopen_fixed is enabled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setIssueStatus(cmd, args, domain.StatusFixed)
	},
}

var issuesIgnoreCmd = &cobra.Command{
	Use:   "ignore [issue-id...]",
	Short: "Ignore issues",
	Long:  `Marks issues as Ignored. Later scans never reopen an ignored issue.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setIssueStatus(cmd, args, domain.StatusIgnored)
	},
}

var issuesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export issues to a file",
	Long: `Exports issues as CSV, JSON or XLSX.

Examples:
  hygiene issues export --format csv > issues.csv
  hygiene issues export --format xlsx --type Duplicate -o duplicates.xlsx`,
	Args: cobra.NoArgs,
	RunE: runIssuesExport,
}

func init() {
	issuesListCmd.Flags().StringVarP(&issuesType, "type", "t", "", "only show issues of this type")
	issuesListCmd.Flags().StringVarP(&issuesStatus, "status", "s", "", "only show issues with this status")
	issuesListCmd.Flags().BoolVar(&issuesJSON, "json", false, "output issues as JSON")

	issuesExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "export format (csv, json, xlsx)")
	issuesExportCmd.Flags().StringVarP(&exportType, "type", "t", "", "only export issues of this type")
	issuesExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")

	issuesCmd.AddCommand(issuesListCmd)
	issuesCmd.AddCommand(issuesShowCmd)
	issuesCmd.AddCommand(issuesSummaryCmd)
	issuesCmd.AddCommand(issuesFixCmd)
	issuesCmd.AddCommand(issuesIgnoreCmd)
	issuesCmd.AddCommand(issuesExportCmd)
	rootCmd.AddCommand(issuesCmd)
}

func runIssuesList(cmd *cobra.Command, _ []string) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	var status domain.Status
	if issuesStatus != "" {
		status = domain.Status(issuesStatus)
		if !status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, issuesStatus)
		}
	}

	if issuesJSON {
		filter := domain.IssueFilter{IssueType: domain.IssueType(issuesType), Status: status}
		if err := issueService.Export(cmd.Context(), "json", filter, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to list issues: %w", err)
		}
		return nil
	}

	var (
		issues []domain.Issue
		err    error
	)
	if issuesType != "" {
		issues, err = issueService.GetIssuesByType(cmd.Context(), issuesType)
	} else {
		issues, err = issueService.GetAllIssues(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list issues: %w", err)
	}

	if status != "" {
		filtered := make([]domain.Issue, 0, len(issues))
		for i := range issues {
			if issues[i].Status == status {
				filtered = append(filtered, issues[i])
			}
		}
		issues = filtered
	}

	if len(issues) == 0 {
		cmd.Println("No issues found.")
		return nil
	}

	styles := stylesFor(cmd.OutOrStdout())
	cmd.Println(styles.Render(styles.Title, "Issues:"))
	cmd.Println()
	for i := range issues {
		issue := issues[i]
		cmd.Printf("  [%s] %s on %s %s (%s)\n",
			styles.Severity(issue.Severity), issue.IssueType, issue.ObjectType, issue.RecordID,
			styles.Status(issue.Status))
		cmd.Printf("    %s\n", issue.Description)
		cmd.Printf("    %s\n", styles.Render(styles.Muted, "ID: "+issue.ID))
	}
	cmd.Println()
	cmd.Printf("Total: %d issues\n", len(issues))
	return nil
}

func runIssuesShow(cmd *cobra.Command, args []string) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	issue, err := issueService.GetIssue(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get issue: %w", err)
	}

	styles := stylesFor(cmd.OutOrStdout())
	cmd.Printf("Issue: %s\n\n", issue.ID)
	cmd.Printf("  Type:        %s\n", issue.IssueType)
	cmd.Printf("  Severity:    %s\n", styles.Severity(issue.Severity))
	cmd.Printf("  Status:      %s\n", styles.Status(issue.Status))
	cmd.Printf("  Record:      %s %s\n", issue.ObjectType, issue.RecordID)
	if issue.RecordOwner != "" {
		cmd.Printf("  Owner:       %s\n", issue.RecordOwner)
	}
	cmd.Printf("  Detected:    %s\n", issue.DetectedAt.Local().Format("2006-01-02 15:04:05"))
	if !issue.FixedAt.IsZero() {
		cmd.Printf("  Fixed:       %s\n", issue.FixedAt.Local().Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("\n  %s\n", issue.Description)
	return nil
}

func runIssuesSummary(cmd *cobra.Command, _ []string) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	summary, err := issueService.GetIssuesSummary(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}

	styles := stylesFor(cmd.OutOrStdout())
	cmd.Println(styles.Render(styles.Title, fmt.Sprintf("Total issues: %d", summary.Total)))

	cmd.Println("\nBy severity:")
	for _, sev := range domain.AllSeverities() {
		cmd.Printf("  %s%s %d\n", styles.Severity(sev), padding(string(sev), 16), summary.BySeverity[sev])
	}

	cmd.Println("\nBy type:")
	for _, t := range domain.AllIssueTypes() {
		cmd.Printf("  %s%s %d\n", t, padding(string(t), 16), summary.ByType[t])
	}

	cmd.Println("\nBy status:")
	for _, st := range []domain.Status{domain.StatusOpen, domain.StatusFixed, domain.StatusIgnored} {
		cmd.Printf("  %s%s %d\n", styles.Status(st), padding(string(st), 16), summary.ByStatus[st])
	}
	return nil
}

// padding returns the spaces that align a label of text to width.
func padding(text string, width int) string {
	if len(text) >= width {
		return ""
	}
	return strings.Repeat(" ", width-len(text))
}

func setIssueStatus(cmd *cobra.Command, ids []string, status domain.Status) error {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	if err := issueService.BulkSetStatus(cmd.Context(), ids, status); err != nil {
		return fmt.Errorf("failed to update issues: %w", err)
	}

	noun := "issues"
	if len(ids) == 1 {
		noun = "issue"
	}
	cmd.Printf("Marked %d %s as %s\n", len(ids), noun, status)
	return nil
}

func runIssuesExport(cmd *cobra.Command, _ []string) (err error) {
	if issueService == nil {
		return errors.New("issue service not configured")
	}

	filter := domain.IssueFilter{IssueType: domain.IssueType(exportType)}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, createErr := os.Create(exportOutput)
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", exportOutput, closeErr)
			}
		}()
		w = f
	}

	if err := issueService.Export(cmd.Context(), exportFormat, filter, w); err != nil {
		if exportOutput != "" {
			_ = os.Remove(exportOutput)
		}
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput != "" {
		cmd.Printf("Exported issues to %s\n", exportOutput)
	}
	return nil
}
