package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// historyLimit is a flag for the scan history command.
var historyLimit int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a data-quality scan",
	Long: `Runs every detection rule against the record store and reconciles the
findings into the issue ledger.

New findings become Open issues. Findings matching an Open issue refresh its
severity. Issues marked Fixed or Ignored are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scan runs",
	Args:  cobra.NoArgs,
	RunE:  runScanHistory,
}

func init() {
	scanHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show")
	scanCmd.AddCommand(scanHistoryCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	if scanOrchestrator == nil {
		return errors.New("scan service not configured")
	}

	cmd.Println("Scanning records...")

	summary, err := scanOrchestrator.RunAllScans(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	styles := stylesFor(cmd.OutOrStdout())
	cmd.Println(styles.Render(styles.Success, summary.String()))
	return nil
}

func runScanHistory(cmd *cobra.Command, _ []string) error {
	if scanOrchestrator == nil {
		return errors.New("scan service not configured")
	}

	runs, err := scanOrchestrator.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load scan history: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No scans have run yet.")
		return nil
	}

	styles := stylesFor(cmd.OutOrStdout())
	cmd.Println(styles.Render(styles.Title, "Recent scans:"))
	cmd.Println()
	for i := range runs {
		run := runs[i]
		cmd.Printf("  %s  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.ID)
		if run.Succeeded() {
			cmd.Printf("    %s: %d new, %d refreshed, %d findings (%s)\n",
				styles.Render(styles.Success, "ok"), run.Created, run.Refreshed, run.Findings, perType(run.PerType))
		} else {
			cmd.Printf("    %s: %s\n", styles.Render(styles.Error, "failed"), run.Error)
		}
		if !run.FinishedAt.IsZero() {
			cmd.Printf("    Duration: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
		}
	}
	return nil
}

func perType(counts map[domain.IssueType]int) string {
	var parts []string
	for _, t := range domain.AllIssueTypes() {
		if n := counts[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", t, n))
		}
	}
	if len(parts) == 0 {
		return "no findings"
	}
	return strings.Join(parts, ", ")
}
