// Package cli provides the hygiene command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driving"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired in by main. Commands check for nil before use.
var (
	scanOrchestrator driving.ScanOrchestrator
	issueService     driving.IssueService
	recordImporter   driving.RecordImporter
	scheduler        driving.Scheduler
	schedulerConfig  domain.SchedulerConfig
	configWatcher    func(ctx context.Context) error
)

// verbose enables debug logging for every command.
var verbose bool

// Services holds the driving ports the CLI commands use.
type Services struct {
	ScanOrchestrator driving.ScanOrchestrator
	IssueService     driving.IssueService
	RecordImporter   driving.RecordImporter
	Scheduler        driving.Scheduler
	SchedulerConfig  domain.SchedulerConfig

	// ConfigWatcher is optional. Long-running commands run it in the
	// background so configuration edits apply without a restart.
	ConfigWatcher func(ctx context.Context) error
}

var rootCmd = &cobra.Command{
	Use:   "hygiene",
	Short: "Data-quality detection for CRM records",
	Long: `Hygiene scans Accounts, Contacts, Leads, Opportunities and Cases for
data-quality defects and keeps a ledger of the issues it finds.

Detected issues:
  Duplicate       Accounts sharing a normalised name and phone or website
  InvalidEmail    Contact and Lead emails that are malformed, fake or misspelt
  InvalidPhone    Phone numbers that are too short, fake or malformed
  OrphanedRecord  Contacts, Opportunities and Cases without a valid Account

Run "hygiene scan" to detect issues and "hygiene issues list" to review them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices wires the driving ports into the commands.
func SetServices(s Services) {
	scanOrchestrator = s.ScanOrchestrator
	issueService = s.IssueService
	recordImporter = s.RecordImporter
	scheduler = s.Scheduler
	schedulerConfig = s.SchedulerConfig
	configWatcher = s.ConfigWatcher
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
