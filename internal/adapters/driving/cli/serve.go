package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled scans in the foreground",
	Long: `Runs the scheduler until interrupted. The data-quality scan runs every
schedule.interval and scan history is pruned periodically.

Changes to severity rules in the config file apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}
	if !schedulerConfig.Enabled {
		return errors.New("scheduler is disabled (set schedule.enabled = true)")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	startConfigWatcher(ctx)

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler stopped: %w", err)
	}
	return nil
}

// startConfigWatcher runs the config watcher until ctx is done.
// Watcher errors are reported but never stop the command.
func startConfigWatcher(ctx context.Context) {
	if configWatcher == nil {
		return
	}
	go func() {
		if err := configWatcher(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "config watcher stopped: %v\n", err)
		}
	}()
}
