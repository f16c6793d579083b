package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Manage scanned records",
}

var recordsImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Import a YAML record snapshot",
	Long: `Loads accounts, contacts, leads, opportunities and cases from a YAML
snapshot into the record database. Records with an existing ID are replaced.

Example snapshot:
  accounts:
    - id: "001"
      name: Acme Corp
      phone: "555-123-4567"
  contacts:
    - id: "003"
      email: jane@acme.com
      account_id: "001"`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordsImport,
}

func init() {
	recordsCmd.AddCommand(recordsImportCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsImport(cmd *cobra.Command, args []string) error {
	if recordImporter == nil {
		return errors.New("record import not configured")
	}

	counts, err := recordImporter.Import(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		cmd.Printf("No records found in %s\n", args[0])
		return nil
	}

	cmd.Printf("Imported %d records from %s\n", total, args[0])
	for _, t := range domain.AllObjectTypes() {
		if n := counts[t]; n > 0 {
			cmd.Printf("  %s: %d\n", t, n)
		}
	}
	return nil
}
