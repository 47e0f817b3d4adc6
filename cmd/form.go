package cmd

import (
	"github.com/spf13/cobra"

	"github.com/InfinityHack3r/abnBulkLookup/internal/form"
)

// formCmd represents the 'form' command.
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive lookup form",
	Long: `Open a terminal form for single lookups and batch exports.

The API key field is pre-filled from --api-key or ABN_API_KEY. Logs are
written to the configured form log file while the form owns the screen.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(cfg.FormLogFile); err != nil {
			return err
		}
		return form.Run(cmd.Context(), newService(), newExporter(), cfg.APIKey)
	},
}

func init() {
	rootCmd.AddCommand(formCmd)
}
