// =============================================================================
// ABN Bulk Lookup - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   abnlookup validate [ABN...] [--file path] [--log path]
//
// Checks ABNs against the check digit algorithm without contacting the
// register. Exits non-zero when any ABN is invalid.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/InfinityHack3r/abnBulkLookup/internal/validation"
)

// validateLog is where the error report is written, if set.
var validateLog string

// validateFile is a file of ABNs to check.
var validateFile string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [ABN...]",
	Short: "Check ABNs offline using the check digit algorithm",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Read ABNs from a .txt, .csv or .xlsx file")
	validateCmd.Flags().StringVar(&validateLog, "log", "", "Write the error report to this file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	abns, _, err := collectABNs(cmd.InOrStdin(), args, validateFile)
	if err != nil {
		return err
	}

	result := validation.ValidateAll(abns)

	fmt.Fprintf(out, "Checked: %d\n", len(abns))
	fmt.Fprintf(out, "Valid:   %d\n", len(result.Valid))
	fmt.Fprintf(out, "Invalid: %d\n\n", len(result.Errors))
	fmt.Fprint(out, validation.FormatErrors(result.Errors))
	if result.IsValid() {
		fmt.Fprintln(out)
	}

	if validateLog != "" {
		if err := validation.WriteErrorLog(result.Errors, validateLog); err != nil {
			return err
		}
	}

	if !result.IsValid() {
		return fmt.Errorf("found %d invalid ABN(s)", len(result.Errors))
	}
	return nil
}
