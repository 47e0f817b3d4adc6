// =============================================================================
// ABN Bulk Lookup - Export Command
// =============================================================================
//
// This file defines the 'export' command, the batch entry point. It looks up
// every ABN given and saves the results to an Excel workbook.
//
// COMMAND USAGE:
//   abnlookup export [ABN...] [flags]
//
// FLAGS:
//   --file          : Read ABNs from a .txt, .csv or .xlsx file
//   --output        : Save to this path without prompting
//   --yes           : Accept the suggested file name without prompting
//   --skip-invalid  : Drop ABNs that fail the check digit test before lookup
//
// ABN SOURCES (first match wins):
//   1. Positional arguments
//   2. --file
//   3. Standard input, one ABN per line
//
// PROCESSING PIPELINE:
//   1. Collect ABNs
//   2. Look them up concurrently, reporting progress in input order
//   3. Choose a destination (flag, suggestion or prompt)
//   4. Write the details workbook and the missing-ABN workbook
//   5. Print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/InfinityHack3r/abnBulkLookup/internal/abninput"
	"github.com/InfinityHack3r/abnBulkLookup/internal/export"
	"github.com/InfinityHack3r/abnBulkLookup/internal/validation"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// inputFile is a file of ABNs to process.
var inputFile string

// outputPath is the export destination. Empty means prompt.
var outputPath string

// assumeYes accepts the suggested destination.
var assumeYes bool

// skipInvalid drops ABNs that fail validation before lookup.
var skipInvalid bool

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export [ABN...]",
	Short: "Look up many ABNs and save them to Excel",
	Long: `The export command looks up every ABN given on the command line, in a
file, or on standard input, and writes the results to an Excel workbook.

ABNs that could not be retrieved are listed in a second workbook next to the
first, named with the configured missing suffix.

One failed ABN never stops the batch.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read ABNs from a .txt, .csv or .xlsx file")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save to this path without prompting")
	exportCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Accept the suggested file name without prompting")
	exportCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip ABNs that fail the check digit test")
}

// =============================================================================
// MAIN EXPORT FUNCTION
// =============================================================================

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	key, err := apiKey()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: COLLECT ABNS
	// =========================================================================

	abns, fromStdin, err := collectABNs(cmd.InOrStdin(), args, inputFile)
	if err != nil {
		return err
	}
	if skipInvalid {
		checked := validation.ValidateAll(abns)
		for _, e := range checked.Errors {
			fmt.Fprintf(errOut, "skipping %s\n", e.Error())
		}
		abns = checked.Passed
	}
	if len(abns) == 0 {
		return fmt.Errorf("no ABNs to look up")
	}

	// =========================================================================
	// STEP 2: LOOK UP
	// =========================================================================

	result := newService().Batch(ctx, abns, key, func(done, total int) {
		fmt.Fprintf(errOut, "\r%d/%d ABNs processed", done, total)
		if done == total {
			fmt.Fprintln(errOut)
		}
	})

	// =========================================================================
	// STEP 3: SAVE
	// =========================================================================

	var prompter export.Prompter
	switch {
	case outputPath != "":
		prompter = export.StaticPrompter{Path: outputPath}
	case assumeYes || fromStdin:
		prompter = export.StaticPrompter{}
	default:
		prompter = export.ReaderPrompter{In: cmd.InOrStdin(), Out: out}
	}

	outcome, err := newExporter().Export(ctx, result, prompter)
	if err != nil {
		logger.Error(ctx, "export failed", zap.Error(err))
		return err
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Lookup Complete ===")
	fmt.Fprintf(out, "Total ABNs:      %d\n", result.Stats.Total)
	fmt.Fprintf(out, "Found:           %d\n", result.Stats.Found)
	fmt.Fprintf(out, "Missing:         %d\n", result.Stats.Missing)
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.Elapsed)
	fmt.Fprintln(out)
	fmt.Fprintln(out, outcome.Message)

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// collectABNs gathers ABNs from args, file or stdin, in that order of
// preference. fromStdin reports whether stdin was consumed.
func collectABNs(stdin io.Reader, args []string, file string) (abns []string, fromStdin bool, err error) {
	switch {
	case len(args) > 0:
		return abninput.SplitText(strings.Join(args, "\n")), false, nil
	case file != "":
		abns, err = abninput.ReadFile(file)
		return abns, false, err
	default:
		abns, err = abninput.ReadLines(stdin)
		return abns, true, err
	}
}
