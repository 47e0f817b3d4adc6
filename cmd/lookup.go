// =============================================================================
// ABN Bulk Lookup - Lookup Command
// =============================================================================
//
// COMMAND USAGE:
//   abnlookup lookup <ABN>
//
// The ABN may be given with spaces, either quoted or as separate arguments:
//   abnlookup lookup 51 824 753 556
//
// OUTPUT:
//   One "Field: value" line per record field, or a not-found message.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/InfinityHack3r/abnBulkLookup/internal/lookup"
)

// lookupCmd represents the 'lookup' command.
var lookupCmd = &cobra.Command{
	Use:   "lookup <ABN>",
	Short: "Look up a single ABN",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd, strings.Join(args, ""))
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, abn string) error {
	key, err := apiKey()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	rec, err := newService().Lookup(cmd.Context(), abn, key)
	if err != nil {
		fmt.Fprintln(out, lookup.NotFoundMessage(strings.TrimSpace(abn)))
		return nil
	}

	for _, f := range rec.Fields() {
		fmt.Fprintf(out, "%s: %s\n", f.Name, f.Value)
	}
	return nil
}
