// =============================================================================
// ABN Bulk Lookup - Main Entry Point
// =============================================================================
//
// USAGE:
//   abnlookup lookup <ABN>  - Look up a single ABN
//   abnlookup export        - Look up many ABNs and save them to Excel
//   abnlookup validate      - Check ABNs offline
//   abnlookup form          - Open the interactive form
//   abnlookup version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : ABR client, lookup service, exporter, form
//   - pkg/       : Logging, error kinds and file helpers
//
// =============================================================================

package main

import (
	"github.com/InfinityHack3r/abnBulkLookup/cmd"
)

func main() {
	cmd.Execute()
}
