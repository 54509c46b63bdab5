package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// masschangesCmd prints revisions that touched many files at once.
var masschangesCmd = &cobra.Command{
	Use:   "masschanges [repo-path]",
	Short: "Show revisions that touched many files at once.",
	Long: `List revisions whose file count exceeds a threshold, together with
their author and message.

Mass changes are usually mechanical (renames, license headers, formatter
runs) and can drown out the signal in change-frequency reports. Use this
report to find candidates for the --exclude list or a tighter time window.

Examples:
  # Revisions touching more than 10 files (the default)
  codemetrics masschanges

  # Only truly sweeping changes
  codemetrics masschanges --min-changes 50`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMassChanges(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run masschanges report", err)
		}
	},
}
