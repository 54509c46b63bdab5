package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// agesCmd prints how long ago each file last changed.
var agesCmd = &cobra.Command{
	Use:   "ages [repo-path]",
	Short: "Show days since each file last changed, stalest first.",
	Long: `Compute the elapsed time since each file's last change, in fractional
days, from the change log.

Old, rarely touched files are candidates for deletion or docs; files that
show up here despite being central to the system may hide knowledge risk.

Examples:
  # Stalest files over the whole history
  codemetrics ages

  # Restrict to the last two years
  codemetrics ages --after "2 years ago"

  # Age histogram as a Vega-Lite spec for a notebook
  codemetrics ages --output chart --output-file ages.vl.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAges(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run ages report", err)
		}
	},
}
