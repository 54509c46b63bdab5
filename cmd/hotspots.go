package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// hotspotsCmd ranks files by combined change frequency and size.
var hotspotsCmd = &cobra.Command{
	Use:   "hotspots [repo-path]",
	Short: "Rank files by combined change frequency and code size.",
	Long: `Join change counts from the log with line counts from cloc and rank
files by a composite score.

Changes and code size are min-max scaled into [0, 1] each; the score is
their sum, so it falls in [0, 2]. Files that are both large and frequently
changed concentrate maintenance effort and defect risk.

By default paths present in only one table are kept with zero fill (outer
join); --join inner drops them instead.

Examples:
  # Top 25 hot spots over the last year
  codemetrics hotspots --after "1 year ago"

  # Only files present in both the log and the cloc report
  codemetrics hotspots --join inner

  # Scatter plot spec for a notebook
  codemetrics hotspots --output chart --output-file hotspots.vl.json

  # Track rankings over time in a runs store
  codemetrics hotspots --runs-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHotSpots(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run hotspots report", err)
		}
	},
}
