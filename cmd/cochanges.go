package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// cochangesCmd prints which paths tend to change together.
var cochangesCmd = &cobra.Command{
	Use:   "cochanges [repo-path]",
	Short: "Show pairs of files that tend to change in the same revision.",
	Long: `Count how often pairs of files change in the same revision and derive a
coupling ratio.

Coupling is the number of shared revisions divided by the number of
revisions that touched the primary file, so it falls in [0, 1]; 1.0 means
the secondary changed every single time the primary did. High coupling
between files with no structural relationship usually signals a hidden
dependency.

With --group-components, paths are first clustered into guessed logical
components and coupling is computed between components instead of files.

Examples:
  # Strongly coupled pairs in the last year
  codemetrics cochanges --after "1 year ago" --min-coupling 0.5

  # Component-level coupling
  codemetrics cochanges --group-components --clusters 6

  # Heatmap spec for a notebook
  codemetrics cochanges --output chart --output-file coupling.vl.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCoChanges(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run cochanges report", err)
		}
	},
}
