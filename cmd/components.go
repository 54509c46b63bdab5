package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// componentsCmd guesses logical components from directory names.
var componentsCmd = &cobra.Command{
	Use:   "components [repo-path]",
	Short: "Guess logical components from directory names.",
	Long: `Cluster the paths seen in the change log into logical components based
on their directory names.

Directory segments are tokenized into TF-IDF vectors and clustered with
k-means; each cluster is named after its dominant terms. Clustering is
randomly seeded, so assignments can differ between runs, but paths sharing
identical directories always land in the same component.

Examples:
  # Eight components (the default)
  codemetrics components

  # Fewer, coarser components, ignoring noise terms
  codemetrics components --clusters 4 --stop-words src,lib,internal`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteComponents(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run components report", err)
		}
	},
}
