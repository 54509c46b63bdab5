package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// locCmd prints per-file line counts from cloc.
var locCmd = &cobra.Command{
	Use:   "loc [repo-path]",
	Short: "Show per-file line counts (code, comment, blank).",
	Long: `Run cloc over the working copy and show its per-file report, largest
files first.

Requires the cloc executable (https://github.com/AlDanial/cloc). The raw
cloc invocation is cached, so repeated runs against an unchanged working
copy are cheap.

Examples:
  # Largest files in the current repository
  codemetrics loc

  # Counts for one subdirectory, as JSON
  codemetrics loc ./internal --output json

  # Use a specific cloc binary
  codemetrics loc --cloc-bin /opt/cloc/cloc`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLoc(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run loc report", err)
		}
	},
}
