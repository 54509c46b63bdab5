package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// logCmd prints the parsed change log table.
var logCmd = &cobra.Command{
	Use:   "log [repo-path]",
	Short: "Show the parsed change log for the configured time window.",
	Long: `Retrieve and parse the version control change log into a flat table.

Each row is one file changed in one revision, with author, date, added and
removed line counts. Binary files carry no counts and show "-". This is the
raw material every other report is derived from, exposed for inspection and
export.

Examples:
  # Last six months of changes
  codemetrics log --after "6 months ago"

  # Export the full history of a subdirectory as CSV
  codemetrics log ./core --output csv --output-file core-log.csv

  # Subversion working copy
  codemetrics log --scm svn ~/work/trunk`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLog(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run log report", err)
		}
	},
}
