package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// complexityCmd prints per-function cyclomatic complexity for one file.
var complexityCmd = &cobra.Command{
	Use:   "complexity <file>",
	Short: "Show per-function cyclomatic complexity for one file at a revision.",
	Long: `Download one file at a pinned revision and run lizard over it, listing
each function with its cyclomatic complexity, sorted worst first.

Requires the lizard executable (https://github.com/terryyin/lizard). The
content comes from the version control store, not the working tree, so you
can analyze any historical revision.

Examples:
  # Current complexity of a file
  codemetrics complexity core/core.go

  # The same file two hundred commits ago
  codemetrics complexity core/core.go --rev HEAD~200

  # Subversion revision
  codemetrics complexity --scm svn trunk/src/main.c --rev 4517`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteComplexity(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run complexity report", err)
		}
	},
}
