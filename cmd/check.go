package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantifio/codemetrics/core"
	"github.com/quantifio/codemetrics/internal/contract"
	"github.com/quantifio/codemetrics/internal/iocache"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [repo-path]",
	Short: "Enforce hot-spot and coupling thresholds (fails build on violations)",
	Long: `Compute hot spots and co-change coupling for the window and compare
them against thresholds.

Designed for CI/CD integration - exits non-zero when any hot-spot score
exceeds --max-score or any coupling ratio exceeds --max-coupling, printing
the worst offenders grouped by kind.

Use cases:
- Pull request gates - block merges that worsen known hot spots
- Release validation - verify coupling stayed under control
- Trend enforcement - run on a schedule with a fixed window

Examples:
  # Defaults: score <= 1.5, coupling <= 0.8
  codemetrics check --after "6 months ago"

  # Stricter coupling policy
  codemetrics check --max-coupling 0.6

  # Gate only a subsystem
  codemetrics check ./core --max-score 1.2`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
