package cmd

import (
	"github.com/huangsam/sprintcast/core"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on deadline gating for CI/CD pipelines.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a deadline against the forecast (fails when delivery is at risk)",
	Long: `Estimate the probability that the next N items are delivered by --deadline.

The probability is the share of simulated trials whose latest item lands on or before
the deadline. The command exits with a non-zero code when it is below --min-probability.

Default minimum probability: 0.85

Use cases:
- Release planning - confirm a date before committing to it
- Pipeline gates - fail a scheduled job when a milestone slips
- Scope negotiation - compare how many items fit before a date

Examples:
  # Can we ship 60 items by the end of June?
  sprintcast check --deadline 2025-06-30 --forecast-size 60

  # Require a coin flip or better
  sprintcast check --deadline 2025-06-30 --min-probability 0.5`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Deadline check failed", err)
		}
	},
}
