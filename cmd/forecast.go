package cmd

import (
	"github.com/huangsam/sprintcast/core"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/spf13/cobra"
)

// forecastCmd focused on delivery date forecasting.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast when the next N items will be delivered",
	Long: `Replay the team's sprint history with Monte Carlo simulation to forecast a delivery date.

Every sprint contributes one completion date per item it delivered. Each trial draws
--forecast-size dates from that log with replacement and keeps the latest one. The
mean of those latest dates is the forecast, and --confidence controls the width of the
interval around it.

Results are reproducible with --seed. Seeded runs are cached, so repeating a forecast
with unchanged history and parameters is instant.

Examples:
  # Forecast the next 100 items from sprints.csv
  sprintcast forecast

  # Forecast 40 items at 90% confidence as JSON
  sprintcast forecast --forecast-size 40 --confidence 0.9 --output json

  # Reproducible forecast for a specific team file
  sprintcast forecast --sprints-file teams/mobile.csv --seed 42`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Forecast failed", err)
		}
	},
}
