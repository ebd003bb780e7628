// Package cmd defines the command-line interface for sprintcast.
package cmd

import (
	"fmt"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/sprintio"
	"github.com/huangsam/sprintcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(sprintsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the sprints subcommands to the parent sprints command
	sprintsCmd.AddCommand(sprintsListCmd)
	sprintsCmd.AddCommand(sprintsAddCmd)
	sprintsCmd.AddCommand(sprintsInitCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("sprints-file", "s", contract.DefaultSprintsFile, "Path to the team's sprint history CSV")
	rootCmd.PersistentFlags().IntP("simulations", "n", contract.DefaultSimulations, "Number of Monte Carlo trials")
	rootCmd.PersistentFlags().IntP("forecast-size", "k", contract.DefaultForecastSize, "Number of future items to forecast")
	rootCmd.PersistentFlags().Float64("confidence", contract.DefaultConfidenceLevel, "Confidence level of the interval, strictly between 0 and 1")
	rootCmd.PersistentFlags().Int("min-sprints", contract.DefaultMinSprints, "Minimum number of sprints required to forecast")
	rootCmd.PersistentFlags().String("seed", "", "Seed for reproducible results (random when empty)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Forecast history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for forecast history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().String("deadline", "", "Target delivery date as YYYY-MM-DD")
	checkCmd.Flags().Float64("min-probability", contract.DefaultMinProbability, "Probability required to pass the check, between 0 and 1")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of sprintsAddCmd to Viper
	sprintsAddCmd.Flags().String("team", "", "Team name, required when the sprint file does not exist yet")
	sprintsAddCmd.Flags().String("start", "", "Sprint start date as YYYY-MM-DD (prompts interactively when empty)")
	sprintsAddCmd.Flags().Int("throughput", 0, "Number of items completed in the sprint")
	sprintsAddCmd.Flags().Int("duration", 14, fmt.Sprintf("Sprint length in days (%d-%d)", sprintio.MinDuration, sprintio.MaxDuration))
	if err := viper.BindPFlags(sprintsAddCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sprints add flags", err)
	}

	// Bind all flags of sprintsInitCmd to Viper
	sprintsInitCmd.Flags().Bool("force", false, "Replace an existing sprint file")
	if err := viper.BindPFlags(sprintsInitCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sprints init flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
