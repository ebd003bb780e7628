package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/iocache"
	"github.com/huangsam/sprintcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings.
// An empty backend is treated as NoneBackend.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no result cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file") // Used by export command

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on forecast history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by forecasting commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage forecast history tracking and exports",
	Long: `Manage the record of past forecast runs.

When --history-backend is set, sprintcast records every forecast and check run:
- Run metadata (team, timestamp, parameters, duration)
- The forecast outcome (mean date, interval, standard deviation)
- The sprint history the run was computed from

This lets you compare how a team's forecast moved over time and feed it to BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Track forecasts in the default SQLite database
  sprintcast forecast --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  sprintcast history export --history-backend sqlite --output-file forecasts`,
}

// historyClearCmd clears the forecast history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all forecast history",
	Long: `Delete all stored forecast runs and the sprint snapshots recorded with them.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  sprintcast history export --output-file backup
  sprintcast history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := sqlitePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFile, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear forecast history", err)
		}
		fmt.Println("Forecast history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history tracking statistics and connection details",
	Long: `Show detailed information about forecast history tracking.

Displays:
- Backend type and connection status
- Total number of forecast runs stored
- Last and oldest run timestamps
- Total simulated trials across all runs
- Database table sizes

Examples:
  # Check history tracking status
  sprintcast history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports forecast history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export forecast history to Parquet for BI tools and analytics",
	Long: `Export all stored forecast history to Parquet format.

Exports two datasets next to the --output-file prefix:
- <prefix>.forecast_runs.parquet - one row per forecast run
- <prefix>.run_sprints.parquet - the sprints each run was computed from

Requires: --output-file parameter

Examples:
  # Export all data
  sprintcast history export --output-file sprintcast

  # Use with DuckDB for analysis
  duckdb -c "SELECT team, mean_date FROM read_parquet('sprintcast.forecast_runs.parquet')"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export forecast history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the forecast history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  sprintcast history migrate --history-backend postgresql

  # Migrate to specific version
  sprintcast history migrate --history-backend sqlite --target-version 2

  # Rollback everything
  sprintcast history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		current, err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Printf("Forecast history schema is at version %d.\n", current)
	},
}
