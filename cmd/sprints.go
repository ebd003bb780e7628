package cmd

import (
	"os"

	"github.com/huangsam/sprintcast/core"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/sprintio"
	"github.com/huangsam/sprintcast/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sprintsSetupWrapper validates the config without opening the cache or history stores.
func sprintsSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadAndValidate()
}

// sprintsCmd focused on maintaining the sprint history file.
var sprintsCmd = &cobra.Command{
	Use:   "sprints",
	Short: "Manage the team's sprint history file",
	Long: `Create, extend and inspect the sprint history that forecasts are built from.

The history is a CSV file: the first row is the team name, the second row is the
header start_date,throughput,duration and every other row is one sprint.
Sprints may not overlap. A sprint covers [start_date, start_date + duration).

Subcommands:
  list - Show the recorded sprints
  add  - Append sprints from flags or interactively
  init - Create a new sprint file interactively

Examples:
  # Start a history for a new team
  sprintcast sprints init

  # Record the sprint that just ended
  sprintcast sprints add --start 2025-03-03 --throughput 9 --duration 14`,
}

// sprintsListCmd prints the sprint history.
var sprintsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show the recorded sprints",
	Args:    cobra.NoArgs,
	PreRunE: sprintsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSprintList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to list sprints", err)
		}
	},
}

// sprintsAddCmd appends sprints to the history.
var sprintsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append sprints to the history",
	Long: `Append one sprint given by flags, or several sprints entered interactively.

Without --start, sprintcast prompts for each sprint until a blank start date is entered.
New sprints are checked against every sprint already in the file, so a sprint recorded
twice or overlapping an earlier one is rejected.

Examples:
  # Add a two week sprint that delivered 9 items
  sprintcast sprints add --start 2025-03-03 --throughput 9

  # Create a file for a new team
  sprintcast sprints add --team Mobile --start 2025-03-03 --throughput 4 --duration 7

  # Enter several sprints interactively
  sprintcast sprints add`,
	Args:    cobra.NoArgs,
	PreRunE: sprintsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		var records []schema.SprintRecord
		if startStr := viper.GetString("start"); startStr != "" {
			start, err := sprintio.ParseDate(startStr)
			if err != nil {
				contract.LogFatal("Invalid --start value", err)
			}
			records = append(records, schema.NewSprintRecord(start, viper.GetInt("throughput"), viper.GetInt("duration")))
		}

		team := viper.GetString("team")
		if err := core.ExecuteSprintAdd(rootCtx, cfg, team, records, os.Stdin, cmd.OutOrStdout()); err != nil {
			contract.LogFatal("Failed to add sprints", err)
		}
	},
}

// sprintsInitCmd creates a new sprint history interactively.
var sprintsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new sprint file interactively",
	Long: `Prompt for a team name and its past sprints, then write a new sprint file.

An existing file is left untouched unless --force is given.

Examples:
  # Create sprints.csv in the current directory
  sprintcast sprints init

  # Create a file per team
  sprintcast sprints init --sprints-file teams/platform.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sprintsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := core.ExecuteSprintInit(rootCtx, cfg, viper.GetBool("force"), os.Stdin, cmd.OutOrStdout()); err != nil {
			contract.LogFatal("Failed to create sprint file", err)
		}
	},
}
