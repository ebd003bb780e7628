package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/outwriter"
	"github.com/huangsam/sprintcast/internal/sprintio"
	"github.com/huangsam/sprintcast/schema"
)

// ExecuteSprintList prints the sprint history stored in cfg.SprintsFile.
func ExecuteSprintList(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	history, err := sprintio.Load(cfg.SprintsFile)
	if err != nil {
		return fmt.Errorf("cannot load sprint history: %w", err)
	}
	list := schema.SprintListOutput{Team: history.Team, Sprints: history.Sprints}
	return outwriter.NewOutWriter().WriteSprints(list, cfg)
}

// ExecuteSprintAdd appends sprints to cfg.SprintsFile. When records is empty the
// sprints are collected interactively from in, with prompts written to out.
func ExecuteSprintAdd(_ context.Context, cfg *contract.Config, team string, records []schema.SprintRecord, in io.Reader, out io.Writer) error {
	if len(records) == 0 {
		var existing []schema.SprintRecord
		history, err := sprintio.Load(cfg.SprintsFile)
		switch {
		case err == nil:
			existing = history.Sprints
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("cannot load sprint history: %w", err)
		}

		prompter := sprintio.NewPrompter(in, out)
		if team == "" && errors.Is(err, os.ErrNotExist) {
			if team, err = prompter.TeamName(); err != nil {
				return err
			}
		}
		if records, err = prompter.Sprints(existing); err != nil {
			return err
		}
		if len(records) == 0 {
			_, _ = fmt.Fprintln(out, "No sprints added.")
			return nil
		}
	}

	history, err := sprintio.Append(cfg.SprintsFile, team, records...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Added %d sprint(s) to %s. %s now has %d sprints.\n",
		len(records), cfg.SprintsFile, history.Team, len(history.Sprints))
	return err
}

// ExecuteSprintInit interactively creates a new sprint file for a team.
// An existing file is only replaced when overwrite is set.
func ExecuteSprintInit(_ context.Context, cfg *contract.Config, overwrite bool, in io.Reader, out io.Writer) error {
	if _, err := os.Stat(cfg.SprintsFile); err == nil && !overwrite {
		return fmt.Errorf("%s already exists. Use --force to replace it or 'sprints add' to extend it", cfg.SprintsFile)
	}

	prompter := sprintio.NewPrompter(in, out)
	team, err := prompter.TeamName()
	if err != nil {
		return err
	}
	records, err := prompter.Sprints(nil)
	if err != nil {
		return err
	}

	if err := sprintio.Save(cfg.SprintsFile, &sprintio.History{Team: team, Sprints: records}); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Saved %d sprint(s) for %s to %s.\n", len(records), team, cfg.SprintsFile)
	return err
}
