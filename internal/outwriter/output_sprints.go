package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSprintList outputs a sprint history, dispatching based on the output format configured.
func WriteSprintList(list schema.SprintListOutput, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONSprints(w, list)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSprints(w, list)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSprintTable(w, list, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeSprintTable generates and writes the human-readable table.
func writeSprintTable(w io.Writer, list schema.SprintListOutput, cfg *contract.Config) error {
	team := contract.TruncateText(list.Team, GetMaxTableTextWidth(cfg))
	if len(list.Sprints) == 0 {
		_, err := fmt.Fprintf(w, "No sprints recorded for %s.\n", team)
		return err
	}

	total := 0
	for _, s := range list.Sprints {
		total += s.Throughput
	}
	title := fmt.Sprintf("Sprint history for %s: %d sprints, %s items", team, len(list.Sprints), humanize.Comma(int64(total)))
	if _, err := fmt.Fprintln(w, heading(title, cfg.UseColors)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Start", "End", "Throughput", "Days"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(list.Sprints))
	for i, s := range list.Sprints {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			formatDay(s.StartDate),
			formatDay(s.EndDate()),
			strconv.Itoa(s.Throughput),
			strconv.Itoa(s.Duration),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
