package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Verdicts shown for a deadline check.
const (
	passVerdict = "PASS"
	failVerdict = "FAIL"
)

// WriteCheckResult outputs a deadline check, dispatching based on the output format configured.
func WriteCheckResult(result schema.CheckOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONCheck(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCheck(w, result, createFormatter(csvPrecision))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

func verdict(passed bool) string {
	if passed {
		return passVerdict
	}
	return failVerdict
}

// writeCheckTable generates and writes the human-readable table.
func writeCheckTable(w io.Writer, result schema.CheckOutput, cfg *contract.Config, duration time.Duration) error {
	title := fmt.Sprintf("Deadline check for %s", contract.TruncateText(result.Team, GetMaxTableTextWidth(cfg)))
	if _, err := fmt.Fprintln(w, heading(title, cfg.UseColors)); err != nil {
		return err
	}

	fmtFloat := createFormatter(tablePrecision)
	rows := [][]string{
		{"Deadline", formatDay(result.Deadline)},
		{"Probability", formatPercent(result.Probability)},
		{"Required", formatPercent(result.MinProbability)},
		{"Likelihood", likelihoodLabel(result.Probability, cfg.UseColors)},
		{"Verdict", verdict(result.Passed)},
	}
	rows = append(rows, forecastRows(result.Forecast, fmtFloat)...)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Check completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}
