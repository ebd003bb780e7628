package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteForecastResult outputs a forecast, dispatching based on the output format configured.
func WriteForecastResult(result schema.ForecastOutput, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONForecast(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVForecast(w, result, createFormatter(csvPrecision))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// forecastRows lists the metric and value pairs shown in the forecast table.
func forecastRows(r schema.SimulationResult, fmtFloat func(float64) string) [][]string {
	return [][]string{
		{"Mean Delivery", formatDay(r.MeanDeliveryDate)},
		{"Lower Bound", formatDay(r.LowerBound)},
		{"Upper Bound", formatDay(r.UpperBound)},
		{"Confidence", formatPercent(r.ConfidenceLevel)},
		{"Z-Score", fmtFloat(r.ZScore)},
		{"Std Dev (days)", fmtFloat(r.StdDevDays)},
		{"Margin (days)", fmtFloat(r.MarginOfErrorDays)},
		{"Forecast Size", humanize.Comma(int64(r.ForecastSize))},
		{"Simulations", humanize.Comma(int64(r.Simulations))},
		{"Sprints", strconv.Itoa(r.SprintCount)},
		{"Items In Log", humanize.Comma(int64(r.ItemCount))},
		{"Seed", strconv.FormatUint(r.Seed, 10)},
	}
}

// writeForecastTable generates and writes the human-readable table.
func writeForecastTable(w io.Writer, result schema.ForecastOutput, cfg *contract.Config, duration time.Duration) error {
	title := fmt.Sprintf("Delivery forecast for %s", contract.TruncateText(result.Team, GetMaxTableTextWidth(cfg)))
	if _, err := fmt.Fprintln(w, heading(title, cfg.UseColors)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	if err := table.Bulk(forecastRows(result.SimulationResult, createFormatter(tablePrecision))); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Forecast completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}
