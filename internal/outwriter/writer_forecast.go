package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/sprintcast/schema"
)

// forecastCSVHeader lists the columns of a forecast in CSV output.
var forecastCSVHeader = []string{
	"team",
	"mean_delivery_date",
	"lower_bound",
	"upper_bound",
	"confidence_level",
	"z_score",
	"std_dev_days",
	"margin_of_error_days",
	"simulations",
	"forecast_size",
	"sprint_count",
	"item_count",
	"seed",
}

// writeJSONForecast marshals the forecast to JSON and writes it.
func writeJSONForecast(w io.Writer, result schema.ForecastOutput) error {
	return writeJSON(w, result)
}

// writeCSVForecast writes the forecast as a header and a single data row.
func writeCSVForecast(w io.Writer, result schema.ForecastOutput, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, forecastCSVHeader, func(cw *csv.Writer) error {
		return cw.Write(forecastCSVRow(result.Team, result.SimulationResult, fmtFloat))
	})
}

func forecastCSVRow(team string, r schema.SimulationResult, fmtFloat func(float64) string) []string {
	return []string{
		team,
		formatInstant(r.MeanDeliveryDate),
		formatInstant(r.LowerBound),
		formatInstant(r.UpperBound),
		fmtFloat(r.ConfidenceLevel),
		fmtFloat(r.ZScore),
		fmtFloat(r.StdDevDays),
		fmtFloat(r.MarginOfErrorDays),
		strconv.Itoa(r.Simulations),
		strconv.Itoa(r.ForecastSize),
		strconv.Itoa(r.SprintCount),
		strconv.Itoa(r.ItemCount),
		strconv.FormatUint(r.Seed, 10),
	}
}
