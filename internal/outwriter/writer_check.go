package outwriter

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
)

// checkCSVHeader prefixes the forecast columns with the deadline outcome.
var checkCSVHeader = slices.Concat(
	[]string{"deadline", "probability", "min_probability", "passed", "label"},
	forecastCSVHeader,
)

// writeJSONCheck marshals the deadline check to JSON and writes it.
func writeJSONCheck(w io.Writer, result schema.CheckOutput) error {
	return writeJSON(w, result)
}

// writeCSVCheck writes the deadline check as a header and a single data row.
func writeCSVCheck(w io.Writer, result schema.CheckOutput, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, checkCSVHeader, func(cw *csv.Writer) error {
		row := slices.Concat(
			[]string{
				formatDay(result.Deadline),
				fmtFloat(result.Probability),
				fmtFloat(result.MinProbability),
				strconv.FormatBool(result.Passed),
				contract.GetPlainLabel(result.Probability),
			},
			forecastCSVRow(result.Team, result.Forecast, fmtFloat),
		)
		return cw.Write(row)
	})
}
