package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
)

// Decimal places used for float columns.
const (
	tablePrecision = 2
	csvPrecision   = 4
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter creates the float formatter closure used across output types.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// formatPercent renders a probability in [0, 1] as a percentage.
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// formatDay renders an instant as its UTC calendar day.
func formatDay(t time.Time) string {
	return t.UTC().Format(schema.DateLayout)
}

// formatInstant renders an instant with full precision for machine-readable output.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// likelihoodLabel picks the colored or plain label for a probability.
func likelihoodLabel(p float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(p)
	}
	return contract.GetPlainLabel(p)
}

// heading renders a section title above a table.
func heading(text string, useColors bool) string {
	if useColors {
		return contract.HeaderColor.Sprint(text)
	}
	return text
}
