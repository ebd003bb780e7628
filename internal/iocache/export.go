package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/parquet"
)

// ExecuteHistoryExport writes the forecast history held by store to Parquet files
// named after outputFile and reports progress on w.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to export runs")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no forecast history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total forecast runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total sprint records: %d\n", status.TableSizes[runSprintsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve forecast runs: %w", err)
	}
	sprints, err := store.GetAllRunSprints()
	if err != nil {
		return fmt.Errorf("failed to retrieve run sprints: %w", err)
	}

	parquetRuns := parquet.ConvertForecastRunRecords(runs)
	runsFile := outputFile + ".forecast_runs.parquet"
	if err := parquet.WriteForecastRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write forecast runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d forecast runs to: %s\n", len(parquetRuns), runsFile)

	parquetSprints := parquet.ConvertRunSprintRecords(sprints)
	sprintsFile := outputFile + ".run_sprints.parquet"
	if err := parquet.WriteRunSprintsParquet(parquetSprints, sprintsFile); err != nil {
		return fmt.Errorf("failed to write run sprints: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d sprint records to: %s\n", len(parquetSprints), sprintsFile)

	return nil
}
