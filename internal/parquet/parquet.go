// Package parquet provides data structures and functions for exporting sprintcast
// forecast history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/sprintcast/schema"
	"github.com/parquet-go/parquet-go"
)

// ForecastRun represents a single forecast run with its parameters and outcome.
// This struct maps to the sprintcast_forecast_runs database table.
type ForecastRun struct {
	// RunID is the unique identifier for this forecast run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// Team is the team whose sprint history was forecast
	Team string `parquet:"team,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Simulations     int32   `parquet:"simulations,snappy"`
	ForecastSize    int32   `parquet:"forecast_size,snappy"`
	ConfidenceLevel float64 `parquet:"confidence_level,snappy"`
	Seed            int64   `parquet:"seed,snappy"`

	// MeanDate, LowerBound and UpperBound are unset for runs that never completed
	MeanDate   *time.Time `parquet:"mean_date,optional,snappy"`
	LowerBound *time.Time `parquet:"lower_bound,optional,snappy"`
	UpperBound *time.Time `parquet:"upper_bound,optional,snappy"`

	// MarginDays is the confidence interval half-width in days (nullable)
	MarginDays *float64 `parquet:"margin_days,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunSprint is one sprint of the history a forecast run was computed from.
// This struct maps to the sprintcast_run_sprints database table.
type RunSprint struct {
	RunID      int64     `parquet:"run_id,snappy"`
	SprintIdx  int32     `parquet:"sprint_idx,snappy"`
	StartDate  time.Time `parquet:"start_date,snappy"`
	EndDate    time.Time `parquet:"end_date,snappy"`
	Throughput int32     `parquet:"throughput,snappy"`
	Duration   int32     `parquet:"duration,snappy"`
}

// WriteForecastRunsParquet writes a slice of ForecastRun structs to a Parquet file.
func WriteForecastRunsParquet(data []ForecastRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunSprintsParquet writes a slice of RunSprint structs to a Parquet file.
func WriteRunSprintsParquet(data []RunSprint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows to outputPath with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertForecastRunRecords converts schema.ForecastRunRecord to ForecastRun for Parquet export.
func ConvertForecastRunRecords(records []schema.ForecastRunRecord) []ForecastRun {
	result := make([]ForecastRun, len(records))
	for i, record := range records {
		result[i] = ForecastRun{
			RunID:           record.RunID,
			RunUUID:         record.RunUUID,
			Team:            record.Team,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			Simulations:     record.Simulations,
			ForecastSize:    record.ForecastSize,
			ConfidenceLevel: record.ConfidenceLevel,
			Seed:            record.Seed,
			MeanDate:        record.MeanDate,
			LowerBound:      record.LowerBound,
			UpperBound:      record.UpperBound,
			MarginDays:      record.MarginDays,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertRunSprintRecords converts schema.RunSprintRecord to RunSprint for Parquet export.
func ConvertRunSprintRecords(records []schema.RunSprintRecord) []RunSprint {
	result := make([]RunSprint, len(records))
	for i, record := range records {
		result[i] = RunSprint(record)
	}
	return result
}
