package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/sprintcast/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []schema.ForecastRunRecord {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	mean := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	lower := mean.Add(-36 * time.Hour)
	upper := mean.Add(36 * time.Hour)
	margin := 1.5
	params := `{"simulations":10000,"forecast_size":100}`

	return []schema.ForecastRunRecord{
		{
			RunID: 1, RunUUID: "8a3e6c1f-6f0e-4a55-9f4c-0b9d2d1a7e11", Team: "Platform",
			StartTime: start, EndTime: &end, RunDurationMs: &duration,
			Simulations: 10000, ForecastSize: 100, ConfidenceLevel: 0.97, Seed: 42,
			MeanDate: &mean, LowerBound: &lower, UpperBound: &upper, MarginDays: &margin,
			ConfigParams: &params,
		},
		{
			// Still running, so every outcome column is null
			RunID: 2, RunUUID: "c2b4d7e0-1f3a-4b8c-8d5e-6f7a8b9c0d1e", Team: "Platform",
			StartTime: start.Add(time.Hour), Simulations: 500, ForecastSize: 20, ConfidenceLevel: 0.9, Seed: 7,
		},
	}
}

func TestForecastRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ForecastRun))
	require.NotNil(t, s)

	expectedColumns := []string{
		"run_id", "run_uuid", "team", "start_time", "end_time", "run_duration_ms",
		"simulations", "forecast_size", "confidence_level", "seed",
		"mean_date", "lower_bound", "upper_bound", "margin_days", "config_params",
	}
	for _, colName := range expectedColumns {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col)
	}
}

func TestRunSprintStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(RunSprint))
	require.NotNil(t, s)

	for _, colName := range []string{"run_id", "sprint_idx", "start_date", "end_date", "throughput", "duration"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteForecastRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "forecast_runs.parquet")
	data := ConvertForecastRunRecords(sampleRuns())

	require.NoError(t, WriteForecastRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[ForecastRun](file)
	defer func() { _ = reader.Close() }()

	readData := make([]ForecastRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].RunUUID, readData[i].RunUUID)
		assert.Equal(t, data[i].Team, readData[i].Team)
		assert.Equal(t, data[i].Seed, readData[i].Seed)
		assert.InDelta(t, data[i].ConfidenceLevel, readData[i].ConfidenceLevel, 1e-12)
		assert.WithinDuration(t, data[i].StartTime, readData[i].StartTime, time.Nanosecond)

		if data[i].MeanDate == nil {
			assert.Nil(t, readData[i].MeanDate)
			assert.Nil(t, readData[i].MarginDays)
			assert.Nil(t, readData[i].ConfigParams)
		} else {
			require.NotNil(t, readData[i].MeanDate)
			assert.WithinDuration(t, *data[i].MeanDate, *readData[i].MeanDate, time.Nanosecond)
			require.NotNil(t, readData[i].MarginDays)
			assert.InDelta(t, *data[i].MarginDays, *readData[i].MarginDays, 1e-12)
			require.NotNil(t, readData[i].ConfigParams)
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWriteRunSprintsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "run_sprints.parquet")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []schema.RunSprintRecord{
		{RunID: 1, SprintIdx: 0, StartDate: start, EndDate: start.AddDate(0, 0, 14), Throughput: 9, Duration: 14},
		{RunID: 1, SprintIdx: 1, StartDate: start.AddDate(0, 0, 14), EndDate: start.AddDate(0, 0, 28), Throughput: 0, Duration: 14},
	}

	require.NoError(t, WriteRunSprintsParquet(ConvertRunSprintRecords(records), outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[RunSprint](file)
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(len(records)), reader.NumRows())

	readData := make([]RunSprint, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(records), n)
	assert.Equal(t, int32(9), readData[0].Throughput)
	assert.Equal(t, int32(1), readData[1].SprintIdx)
	assert.True(t, records[1].EndDate.Equal(readData[1].EndDate))
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteRunSprintsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.Error(t, err)
}

func TestConvertEmpty(t *testing.T) {
	assert.Empty(t, ConvertForecastRunRecords(nil))
	assert.Empty(t, ConvertRunSprintRecords(nil))
}
