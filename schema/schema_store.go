package schema

import "time"

// CacheStatus holds status information about the result cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus holds status information about the forecast history store.
type HistoryStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalSimulated int64            `json:"total_simulated"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// ForecastRunRecord mirrors a row of the forecast runs table.
type ForecastRunRecord struct {
	RunID           int64
	RunUUID         string
	Team            string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	Simulations     int32
	ForecastSize    int32
	ConfidenceLevel float64
	Seed            int64
	MeanDate        *time.Time
	LowerBound      *time.Time
	UpperBound      *time.Time
	MarginDays      *float64
	ConfigParams    *string
}

// RunSprintRecord mirrors a row of the run sprints table.
type RunSprintRecord struct {
	RunID      int64
	SprintIdx  int32
	StartDate  time.Time
	EndDate    time.Time
	Throughput int32
	Duration   int32
}
