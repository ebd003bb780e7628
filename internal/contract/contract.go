// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/sprintcast/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking forecast runs and the sprints they consumed.
type HistoryStore interface {
	// BeginRun creates a new forecast run and returns its unique ID
	BeginRun(team string, startTime time.Time, params schema.ForecastParams, configParams map[string]any) (int64, error)

	// RecordSprints stores the sprint history a run was computed from
	RecordSprints(runID int64, records []schema.SprintRecord) error

	// EndRun updates the run with the forecast outcome
	EndRun(runID int64, endTime time.Time, result schema.SimulationResult) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ForecastRunRecord, error)

	// GetAllRunSprints returns every recorded sprint row
	GetAllRunSprints() ([]schema.RunSprintRecord, error)

	// Close closes the underlying connection
	Close() error
}
