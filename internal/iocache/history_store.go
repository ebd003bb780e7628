package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
)

// Table names for forecast history tracking.
const (
	forecastRunsTable = "sprintcast_forecast_runs"
	runSprintsTable   = "sprintcast_run_sprints"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{forecastRunsTable, getCreateForecastRunsQuery(backend)},
		{runSprintsTable, getCreateRunSprintsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateForecastRunsQuery returns the CREATE TABLE query for sprintcast_forecast_runs.
func getCreateForecastRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(forecastRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				team VARCHAR(255) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				simulations INT NOT NULL,
				forecast_size INT NOT NULL,
				confidence_level DOUBLE NOT NULL,
				seed BIGINT NOT NULL,
				mean_date DATETIME(6),
				lower_bound DATETIME(6),
				upper_bound DATETIME(6),
				margin_days DOUBLE,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				team TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				simulations INT NOT NULL,
				forecast_size INT NOT NULL,
				confidence_level DOUBLE PRECISION NOT NULL,
				seed BIGINT NOT NULL,
				mean_date TIMESTAMPTZ,
				lower_bound TIMESTAMPTZ,
				upper_bound TIMESTAMPTZ,
				margin_days DOUBLE PRECISION,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				team TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				simulations INTEGER NOT NULL,
				forecast_size INTEGER NOT NULL,
				confidence_level REAL NOT NULL,
				seed INTEGER NOT NULL,
				mean_date TEXT,
				lower_bound TEXT,
				upper_bound TEXT,
				margin_days REAL,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateRunSprintsQuery returns the CREATE TABLE query for sprintcast_run_sprints.
func getCreateRunSprintsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runSprintsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				sprint_idx INT NOT NULL,
				start_date DATETIME(6) NOT NULL,
				end_date DATETIME(6) NOT NULL,
				throughput INT NOT NULL,
				duration INT NOT NULL,
				PRIMARY KEY (run_id, sprint_idx)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				sprint_idx INT NOT NULL,
				start_date TIMESTAMPTZ NOT NULL,
				end_date TIMESTAMPTZ NOT NULL,
				throughput INT NOT NULL,
				duration INT NOT NULL,
				PRIMARY KEY (run_id, sprint_idx)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				sprint_idx INTEGER NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				throughput INTEGER NOT NULL,
				duration INTEGER NOT NULL,
				PRIMARY KEY (run_id, sprint_idx)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new forecast run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(team string, startTime time.Time, params schema.ForecastParams, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(forecastRunsTable, hs.backend)
	columns := "run_uuid, team, start_time, simulations, forecast_size, confidence_level, seed, config_params"
	values := strings.Join(placeholders(hs.backend, 8), ", ")
	args := []any{
		uuid.NewString(), team, formatTime(startTime, hs.backend),
		params.Simulations, params.ForecastSize, params.ConfidenceLevel, int64(params.Seed), string(configJSON),
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, quotedTableName, columns, values)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedTableName, columns, values)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert forecast run: %w", err)
	}
	return runID, nil
}

// RecordSprints stores the sprint history a run was computed from.
func (hs *HistoryStoreImpl) RecordSprints(runID int64, records []schema.SprintRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(records) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, sprint_idx, start_date, end_date, throughput, duration) VALUES (%s)`,
		quoteTableName(runSprintsTable, hs.backend), strings.Join(placeholders(hs.backend, 6), ", "))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare sprint insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		if _, err := stmt.Exec(runID, i, formatTime(r.StartDate, hs.backend), formatTime(r.EndDate(), hs.backend), r.Throughput, r.Duration); err != nil {
			return fmt.Errorf("failed to insert sprint %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sprints: %w", err)
	}
	return nil
}

// EndRun updates the forecast run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, result schema.SimulationResult) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(forecastRunsTable, hs.backend)
	p := placeholders(hs.backend, 7)

	// First, get the start_time to calculate duration
	var startTime timeScanner
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, p[0])
	if err := hs.db.QueryRow(selectQuery, runID).Scan(&startTime); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime.Time).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, mean_date = %s, lower_bound = %s, upper_bound = %s, margin_days = %s WHERE run_id = %s`,
		quotedTableName, p[0], p[1], p[2], p[3], p[4], p[5], p[6])
	_, err := hs.db.Exec(updateQuery,
		formatTime(endTime, hs.backend), durationMs,
		formatTime(result.MeanDeliveryDate, hs.backend),
		formatTime(result.LowerBound, hs.backend),
		formatTime(result.UpperBound, hs.backend),
		result.MarginOfErrorDays, runID)
	if err != nil {
		return fmt.Errorf("failed to update forecast run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(forecastRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime, oldestRunTime timeScanner

		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime.Time

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime.Time

		simulatedQuery := fmt.Sprintf("SELECT COALESCE(SUM(simulations), 0) FROM %s", runsTable)
		if err := hs.db.QueryRow(simulatedQuery).Scan(&status.TotalSimulated); err != nil {
			return status, fmt.Errorf("failed to get total simulations: %w", err)
		}
	}

	for _, table := range []string{forecastRunsTable, runSprintsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all forecast runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ForecastRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, team, start_time, end_time, run_duration_ms, simulations,
		forecast_size, confidence_level, seed, mean_date, lower_bound, upper_bound, margin_days, config_params
		FROM %s ORDER BY run_id`, quoteTableName(forecastRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ForecastRunRecord
	for rows.Next() {
		var record schema.ForecastRunRecord
		var startTime, endTime, meanDate, lowerBound, upperBound timeScanner
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Team, &startTime, &endTime,
			&record.RunDurationMs, &record.Simulations, &record.ForecastSize, &record.ConfidenceLevel,
			&record.Seed, &meanDate, &lowerBound, &upperBound, &record.MarginDays, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan forecast run: %w", err)
		}
		record.StartTime = startTime.Time
		record.EndTime = endTime.Ptr()
		record.MeanDate = meanDate.Ptr()
		record.LowerBound = lowerBound.Ptr()
		record.UpperBound = upperBound.Ptr()
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecast runs: %w", err)
	}
	return results, nil
}

// GetAllRunSprints retrieves every sprint row recorded for any run.
func (hs *HistoryStoreImpl) GetAllRunSprints() ([]schema.RunSprintRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, sprint_idx, start_date, end_date, throughput, duration
		FROM %s ORDER BY run_id, sprint_idx`, quoteTableName(runSprintsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run sprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunSprintRecord
	for rows.Next() {
		var record schema.RunSprintRecord
		var startDate, endDate timeScanner
		if err := rows.Scan(&record.RunID, &record.SprintIdx, &startDate, &endDate, &record.Throughput, &record.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan run sprint: %w", err)
		}
		record.StartDate = startDate.Time
		record.EndDate = endDate.Time
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run sprints: %w", err)
	}
	return results, nil
}
