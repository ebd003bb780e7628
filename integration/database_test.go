//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestSprintcastWithMySQL tests the sprintcast CLI with a MySQL backend.
func TestSprintcastWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "sprintcast",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/sprintcast", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestSprintcastWithPostgres tests the sprintcast CLI with a PostgreSQL backend.
func TestSprintcastWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}

// exerciseBackend runs the cache and history lifecycle against one database server.
func exerciseBackend(t *testing.T, backend, connStr string) {
	dir := t.TempDir()
	writeSprintFile(t, dir)

	t.Setenv("SPRINTCAST_CACHE_BACKEND", backend)
	t.Setenv("SPRINTCAST_CACHE_DB_CONNECT", connStr)
	t.Setenv("SPRINTCAST_HISTORY_BACKEND", backend)
	t.Setenv("SPRINTCAST_HISTORY_DB_CONNECT", connStr)

	steps := [][]string{
		{"cache", "clear"},
		{"history", "clear"},
		{"history", "migrate"},
		{"history", "migrate", "--target-version", "1"},
		{"history", "migrate"},
		{"forecast", "--seed", "7", "--simulations", "2000"},
		{"forecast", "--seed", "7", "--simulations", "2000"},
		{"check", "--seed", "7", "--deadline", "2030-01-01"},
		{"cache", "status"},
		{"history", "status"},
		{"history", "export", "--output-file", filepath.Join(dir, "export")},
	}
	for _, args := range steps {
		_, err := runSprintcast(t, dir, args...)
		require.NoError(t, err, "sprintcast %v", args)
	}

	for _, suffix := range []string{".forecast_runs.parquet", ".run_sprints.parquet"} {
		info, err := os.Stat(filepath.Join(dir, "export"+suffix))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	status, err := runSprintcast(t, dir, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Total Runs: 3")
}
