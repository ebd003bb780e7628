package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/sprintcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(resultTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("miss", func(t *testing.T) {
		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte(`{"a":1}`), 1, 1700000000))
		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte(`{"a":2}`), 2, 1700000100))
		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":2}`), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(1700000100), ts)
	})

	t.Run("status", func(t *testing.T) {
		require.NoError(t, store.Set("k2", []byte("x"), 1, 1600000000))
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(1700000100, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1600000000, 0), status.OldestEntryTime)
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})
}

func TestCacheStoreNone(t *testing.T) {
	store, err := NewCacheStore(resultTable, schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("anything")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Set("anything", []byte("x"), 1, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestCacheStoreRejectsBadInput(t *testing.T) {
	_, err := NewCacheStore("bad; DROP TABLE x", schema.SQLiteBackend, filepath.Join(t.TempDir(), "c.db"))
	assert.Error(t, err)

	_, err = NewCacheStore(resultTable, schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)

	_, err = NewCacheStore(resultTable, schema.MySQLBackend, "not a dsn")
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"$1", "$2", "$3"}, placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, []string{"?", "?"}, placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, []string{"?"}, placeholders(schema.SQLiteBackend, 1))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`forecast_cache`", quoteTableName("forecast_cache", schema.MySQLBackend))
	assert.Equal(t, `"forecast_cache"`, quoteTableName("forecast_cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"forecast_cache"`, quoteTableName("forecast_cache", schema.SQLiteBackend))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/sprintcast")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Equal(t, "sprintcast", mysqlDBName(dsn))
	assert.Empty(t, mysqlDBName("::::"))
}

func TestTimeScanner(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC)

	tests := []struct {
		name  string
		src   any
		valid bool
	}{
		{"native", want.In(time.FixedZone("X", 3600)), true},
		{"string", want.Format(time.RFC3339Nano), true},
		{"bytes", []byte(want.Format(time.RFC3339Nano)), true},
		{"null", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timeScanner
			require.NoError(t, ts.Scan(tt.src))
			assert.Equal(t, tt.valid, ts.Valid)
			if tt.valid {
				assert.True(t, want.Equal(ts.Time))
				assert.Equal(t, time.UTC, ts.Time.Location())
				require.NotNil(t, ts.Ptr())
			} else {
				assert.Nil(t, ts.Ptr())
			}
		})
	}

	var ts timeScanner
	assert.Error(t, ts.Scan(42))
	assert.Error(t, ts.Scan("yesterday"))
}
