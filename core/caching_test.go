package core

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/sprintcast/internal/iocache"
	"github.com/huangsam/sprintcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateCacheKey(t *testing.T) {
	records := testHistory().Sprints
	params := testParams()
	base := generateCacheKey(forecastKind, records, params, time.Time{})

	assert.Len(t, base, 64)
	assert.Equal(t, base, generateCacheKey(forecastKind, records, params, time.Time{}))

	workers := params
	workers.Workers = 64
	assert.Equal(t, base, generateCacheKey(forecastKind, records, workers, time.Time{}), "worker count does not change results")

	seed := params
	seed.Seed++
	assert.NotEqual(t, base, generateCacheKey(forecastKind, records, seed, time.Time{}))

	size := params
	size.ForecastSize++
	assert.NotEqual(t, base, generateCacheKey(forecastKind, records, size, time.Time{}))

	assert.NotEqual(t, base, generateCacheKey(checkKind, records, params, time.Time{}))
	assert.NotEqual(t, base, generateCacheKey(forecastKind, records[1:], params, time.Time{}))
	assert.NotEqual(t,
		generateCacheKey(checkKind, records, params, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		generateCacheKey(checkKind, records, params, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
}

func TestCachedCompute(t *testing.T) {
	want := schema.SimulationResult{Simulations: 10, Seed: 9}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("nil store computes", func(t *testing.T) {
		calls := 0
		got, err := cachedCompute(nil, "k", func() (schema.SimulationResult, error) {
			calls++
			return want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("hit skips compute", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(data, currentCacheVersion, time.Now().Unix(), nil)

		got, err := cachedCompute(store, "k", func() (schema.SimulationResult, error) {
			t.Fatal("compute should not run on a cache hit")
			return schema.SimulationResult{}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
		store.AssertExpectations(t)
	})

	misses := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
	}{
		{"not found", nil, 0, 0, sql.ErrNoRows},
		{"old version", data, currentCacheVersion - 1, time.Now().Unix(), nil},
		{"stale", data, currentCacheVersion, time.Now().Add(-2 * cacheTTL).Unix(), nil},
		{"corrupt", []byte("{"), currentCacheVersion, time.Now().Unix(), nil},
	}
	for _, tt := range misses {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "k").Return(tt.data, tt.version, tt.ts, tt.err)
			store.On("Set", "k", data, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

			got, err := cachedCompute(store, "k", func() (schema.SimulationResult, error) {
				return want, nil
			})
			require.NoError(t, err)
			assert.Equal(t, want, got)
			store.AssertExpectations(t)
		})
	}

	t.Run("compute error is not stored", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", "k").Return(nil, 0, int64(0), sql.ErrNoRows)

		_, err := cachedCompute(store, "k", func() (schema.SimulationResult, error) {
			return schema.SimulationResult{}, assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
