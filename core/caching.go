package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
)

// currentCacheVersion defines the version of the cache schema.
const currentCacheVersion = 1

// cacheTTL bounds how long a cached result is served.
const cacheTTL = 30 * 24 * time.Hour

// cacheKeyInput is everything a seeded simulation result depends on.
// Workers is left out because it does not change the result.
type cacheKeyInput struct {
	Kind            string                `json:"kind"`
	Sprints         []schema.SprintRecord `json:"sprints"`
	Simulations     int                   `json:"simulations"`
	ForecastSize    int                   `json:"forecast_size"`
	ConfidenceLevel float64               `json:"confidence_level"`
	MinSprints      int                   `json:"min_sprints"`
	Seed            uint64                `json:"seed"`
	Deadline        string                `json:"deadline,omitempty"`
}

// generateCacheKey creates a unique key based on the sprint history and forecast parameters.
func generateCacheKey(kind string, records []schema.SprintRecord, params schema.ForecastParams, deadline time.Time) string {
	input := cacheKeyInput{
		Kind:            kind,
		Sprints:         records,
		Simulations:     params.Simulations,
		ForecastSize:    params.ForecastSize,
		ConfidenceLevel: params.ConfidenceLevel,
		MinSprints:      params.MinSprints,
		Seed:            params.Seed,
	}
	if !deadline.IsZero() {
		input.Deadline = deadline.Format(schema.DateLayout)
	}
	data, err := json.Marshal(input)
	if err != nil {
		// A NaN confidence level cannot be marshaled
		data = fmt.Appendf(nil, "%+v", input)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// cachedCompute returns the cached value for key when it is fresh, otherwise it
// computes and stores it. A nil store always computes.
func cachedCompute[T any](store contract.CacheStore, key string, compute func() (T, error)) (T, error) {
	if store == nil {
		return compute()
	}

	if result, ok := checkCacheHit[T](store, key); ok {
		return result, nil
	}

	result, err := compute()
	if err != nil {
		return result, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to store forecast in cache", err)
		}
	}
	return result, nil
}

// checkCacheHit attempts to retrieve and validate a cached result.
func checkCacheHit[T any](store contract.CacheStore, key string) (T, bool) {
	var result T
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}
