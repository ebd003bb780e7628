package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/sprintcast/core/algo"
	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/sprintio"
	"github.com/huangsam/sprintcast/schema"
)

// Cache key kinds, so a forecast and a check never share an entry.
const (
	forecastKind = "forecast"
	checkKind    = "check"
)

// ErrDeadlineAtRisk is returned by ExecuteCheck when the deadline is less likely
// to be met than the configured minimum probability.
var ErrDeadlineAtRisk = errors.New("deadline at risk")

// resolveRun copies cfg and fills in a random seed when none was given.
func resolveRun(cfg *contract.Config) (*contract.Config, error) {
	runCfg := cfg.Clone()
	if !runCfg.Seeded {
		seed, err := NewSeed()
		if err != nil {
			return nil, err
		}
		runCfg.Seed = seed
	}
	return runCfg, nil
}

// resultStore returns the cache to use for a run. Unseeded runs are never cached
// because their random seed makes every result unique.
func resultStore(cfg *contract.Config, mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil || !cfg.Seeded {
		return nil
	}
	return mgr.GetResultStore()
}

// GetForecastResult loads the sprint history and forecasts the delivery date of the
// next ForecastSize items. Seeded runs are served from the result cache when possible.
func GetForecastResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.ForecastOutput, error) {
	history, err := sprintio.Load(cfg.SprintsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load sprint history: %w", err)
	}
	return forecastHistory(ctx, cfg, mgr, history)
}

// forecastHistory runs the tracked and cached forecast for an already loaded history.
func forecastHistory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, history *sprintio.History) (*schema.ForecastOutput, error) {
	runCfg, err := resolveRun(cfg)
	if err != nil {
		return nil, err
	}
	params := runCfg.Params()

	started := time.Now()
	key := generateCacheKey(forecastKind, history.Sprints, params, time.Time{})
	result, err := cachedCompute(resultStore(runCfg, mgr), key, func() (schema.SimulationResult, error) {
		return algo.Forecast(ctx, history.Sprints, params)
	})
	if err != nil {
		return nil, err
	}
	trackRun(runCfg, mgr, history, started, result)

	return &schema.ForecastOutput{Team: history.Team, SimulationResult: result}, nil
}

// GetCheckResult forecasts the sprint history and computes the share of trials that
// deliver every item on or before cfg.Deadline.
func GetCheckResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.CheckOutput, error) {
	history, err := sprintio.Load(cfg.SprintsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load sprint history: %w", err)
	}
	return checkHistory(ctx, cfg, mgr, history)
}

// checkHistory runs the tracked and cached deadline check for an already loaded history.
func checkHistory(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, history *sprintio.History) (*schema.CheckOutput, error) {
	if cfg.Deadline.IsZero() {
		return nil, errors.New("--deadline is required")
	}

	runCfg, err := resolveRun(cfg)
	if err != nil {
		return nil, err
	}
	params := runCfg.Params()

	started := time.Now()
	key := generateCacheKey(checkKind, history.Sprints, params, runCfg.Deadline)
	result, err := cachedCompute(resultStore(runCfg, mgr), key, func() (schema.DeadlineResult, error) {
		outcomes, err := algo.Simulate(ctx, history.Sprints, params)
		if err != nil {
			return schema.DeadlineResult{}, err
		}
		forecast, err := outcomes.Summarize()
		if err != nil {
			return schema.DeadlineResult{}, err
		}
		probability := outcomes.ProbabilityBy(runCfg.Deadline)
		return schema.DeadlineResult{
			Deadline:       runCfg.Deadline,
			Probability:    probability,
			MinProbability: runCfg.MinProbability,
			Passed:         probability >= runCfg.MinProbability,
			Forecast:       forecast,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	trackRun(runCfg, mgr, history, started, result.Forecast)

	return &schema.CheckOutput{Team: history.Team, DeadlineResult: result}, nil
}

// trackRun records a completed forecast in the history store, if tracking is enabled.
// Only successful runs are recorded. Tracking failures are logged and never fail the
// forecast itself.
func trackRun(cfg *contract.Config, mgr contract.CacheManager, history *sprintio.History, started time.Time, result schema.SimulationResult) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	runID, err := store.BeginRun(history.Team, started, cfg.Params(), cfg.ParamsMap())
	if err != nil {
		contract.LogWarn("Forecast tracking initialization failed", err)
		return
	}
	if runID <= 0 {
		return
	}
	if err := store.RecordSprints(runID, history.Sprints); err != nil {
		contract.LogWarn("Failed to record sprint history for run", err)
	}
	if err := store.EndRun(runID, time.Now(), result); err != nil {
		contract.LogWarn("Failed to finalize forecast tracking", err)
	}
}
