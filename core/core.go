// Package core has core logic for forecasting delivery dates from sprint history.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/internal/outwriter"
	"github.com/huangsam/sprintcast/schema"
)

// ExecutorFunc defines the function signature for executing the forecasting commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteForecast forecasts the delivery date and prints it.
// It serves as the main entry point for the 'forecast' command.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetForecastResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteForecast(*result, cfg, time.Since(start))
}

// ExecuteCheck checks a deadline against the forecast and prints the outcome.
// It returns ErrDeadlineAtRisk when the probability of meeting the deadline is below
// the configured minimum, so CI pipelines can gate on the exit code.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetCheckResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteCheck(*result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %.1f%% chance of delivering %d items by %s, %.1f%% required",
			ErrDeadlineAtRisk, result.Probability*100, result.Forecast.ForecastSize,
			result.Deadline.Format(schema.DateLayout), result.MinProbability*100)
	}
	return nil
}
