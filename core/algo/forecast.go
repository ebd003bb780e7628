package algo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/huangsam/sprintcast/schema"
	"golang.org/x/sync/errgroup"
)

// secondsPerDay converts between unix seconds and day ordinals.
const secondsPerDay = 86400

// cancelCheckInterval is how many trials a worker runs between context checks.
const cancelCheckInterval = 1024

// Outcomes holds the simulated "all K items done" dates of every trial,
// expressed as fractional days since the Unix epoch.
type Outcomes struct {
	Maxima      []float64
	Params      schema.ForecastParams
	SprintCount int
	ItemCount   int
}

// Forecast runs the Monte Carlo simulation over the expanded history of records
// and summarizes the simulated maxima into a mean and confidence interval.
func Forecast(ctx context.Context, records []schema.SprintRecord, params schema.ForecastParams) (schema.SimulationResult, error) {
	outcomes, err := Simulate(ctx, records, params)
	if err != nil {
		return schema.SimulationResult{}, err
	}
	return outcomes.Summarize()
}

// Simulate validates the inputs, expands the records and runs S independent trials.
// Each trial draws K completion dates uniformly with replacement and keeps the latest.
// Trial i always uses a PCG source seeded with (Seed, i), so the outcome does not
// depend on how many workers split the work.
func Simulate(ctx context.Context, records []schema.SprintRecord, params schema.ForecastParams) (*Outcomes, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	required := max(params.MinSprints, MinSprintFloor)
	if len(records) < required {
		return nil, &InsufficientDataError{Sprints: len(records), Required: required}
	}

	log := Expand(records)
	if log.Len() == 0 {
		return nil, &InsufficientDataError{Sprints: len(records), Required: required, Items: 0}
	}

	days := make([]float64, len(log))
	for i, d := range log {
		days[i] = toDays(d)
	}

	maxima, err := runTrials(ctx, days, params)
	if err != nil {
		return nil, err
	}

	return &Outcomes{
		Maxima:      maxima,
		Params:      params,
		SprintCount: len(records),
		ItemCount:   len(log),
	}, nil
}

// ValidateParams checks the numeric ranges of the simulation knobs.
func ValidateParams(params schema.ForecastParams) error {
	if params.Simulations < 1 {
		return fmt.Errorf("%w: simulations must be at least 1, got %d", ErrInvalidParams, params.Simulations)
	}
	if params.ForecastSize < 1 {
		return fmt.Errorf("%w: forecast size must be at least 1, got %d", ErrInvalidParams, params.ForecastSize)
	}
	if _, err := ZScore(params.ConfidenceLevel); err != nil {
		return err
	}
	return nil
}

// Summarize computes the mean, population standard deviation and z-based
// margin of error of the simulated maxima.
func (o *Outcomes) Summarize() (schema.SimulationResult, error) {
	z, err := ZScore(o.Params.ConfidenceLevel)
	if err != nil {
		return schema.SimulationResult{}, err
	}

	mean, std := meanStdDev(o.Maxima)
	margin := z * (std / math.Sqrt(float64(len(o.Maxima))))

	return schema.SimulationResult{
		MeanDeliveryDate:  fromDays(mean),
		LowerBound:        fromDays(mean - margin),
		UpperBound:        fromDays(mean + margin),
		ConfidenceLevel:   o.Params.ConfidenceLevel,
		ZScore:            z,
		StdDevDays:        std,
		MarginOfErrorDays: margin,
		Simulations:       len(o.Maxima),
		ForecastSize:      o.Params.ForecastSize,
		SprintCount:       o.SprintCount,
		ItemCount:         o.ItemCount,
		Seed:              o.Params.Seed,
	}, nil
}

// ProbabilityBy returns the share of trials whose latest item landed on or before deadline.
func (o *Outcomes) ProbabilityBy(deadline time.Time) float64 {
	if len(o.Maxima) == 0 {
		return 0
	}
	limit := toDays(deadline)
	hits := 0
	for _, m := range o.Maxima {
		if m <= limit {
			hits++
		}
	}
	return float64(hits) / float64(len(o.Maxima))
}

// runTrials fans the trials out over a bounded set of goroutines.
// Each worker writes into its own contiguous range of the result slice.
func runTrials(ctx context.Context, days []float64, params schema.ForecastParams) ([]float64, error) {
	total := params.Simulations
	workers := params.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, total)
	chunk := (total + workers - 1) / workers

	maxima := make([]float64, total)
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < total; lo += chunk {
		hi := min(lo+chunk, total)
		g.Go(func() error {
			src := rand.NewPCG(0, 0)
			rng := rand.New(src)
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				src.Seed(params.Seed, uint64(i))
				maxima[i] = trialMax(rng, days, params.ForecastSize)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return maxima, nil
}

// trialMax draws k values with replacement and returns the largest.
func trialMax(rng *rand.Rand, days []float64, k int) float64 {
	n := len(days)
	best := math.Inf(-1)
	for range k {
		if d := days[rng.IntN(n)]; d > best {
			best = d
		}
	}
	return best
}

// meanStdDev returns the arithmetic mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// toDays maps a timestamp onto a linear axis of days since the Unix epoch.
func toDays(t time.Time) float64 {
	return float64(t.Unix()) / secondsPerDay
}

// fromDays is the inverse of toDays and always returns a UTC time.
func fromDays(days float64) time.Time {
	secs := days * secondsPerDay
	whole := math.Floor(secs)
	nanos := math.Round((secs - whole) * float64(time.Second))
	return time.Unix(int64(whole), int64(nanos)).UTC()
}
