// Package schema has configs, models and constants shared by all parts of sprintcast.
package schema

import "time"

// DateLayout is the calendar-day representation used for sprint dates.
const DateLayout = "2006-01-02"

// Day is the length of one calendar day.
const Day = 24 * time.Hour

// SprintRecord represents one completed sprint in a team's history.
type SprintRecord struct {
	StartDate  time.Time `json:"start_date"` // First day of the sprint (UTC midnight)
	Throughput int       `json:"throughput"` // Number of items completed in the sprint
	Duration   int       `json:"duration"`   // Length of the sprint in calendar days
}

// EndDate returns the date every item of the sprint is considered delivered.
func (r SprintRecord) EndDate() time.Time {
	return r.StartDate.AddDate(0, 0, r.Duration)
}

// NewSprintRecord builds a record with its start date truncated to the calendar day in UTC.
func NewSprintRecord(start time.Time, throughput, duration int) SprintRecord {
	return SprintRecord{
		StartDate:  TruncateDay(start),
		Throughput: throughput,
		Duration:   duration,
	}
}

// TruncateDay drops the time-of-day component and pins the date to UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompletionDateLog holds one completion date per delivered item.
// Order is irrelevant and duplicates are meaningful.
type CompletionDateLog []time.Time

// Len returns the number of items in the log.
func (l CompletionDateLog) Len() int {
	return len(l)
}

// Distinct returns the number of unique dates in the log.
func (l CompletionDateLog) Distinct() int {
	seen := make(map[time.Time]struct{}, len(l))
	for _, d := range l {
		seen[d] = struct{}{}
	}
	return len(seen)
}

// ForecastParams holds the knobs of a single forecasting run.
type ForecastParams struct {
	Simulations     int     // Number of independent resampling trials (S)
	ForecastSize    int     // Number of future items per trial (K)
	ConfidenceLevel float64 // Nominal coverage probability, e.g. 0.97
	MinSprints      int     // Minimum number of sprint records required
	Seed            uint64  // Seed of the per-trial random sources
	Workers         int     // Number of goroutines generating trials
}

// SimulationResult is the output of one forecasting run.
type SimulationResult struct {
	MeanDeliveryDate  time.Time `json:"mean_delivery_date"`
	LowerBound        time.Time `json:"lower_bound"`
	UpperBound        time.Time `json:"upper_bound"`
	ConfidenceLevel   float64   `json:"confidence_level"`
	ZScore            float64   `json:"z_score"`
	StdDevDays        float64   `json:"std_dev_days"`
	MarginOfErrorDays float64   `json:"margin_of_error_days"`
	Simulations       int       `json:"simulations"`
	ForecastSize      int       `json:"forecast_size"`
	SprintCount       int       `json:"sprint_count"`
	ItemCount         int       `json:"item_count"`
	Seed              uint64    `json:"seed"`
}

// ForecastOutput is the render model for a forecast of one team.
type ForecastOutput struct {
	Team string `json:"team"`
	SimulationResult
}

// DeadlineResult holds the outcome of checking a forecast against a target date.
type DeadlineResult struct {
	Deadline       time.Time        `json:"deadline"`
	Probability    float64          `json:"probability"`
	MinProbability float64          `json:"min_probability"`
	Passed         bool             `json:"passed"`
	Forecast       SimulationResult `json:"forecast"`
}

// CheckOutput is the render model for a deadline check of one team.
type CheckOutput struct {
	Team string `json:"team"`
	DeadlineResult
}

// SprintListOutput is the render model for a team's sprint history.
type SprintListOutput struct {
	Team    string         `json:"team"`
	Sprints []SprintRecord `json:"sprints"`
}
