package sprintio

import (
	"errors"
	"fmt"
	"slices"

	"github.com/huangsam/sprintcast/schema"
)

// Sprint duration bounds in calendar days.
const (
	MinDuration = 7
	MaxDuration = 30
)

// Sentinel errors for sprint data problems.
var (
	ErrInvalidRecord = errors.New("invalid sprint record")
	ErrOverlap       = errors.New("sprint intervals overlap")
	ErrMalformedFile = errors.New("malformed sprint file")
)

// OverlapError names the two sprints whose [start, end) intervals intersect.
type OverlapError struct {
	First  schema.SprintRecord
	Second schema.SprintRecord
}

// Error implements the error interface.
func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: sprint %s..%s overlaps sprint %s..%s", ErrOverlap,
		e.First.StartDate.Format(schema.DateLayout), e.First.EndDate().Format(schema.DateLayout),
		e.Second.StartDate.Format(schema.DateLayout), e.Second.EndDate().Format(schema.DateLayout))
}

// Is lets errors.Is match ErrOverlap.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}

// ValidateRecord checks the scalar constraints of a single sprint.
func ValidateRecord(r schema.SprintRecord) error {
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRecord)
	}
	if r.Throughput < 0 {
		return fmt.Errorf("%w: throughput cannot be negative (received %d)", ErrInvalidRecord, r.Throughput)
	}
	if r.Duration < MinDuration || r.Duration > MaxDuration {
		return fmt.Errorf("%w: duration must be between %d and %d days (received %d)", ErrInvalidRecord, MinDuration, MaxDuration, r.Duration)
	}
	return nil
}

// Overlaps reports whether two sprints share at least one day.
// Intervals are half-open, so back-to-back sprints do not overlap.
func Overlaps(a, b schema.SprintRecord) bool {
	return a.StartDate.Before(b.EndDate()) && b.StartDate.Before(a.EndDate())
}

// CheckOverlap returns an *OverlapError for the first pair of intersecting sprints.
// Records are examined in start date order; the input slice is not modified.
func CheckOverlap(records []schema.SprintRecord) error {
	if len(records) < 2 {
		return nil
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, compareStart)

	// With sorted starts it is enough to compare against the sprint ending last so far.
	latest := sorted[0]
	for _, r := range sorted[1:] {
		if Overlaps(latest, r) {
			return &OverlapError{First: latest, Second: r}
		}
		if r.EndDate().After(latest.EndDate()) {
			latest = r
		}
	}
	return nil
}

// CheckAgainst returns an *OverlapError if candidate intersects any existing sprint.
func CheckAgainst(existing []schema.SprintRecord, candidate schema.SprintRecord) error {
	for _, r := range existing {
		if Overlaps(r, candidate) {
			return &OverlapError{First: r, Second: candidate}
		}
	}
	return nil
}

// ValidateHistory validates every record and then checks for overlaps.
func ValidateHistory(records []schema.SprintRecord) error {
	for i, r := range records {
		if err := ValidateRecord(r); err != nil {
			return fmt.Errorf("sprint %d: %w", i+1, err)
		}
	}
	return CheckOverlap(records)
}

func compareStart(a, b schema.SprintRecord) int {
	return a.StartDate.Compare(b.StartDate)
}
