package sprintio

import (
	"testing"
	"time"

	"github.com/huangsam/sprintcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sprint(start string, throughput, duration int) schema.SprintRecord {
	t, err := time.Parse(schema.DateLayout, start)
	if err != nil {
		panic(err)
	}
	return schema.NewSprintRecord(t, throughput, duration)
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name        string
		record      schema.SprintRecord
		expectError bool
	}{
		{"valid", sprint("2024-01-01", 5, 14), false},
		{"zero throughput", sprint("2024-01-01", 0, 14), false},
		{"shortest sprint", sprint("2024-01-01", 1, MinDuration), false},
		{"longest sprint", sprint("2024-01-01", 1, MaxDuration), false},
		{"negative throughput", sprint("2024-01-01", -1, 14), true},
		{"too short", sprint("2024-01-01", 1, MinDuration-1), true},
		{"too long", sprint("2024-01-01", 1, MaxDuration+1), true},
		{"missing start", schema.SprintRecord{Throughput: 1, Duration: 14}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := sprint("2024-01-01", 5, 14) // ends 2024-01-15
	assert.False(t, Overlaps(a, sprint("2024-01-15", 5, 14)), "back-to-back sprints are legal")
	assert.True(t, Overlaps(a, sprint("2024-01-14", 5, 14)))
	assert.True(t, Overlaps(a, sprint("2024-01-03", 5, 7)), "contained sprint")
	assert.True(t, Overlaps(sprint("2023-12-20", 5, 30), a), "containing sprint")
	assert.False(t, Overlaps(a, sprint("2023-12-18", 5, 14)), "sprint ending on our start")
}

func TestCheckOverlap(t *testing.T) {
	t.Run("empty and single", func(t *testing.T) {
		assert.NoError(t, CheckOverlap(nil))
		assert.NoError(t, CheckOverlap([]schema.SprintRecord{sprint("2024-01-01", 1, 14)}))
	})

	t.Run("back to back out of order", func(t *testing.T) {
		records := []schema.SprintRecord{
			sprint("2024-01-29", 3, 14),
			sprint("2024-01-01", 5, 14),
			sprint("2024-01-15", 4, 14),
		}
		assert.NoError(t, CheckOverlap(records))
		assert.Equal(t, "2024-01-29", records[0].StartDate.Format(schema.DateLayout), "input must not be reordered")
	})

	t.Run("long sprint swallows later ones", func(t *testing.T) {
		records := []schema.SprintRecord{
			sprint("2024-01-01", 5, 30),
			sprint("2024-01-05", 2, 7),
			sprint("2024-01-20", 2, 7),
		}
		err := CheckOverlap(records)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOverlap)

		var overlap *OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, records[0], overlap.First)
		assert.Equal(t, records[1], overlap.Second)
	})

	t.Run("non neighbour overlap", func(t *testing.T) {
		records := []schema.SprintRecord{
			sprint("2024-01-01", 5, 30), // ends 01-31
			sprint("2024-01-02", 2, 7),  // ends 01-09, overlaps the first
		}
		assert.ErrorIs(t, CheckOverlap(records), ErrOverlap)
	})
}

func TestCheckAgainst(t *testing.T) {
	existing := []schema.SprintRecord{sprint("2024-01-01", 5, 14), sprint("2024-01-15", 5, 14)}
	assert.NoError(t, CheckAgainst(existing, sprint("2024-01-29", 1, 14)))
	assert.ErrorIs(t, CheckAgainst(existing, sprint("2024-01-20", 1, 14)), ErrOverlap)
	assert.NoError(t, CheckAgainst(nil, sprint("2024-01-20", 1, 14)))
}

func TestValidateHistory(t *testing.T) {
	assert.NoError(t, ValidateHistory([]schema.SprintRecord{sprint("2024-01-01", 5, 14)}))
	assert.ErrorIs(t, ValidateHistory([]schema.SprintRecord{sprint("2024-01-01", 5, 3)}), ErrInvalidRecord)
	assert.ErrorIs(t, ValidateHistory([]schema.SprintRecord{
		sprint("2024-01-01", 5, 14),
		sprint("2024-01-10", 5, 14),
	}), ErrOverlap)
}
