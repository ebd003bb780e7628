package sprintio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/huangsam/sprintcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(lines ...string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPrompter(strings.NewReader(strings.Join(lines, "\n")+"\n"), out), out
}

func TestTeamName(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
	}{
		{"correct input", []string{"TeamName", "Y"}},
		{"blank input then correct input", []string{"", "TeamName", "Y"}},
		{"incorrect confirmation then correct input", []string{"TeamName", "N", "TeamName", "Y"}},
		{"blank input then incorrect confirmation then correct input", []string{"", "TeamName", "N", "TeamName", "Y"}},
		{"unrecognized confirmation accepts", []string{"TeamName", "sure"}},
		{"blank confirmation accepts", []string{"TeamName", ""}},
		{"any spelling of no asks again", []string{"Wrong", "no", "Wrong", "FALSE", "TeamName", "ok"}},
		{"surrounding whitespace is dropped", []string{"  TeamName  ", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.inputs...)
			name, err := p.TeamName()
			require.NoError(t, err)
			assert.Equal(t, "TeamName", name)
		})
	}
}

func TestTeamNameEOF(t *testing.T) {
	p, _ := newTestPrompter("TeamName", "N")
	_, err := p.TeamName()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSprint(t *testing.T) {
	p, out := newTestPrompter("2023-13-40", "2023-01-01", "-2", "many", "10", "3", "45", "14")
	rec, err := p.Sprint()
	require.NoError(t, err)
	assert.Equal(t, sprint("2023-01-01", 10, 14), rec)

	msgs := out.String()
	assert.Contains(t, msgs, "expected YYYY-MM-DD")
	assert.Contains(t, msgs, "throughput cannot be negative")
	assert.Contains(t, msgs, "is not a whole number")
	assert.Contains(t, msgs, "duration must be between 7 and 30 days")
}

func TestSprintFinish(t *testing.T) {
	p, _ := newTestPrompter("")
	_, err := p.Sprint()
	assert.ErrorIs(t, err, ErrNoMoreSprints)
}

func TestSprints(t *testing.T) {
	existing := []schema.SprintRecord{sprint("2023-01-01", 5, 14)}
	p, out := newTestPrompter(
		"2023-01-10", "4", "14", // overlaps existing
		"2023-01-15", "4", "14",
		"2023-01-20", "2", "7", // overlaps the previous answer
		"2023-01-29", "6", "14",
		"",
	)

	got, err := p.Sprints(existing)
	require.NoError(t, err)
	assert.Equal(t, []schema.SprintRecord{
		sprint("2023-01-15", 4, 14),
		sprint("2023-01-29", 6, 14),
	}, got)
	assert.Equal(t, 2, strings.Count(out.String(), "overlaps"))
}
