//go:build integration

// Package integration contains integration tests for sprintcast.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/huangsam/sprintcast/core/algo"
	"github.com/huangsam/sprintcast/internal/sprintio"
	"github.com/huangsam/sprintcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runJSON runs a command with JSON output written to a file and decodes it into v.
func runJSON(t *testing.T, dir string, v any, args ...string) {
	t.Helper()
	outFile := filepath.Join(dir, "out.json")
	args = append(args, "--output", "json", "--output-file", outFile, "--cache-backend", "none")
	_, err := runSprintcast(t, dir, args...)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

// TestForecastVerification compares the CLI output against the forecaster called directly.
func TestForecastVerification(t *testing.T) {
	dir := t.TempDir()
	writeSprintFile(t, dir)

	var out schema.ForecastOutput
	runJSON(t, dir, &out, "forecast", "--seed", "42", "--simulations", "5000", "--forecast-size", "30", "--confidence", "0.9")

	want, err := algo.Forecast(context.Background(), fixtureSprints(), schema.ForecastParams{
		Simulations:     5000,
		ForecastSize:    30,
		ConfidenceLevel: 0.9,
		MinSprints:      2,
		Seed:            42,
		Workers:         1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Platform", out.Team)
	assert.True(t, want.MeanDeliveryDate.Equal(out.MeanDeliveryDate), "mean %s != %s", want.MeanDeliveryDate, out.MeanDeliveryDate)
	assert.True(t, want.LowerBound.Equal(out.LowerBound))
	assert.True(t, want.UpperBound.Equal(out.UpperBound))
	assert.InDelta(t, want.StdDevDays, out.StdDevDays, 1e-9)
	assert.Equal(t, want.ItemCount, out.ItemCount)
}

// TestUnseededForecastReportsSeed verifies an unseeded run can be replayed from its reported seed.
func TestUnseededForecastReportsSeed(t *testing.T) {
	dir := t.TempDir()
	writeSprintFile(t, dir)

	var first schema.ForecastOutput
	runJSON(t, dir, &first, "forecast", "--simulations", "2000")
	require.NotZero(t, first.Seed)

	var replay schema.ForecastOutput
	runJSON(t, dir, &replay, "forecast", "--simulations", "2000", "--seed", jsonNumber(first.Seed))
	assert.True(t, first.MeanDeliveryDate.Equal(replay.MeanDeliveryDate))
	assert.InDelta(t, first.StdDevDays, replay.StdDevDays, 1e-9)
}

// TestCheckExitCode verifies the check command gates on the minimum probability.
func TestCheckExitCode(t *testing.T) {
	dir := t.TempDir()
	writeSprintFile(t, dir)

	_, err := runSprintcast(t, dir, "check", "--deadline", "2030-01-01", "--cache-backend", "none")
	require.NoError(t, err)

	output, err := runSprintcast(t, dir, "check", "--deadline", "2025-01-10", "--cache-backend", "none")
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, output, "deadline at risk")
}

// TestSprintsAddAndList records sprints through the CLI and reads them back.
func TestSprintsAddAndList(t *testing.T) {
	dir := t.TempDir()

	_, err := runSprintcast(t, dir, "sprints", "add", "--team", "Mobile", "--start", "2025-03-03", "--throughput", "5")
	require.NoError(t, err)
	_, err = runSprintcast(t, dir, "sprints", "add", "--start", "2025-03-17", "--throughput", "8", "--duration", "7")
	require.NoError(t, err)

	// Overlaps the first sprint
	_, err = runSprintcast(t, dir, "sprints", "add", "--start", "2025-03-10", "--throughput", "2")
	require.Error(t, err)

	var list schema.SprintListOutput
	runJSON(t, dir, &list, "sprints", "list")
	assert.Equal(t, "Mobile", list.Team)
	require.Len(t, list.Sprints, 2)
	assert.Equal(t, 8, list.Sprints[1].Throughput)

	h, err := sprintio.Load(filepath.Join(dir, "sprints.csv"))
	require.NoError(t, err)
	assert.Len(t, h.Sprints, 2)
}

func jsonNumber(n uint64) string {
	data, _ := json.Marshal(n)
	return string(data)
}
