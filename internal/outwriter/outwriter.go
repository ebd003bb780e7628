// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteForecast prints a forecast using the configured output format.
func (ow *OutWriter) WriteForecast(result schema.ForecastOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteForecastResult(result, cfg, duration)
}

// WriteCheck prints a deadline check using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteCheckResult(result, cfg, duration)
}

// WriteSprints prints a team's sprint history using the configured output format.
func (ow *OutWriter) WriteSprints(list schema.SprintListOutput, cfg *contract.Config) error {
	return WriteSprintList(list, cfg)
}
