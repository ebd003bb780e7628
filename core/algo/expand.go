// Package algo has the throughput expansion and Monte Carlo forecasting logic.
package algo

import "github.com/huangsam/sprintcast/schema"

// Expand converts sprint-level records into an item-level completion log.
// Every item of a sprint is assigned that sprint's end date, so each record
// contributes exactly Throughput copies of its EndDate. Records with zero
// throughput contribute nothing. Overlapping records are expanded as-is.
func Expand(records []schema.SprintRecord) schema.CompletionDateLog {
	total := 0
	for _, r := range records {
		if r.Throughput > 0 {
			total += r.Throughput
		}
	}

	log := make(schema.CompletionDateLog, 0, total)
	for _, r := range records {
		end := r.EndDate()
		for range r.Throughput {
			log = append(log, end)
		}
	}
	return log
}
