package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/sprintcast/schema"
)

// writeJSONSprints marshals the sprint history to JSON and writes it.
// Sprints always encode as an array, never null.
func writeJSONSprints(w io.Writer, list schema.SprintListOutput) error {
	if list.Sprints == nil {
		list.Sprints = []schema.SprintRecord{}
	}
	return writeJSON(w, list)
}

// writeCSVSprints writes one row per sprint, including its derived end date.
func writeCSVSprints(w io.Writer, list schema.SprintListOutput) error {
	header := []string{"team", "start_date", "end_date", "throughput", "duration"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range list.Sprints {
			row := []string{
				list.Team,
				formatDay(s.StartDate),
				formatDay(s.EndDate()),
				strconv.Itoa(s.Throughput),
				strconv.Itoa(s.Duration),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
