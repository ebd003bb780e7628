// Package sprintio reads, writes and collects a team's sprint history.
//
// The history is persisted as CSV: the first row holds the team name, the
// second row is the header start_date,throughput,duration and every following
// row is one sprint with its start date formatted as YYYY-MM-DD.
package sprintio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/sprintcast/schema"
)

// ParseError reports a problem with one row of a sprint file.
type ParseError struct {
	Row   int    // 1-based row number in the file
	Field string // Column name, empty for row-level problems
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, %s: %v", e.Row, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrMalformedFile.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedFile
}

// History is a team name plus its sprint records.
type History struct {
	Team    string
	Sprints []schema.SprintRecord
}

// Load reads and validates the sprint history stored at path.
func Load(path string) (*History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read parses a sprint history from r and validates it.
func Read(r io.Reader) (*History, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // The team row has a single cell
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFile, err)
	}
	if len(rows) == 0 {
		return nil, &ParseError{Row: 1, Err: errors.New("missing team name")}
	}

	team := strings.TrimSpace(rows[0][0])
	if team == "" {
		return nil, &ParseError{Row: 1, Err: errors.New("missing team name")}
	}
	if len(rows) < 2 || !isHeader(rows[1]) {
		return nil, &ParseError{Row: 2, Err: fmt.Errorf("expected header %s", strings.Join(schema.SprintFileHeader, ","))}
	}

	sprints := make([]schema.SprintRecord, 0, len(rows)-2)
	for i, row := range rows[2:] {
		rowNum := i + 3
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(rowNum, row)
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, rec)
	}

	if err := CheckOverlap(sprints); err != nil {
		return nil, err
	}
	return &History{Team: team, Sprints: sprints}, nil
}

// Save writes the history to path, replacing any existing file.
// The file is written next to its destination first and renamed into place.
func Save(path string, h *History) error {
	if strings.TrimSpace(h.Team) == "" {
		return errors.New("team name is required")
	}
	if err := ValidateHistory(h.Sprints); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sprints-*.csv")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, h); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Write serializes the history as CSV in start date order.
func Write(w io.Writer, h *History) error {
	sorted := slices.Clone(h.Sprints)
	slices.SortStableFunc(sorted, compareStart)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{strings.TrimSpace(h.Team)}); err != nil {
		return err
	}
	if err := writer.Write(schema.SprintFileHeader); err != nil {
		return err
	}
	for _, r := range sorted {
		row := []string{
			r.StartDate.Format(schema.DateLayout),
			strconv.Itoa(r.Throughput),
			strconv.Itoa(r.Duration),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Append adds records to the history at path, creating the file when it does not exist.
// The combined history is validated as a whole, so a new sprint may not overlap
// any sprint recorded by an earlier invocation. An empty team keeps the stored name.
func Append(path, team string, records ...schema.SprintRecord) (*History, error) {
	h, err := Load(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		h = &History{}
	case err != nil:
		return nil, err
	}

	if team = strings.TrimSpace(team); team != "" {
		if h.Team != "" && h.Team != team {
			return nil, fmt.Errorf("sprint file %s belongs to team %q, not %q", path, h.Team, team)
		}
		h.Team = team
	}
	if h.Team == "" {
		return nil, fmt.Errorf("team name is required to create %s", path)
	}

	for i, r := range records {
		if err := ValidateRecord(r); err != nil {
			return nil, fmt.Errorf("new sprint %d: %w", i+1, err)
		}
		if err := CheckAgainst(h.Sprints, r); err != nil {
			return nil, err
		}
		h.Sprints = append(h.Sprints, r)
	}

	if err := Save(path, h); err != nil {
		return nil, err
	}
	return h, nil
}

func parseRow(rowNum int, row []string) (schema.SprintRecord, error) {
	if len(row) != len(schema.SprintFileHeader) {
		return schema.SprintRecord{}, &ParseError{
			Row: rowNum,
			Err: fmt.Errorf("expected %d columns, got %d", len(schema.SprintFileHeader), len(row)),
		}
	}

	start, err := ParseDate(row[0])
	if err != nil {
		return schema.SprintRecord{}, &ParseError{Row: rowNum, Field: "start_date", Err: err}
	}
	throughput, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return schema.SprintRecord{}, &ParseError{Row: rowNum, Field: "throughput", Err: err}
	}
	duration, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return schema.SprintRecord{}, &ParseError{Row: rowNum, Field: "duration", Err: err}
	}

	rec := schema.NewSprintRecord(start, throughput, duration)
	if err := ValidateRecord(rec); err != nil {
		return schema.SprintRecord{}, &ParseError{Row: rowNum, Err: err}
	}
	return rec, nil
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(schema.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func isHeader(row []string) bool {
	if len(row) != len(schema.SprintFileHeader) {
		return false
	}
	for i, col := range row {
		if !strings.EqualFold(strings.TrimSpace(col), schema.SprintFileHeader[i]) {
			return false
		}
	}
	return true
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
