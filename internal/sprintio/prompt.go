package sprintio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/sprintcast/internal/contract"
	"github.com/huangsam/sprintcast/schema"
)

// ErrNoMoreSprints is returned by Prompter.Sprint when the user ends data entry.
var ErrNoMoreSprints = errors.New("no more sprints")

// Prompter collects a team name and sprint records from an interactive session.
// Invalid answers are reported on the output and asked again.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// TeamName asks for the team name until a non-blank name is given and not rejected
// with no. Any other confirmation answer, including a blank one, accepts the name.
func (p *Prompter) TeamName() (string, error) {
	for {
		name, err := p.ask("Enter the team name: ")
		if err != nil {
			return "", err
		}
		if name == "" {
			p.say("Team name cannot be blank.")
			continue
		}

		answer, err := p.ask(fmt.Sprintf("Is %s the correct name? (Y/N) ", name))
		if err != nil {
			return "", err
		}
		// Only an explicit no asks again
		if yes, err := contract.ParseBoolString(answer); err != nil || yes {
			return name, nil
		}
	}
}

// Sprint asks for one sprint. An empty start date ends data entry with ErrNoMoreSprints.
func (p *Prompter) Sprint() (schema.SprintRecord, error) {
	var start time.Time
	for {
		answer, err := p.ask("Sprint start date (YYYY-MM-DD, blank to finish): ")
		if err != nil {
			return schema.SprintRecord{}, err
		}
		if answer == "" {
			return schema.SprintRecord{}, ErrNoMoreSprints
		}
		date, err := ParseDate(answer)
		if err != nil {
			p.say(err.Error())
			continue
		}
		start = date
		break
	}

	throughput, err := p.askInt("Items completed: ", func(n int) error {
		if n < 0 {
			return errors.New("throughput cannot be negative")
		}
		return nil
	})
	if err != nil {
		return schema.SprintRecord{}, err
	}

	duration, err := p.askInt(fmt.Sprintf("Sprint length in days (%d-%d): ", MinDuration, MaxDuration), func(n int) error {
		if n < MinDuration || n > MaxDuration {
			return fmt.Errorf("duration must be between %d and %d days", MinDuration, MaxDuration)
		}
		return nil
	})
	if err != nil {
		return schema.SprintRecord{}, err
	}

	return schema.NewSprintRecord(start, throughput, duration), nil
}

// Sprints collects sprints until the user finishes. Sprints overlapping the existing
// history or an earlier answer are rejected and the user is asked again.
func (p *Prompter) Sprints(existing []schema.SprintRecord) ([]schema.SprintRecord, error) {
	var collected []schema.SprintRecord
	for {
		rec, err := p.Sprint()
		if errors.Is(err, ErrNoMoreSprints) {
			return collected, nil
		}
		if err != nil {
			return collected, err
		}

		if err := CheckAgainst(existing, rec); err != nil {
			p.say(err.Error())
			continue
		}
		if err := CheckAgainst(collected, rec); err != nil {
			p.say(err.Error())
			continue
		}
		collected = append(collected, rec)
	}
}

func (p *Prompter) askInt(label string, check func(int) error) (int, error) {
	for {
		answer, err := p.ask(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			p.say(fmt.Sprintf("%q is not a whole number.", answer))
			continue
		}
		if err := check(n); err != nil {
			p.say(err.Error())
			continue
		}
		return n, nil
	}
}

// ask prints the label and returns the trimmed answer.
// Running out of input yields io.ErrUnexpectedEOF so callers never loop forever.
func (p *Prompter) ask(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) say(msg string) {
	_, _ = fmt.Fprintln(p.out, msg)
}
