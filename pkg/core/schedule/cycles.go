package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Cycle is one production period in a model run
type Cycle struct {
	Index int
	Start time.Time
}

// Cycles returns the production cycles that start within [from, to], using an
// RFC 5545 recurrence rule anchored at from. An empty rule yields a single cycle
// starting at from.
func Cycles(rule string, from, to time.Time) ([]Cycle, error) {
	if rule == "" {
		return []Cycle{{Index: 0, Start: from}}, nil
	}
	if to.Before(from) {
		return nil, fmt.Errorf("cycle range end %s is before start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	option, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cycle rrule %q: %w", rule, err)
	}
	option.Dtstart = from

	recurrence, err := rrule.NewRRule(*option)
	if err != nil {
		return nil, fmt.Errorf("failed to build cycle rrule %q: %w", rule, err)
	}

	occurrences := recurrence.Between(from, to, true)
	cycles := make([]Cycle, 0, len(occurrences))
	for i, start := range occurrences {
		cycles = append(cycles, Cycle{Index: i, Start: start})
	}

	return cycles, nil
}

// ValidateRule checks the syntax of a recurrence rule
func ValidateRule(rule string) error {
	if _, err := rrule.StrToRRule(rule); err != nil {
		return fmt.Errorf("invalid rrule %q: %w", rule, err)
	}
	return nil
}
