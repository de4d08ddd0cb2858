package production

import (
	"errors"
	"fmt"
)

// ErrNoProduction is returned when a user type has no standard production row
var ErrNoProduction = errors.New("no standard production defined")

// Table holds the standard production per user type for one cycle.
// Each row is aligned positionally with Fractions.
type Table struct {
	Fractions []string
	Units     map[string][]float64
}

// Production is the per-fraction quantity a user produces in one cycle
type Production struct {
	UserType string

	// Defined is false when the user type has no standard production row
	Defined bool

	Quantities map[string]float64
}

// NewTable builds a production table, checking every row against the fraction labels
func NewTable(fractions []string, units map[string][]float64) (Table, error) {
	if len(fractions) == 0 {
		return Table{}, fmt.Errorf("production table needs at least one fraction")
	}
	for userType, row := range units {
		if len(row) != len(fractions) {
			return Table{}, fmt.Errorf("standard production for type %q has %d values, expected %d (one per fraction)",
				userType, len(row), len(fractions))
		}
		for i, v := range row {
			if v < 0 {
				return Table{}, fmt.Errorf("standard production for type %q has negative %s quantity %v",
					userType, fractions[i], v)
			}
		}
	}
	return Table{Fractions: fractions, Units: units}, nil
}

// For returns the production of a user of the given type and dimension factor.
// An unknown type yields an undefined Production and an error wrapping ErrNoProduction.
func (t Table) For(userType string, dimFactor float64) (Production, error) {
	row, ok := t.Units[userType]
	if !ok {
		return Production{UserType: userType}, fmt.Errorf("%w for type %q", ErrNoProduction, userType)
	}

	quantities := make(map[string]float64, len(t.Fractions))
	for i, fraction := range t.Fractions {
		quantities[fraction] = dimFactor * row[i]
	}

	return Production{UserType: userType, Defined: true, Quantities: quantities}, nil
}

// Quantity returns the quantity for a fraction, 0 when undefined or unknown
func (p Production) Quantity(fraction string) float64 {
	if !p.Defined {
		return 0
	}
	return p.Quantities[fraction]
}

// Total returns the summed quantity across fractions
func (p Production) Total() float64 {
	var total float64
	for _, q := range p.Quantities {
		total += q
	}
	return total
}
