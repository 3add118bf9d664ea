package types

import (
	"fmt"
	"strings"
)

// Periodicity is the time step of the forcing data and of the simulation.
type Periodicity string

const (
	Daily   Periodicity = "daily"
	Weekly  Periodicity = "weekly"
	Monthly Periodicity = "monthly"
)

// DaysPerYear is the number of daily periods in a year. Smoothing constants
// are expressed per day, so other periodicities rescale them by
// DaysPerYear / PeriodsPerYear.
const DaysPerYear = 365.25

// ParsePeriodicity parses "daily", "weekly" or "monthly". An empty string
// defaults to Daily.
func ParsePeriodicity(s string) (Periodicity, error) {
	switch Periodicity(strings.ToLower(strings.TrimSpace(s))) {
	case "", Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown periodicity %q: %w", s, ErrInvalidInput)
}

// PeriodsPerYear returns 365.25, 52 or 12. Unknown values are treated as daily.
func (p Periodicity) PeriodsPerYear() float64 {
	switch p {
	case Weekly:
		return 52
	case Monthly:
		return 12
	default:
		return DaysPerYear
	}
}

func (p Periodicity) String() string {
	if p == "" {
		return string(Daily)
	}
	return string(p)
}
