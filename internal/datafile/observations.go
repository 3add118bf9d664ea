package datafile

import (
	"fmt"
	"time"

	"github.com/chrissnell/laketemp/internal/types"
)

// missingValues are the cell spellings of a missing observation, compared
// case-insensitively.
var missingValues = map[string]bool{"": true, "nan": true, "na": true}

// Observations are measured temperatures used for validation. A nil Tepi or
// Thyp means the file had no such column.
type Observations struct {
	Dates []time.Time
	Tepi  []float64
	Thyp  []float64
}

// ReadObservations reads an observation table with a date column and
// optional tepi and thyp columns. Missing cells become NaN.
func ReadObservations(path string) (Observations, error) {
	t, err := readTable(path)
	if err != nil {
		return Observations{}, err
	}
	if !t.has("date") {
		return Observations{}, fmt.Errorf("%s: missing column date: %w", path, types.ErrInvalidInput)
	}

	var obs Observations
	if obs.Dates, err = t.dates("date"); err != nil {
		return Observations{}, fmt.Errorf("%s: %w", path, err)
	}
	if t.has("tepi") {
		if obs.Tepi, err = t.floats("tepi", missingValues); err != nil {
			return Observations{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if t.has("thyp") {
		if obs.Thyp, err = t.floats("thyp", missingValues); err != nil {
			return Observations{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return obs, nil
}
