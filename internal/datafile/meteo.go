package datafile

import (
	"fmt"

	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/pkg/solar"
)

// MeteoOptions controls how ReadMeteo treats a table without an sr column.
type MeteoOptions struct {
	// FillClearSkySR synthesises sr from the daily clear-sky radiation at
	// Latitude and Altitude when the table has no sr column.
	FillClearSkySR bool
	Latitude       float64
	Altitude       float64
}

// ReadMeteo reads the meteorological forcing table at path. Columns are
// located by header name: date (YYYY-MM-DD), tair (°C) and sr (W/m²).
func ReadMeteo(path string, opts MeteoOptions) (types.ForcingSeries, error) {
	t, err := readTable(path)
	if err != nil {
		return types.ForcingSeries{}, err
	}
	for _, c := range []string{"date", "tair"} {
		if !t.has(c) {
			return types.ForcingSeries{}, fmt.Errorf("%s: missing column %s: %w", path, c, types.ErrInvalidInput)
		}
	}

	var forcing types.ForcingSeries
	if forcing.Dates, err = t.dates("date"); err != nil {
		return types.ForcingSeries{}, fmt.Errorf("%s: %w", path, err)
	}
	if forcing.Tair, err = t.floats("tair", nil); err != nil {
		return types.ForcingSeries{}, fmt.Errorf("%s: %w", path, err)
	}

	switch {
	case t.has("sr"):
		if forcing.SR, err = t.floats("sr", nil); err != nil {
			return types.ForcingSeries{}, fmt.Errorf("%s: %w", path, err)
		}
	case opts.FillClearSkySR:
		forcing.SR = make([]float64, len(forcing.Dates))
		for i, d := range forcing.Dates {
			forcing.SR[i] = solar.DailyMeanClearSky(d, opts.Latitude, opts.Altitude)
		}
	default:
		return types.ForcingSeries{}, fmt.Errorf("%s: missing column sr: %w", path, types.ErrInvalidInput)
	}

	return forcing, nil
}
