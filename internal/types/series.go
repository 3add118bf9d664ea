package types

import (
	"fmt"
	"time"
)

// DateLayout is the date format of every input and output table.
const DateLayout = "2006-01-02"

// ForcingSeries is the meteorological input of a simulation: one air
// temperature (°C) and solar radiation (W/m²) value per period, on a
// strictly increasing date axis without gaps.
type ForcingSeries struct {
	Dates []time.Time
	Tair  []float64
	SR    []float64
}

// Len returns the number of periods.
func (f ForcingSeries) Len() int {
	return len(f.Tair)
}

// Validate checks that the three columns have the same non-zero length and
// that the dates, when present, increase strictly.
func (f ForcingSeries) Validate() error {
	if len(f.Tair) == 0 {
		return fmt.Errorf("empty forcing series: %w", ErrInvalidInput)
	}
	if len(f.SR) != len(f.Tair) {
		return fmt.Errorf("tair has %d values but sr has %d: %w", len(f.Tair), len(f.SR), ErrInvalidInput)
	}
	if len(f.Dates) == 0 {
		return nil
	}
	if len(f.Dates) != len(f.Tair) {
		return fmt.Errorf("%d dates for %d forcing values: %w", len(f.Dates), len(f.Tair), ErrInvalidInput)
	}
	for i := 1; i < len(f.Dates); i++ {
		if !f.Dates[i].After(f.Dates[i-1]) {
			return fmt.Errorf("date %s does not follow %s: %w",
				f.Dates[i].Format(DateLayout), f.Dates[i-1].Format(DateLayout), ErrInvalidInput)
		}
	}
	return nil
}

// Slice returns the records whose indices are listed in idx.
func (f ForcingSeries) Slice(idx []int) ForcingSeries {
	out := ForcingSeries{
		Tair: make([]float64, len(idx)),
		SR:   make([]float64, len(idx)),
	}
	if len(f.Dates) > 0 {
		out.Dates = make([]time.Time, len(idx))
	}
	for j, i := range idx {
		out.Tair[j] = f.Tair[i]
		out.SR[j] = f.SR[i]
		if out.Dates != nil {
			out.Dates[j] = f.Dates[i]
		}
	}
	return out
}

// SimulatedSeries is the model output, aligned 1:1 with the forcing series.
// Tepi is never negative and Thyp never below 4 °C.
type SimulatedSeries struct {
	Dates []time.Time
	Tepi  []float64
	Thyp  []float64
}

// Len returns the number of periods.
func (s SimulatedSeries) Len() int {
	return len(s.Tepi)
}

// ValidationResult holds the error statistics of one simulated variable
// against observations. With no overlapping dates N is 0 and every
// statistic is NaN.
type ValidationResult struct {
	N    int     `json:"n" msgpack:"n"`
	SD   float64 `json:"sd" msgpack:"sd"`
	R    float64 `json:"r" msgpack:"r"`
	ME   float64 `json:"me" msgpack:"me"`
	MAE  float64 `json:"mae" msgpack:"mae"`
	RMSE float64 `json:"rmse" msgpack:"rmse"`
}
