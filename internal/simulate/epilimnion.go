package simulate

import (
	"fmt"

	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/pkg/harmonic"
)

// expFilter is a first-order IIR filter f[i] = alpha·x[i] + (1-alpha)·f[i-1]
// started at f[0] = x[0].
type expFilter struct {
	alpha   float64
	value   float64
	started bool
}

func (f *expFilter) step(x float64) float64 {
	if !f.started {
		f.value = x
		f.started = true
		return f.value
	}
	f.value = f.alpha*x + (1-f.alpha)*f.value
	return f.value
}

// Epilimnion returns the epilimnion temperature (°C) for each period of the
// air temperature (°C) and solar radiation (W/m²) series:
//
//	tepi[i] = max(A + B·ftair[i] + C·fsr[i], 0)
//
// where ftair is the exponentially smoothed air temperature anomaly
// (tair·at_factor - mat) and fsr the seasonal sinusoid fitted to
// sr·sw_factor. ALPHA is rescaled to p on a copy of params.
func Epilimnion(tair, sr []float64, params types.ParameterSet, p types.Periodicity) ([]float64, error) {
	if len(tair) == 0 {
		return nil, fmt.Errorf("empty air temperature series: %w", types.ErrInvalidInput)
	}
	if len(sr) != len(tair) {
		return nil, fmt.Errorf("tair has %d values but sr has %d: %w", len(tair), len(sr), types.ErrInvalidInput)
	}

	params.Alpha = Rescale(params.Alpha, p)

	swr := make([]float64, len(sr))
	for i, v := range sr {
		swr[i] = v * params.SWFactor
	}
	seasonal, err := harmonic.FitSeries(swr, p.PeriodsPerYear())
	if err != nil {
		return nil, fmt.Errorf("fitting seasonal radiation: %w", err)
	}

	air := expFilter{alpha: params.Alpha}
	tepi := make([]float64, len(tair))
	for i, t := range tair {
		ftair := air.step(t*params.ATFactor - params.MAT)
		v := params.A + params.B*ftair + params.C*seasonal.At(float64(i))
		if v < 0 {
			v = 0
		}
		tepi[i] = v
	}
	return tepi, nil
}
