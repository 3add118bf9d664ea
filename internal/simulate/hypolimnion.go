package simulate

import (
	"fmt"

	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/pkg/density"
)

// MinHypolimnionTemperature is the lower bound of the hypolimnion, close to
// the temperature of maximum density.
const MinHypolimnionTemperature = density.MaxDensityTemperature

// hypState carries the hypolimnion recurrence from one period to the next.
type hypState struct {
	fet  expFilter
	base float64 // D·A
	e    float64

	prov    float64 // provisional level of the previous period
	thyp    float64 // hypolimnion temperature of the previous period
	started bool
}

func newHypState(params types.ParameterSet) *hypState {
	return &hypState{
		fet:  expFilter{alpha: params.Beta},
		base: params.D * params.A,
		e:    params.E,
	}
}

// step advances one period. The order is fixed: smoothed epilimnion,
// provisional level, integrated difference, density override, floor. After
// an override the next difference is applied to the overridden value.
func (s *hypState) step(tepi float64) float64 {
	prov := s.base + s.e*s.fet.step(tepi)

	thyp := prov
	if s.started {
		thyp = s.thyp + (prov - s.prov)
	}
	s.prov = prov
	s.started = true

	if mixed(tepi, thyp) {
		thyp = tepi
	}
	if thyp < MinHypolimnionTemperature {
		thyp = MinHypolimnionTemperature
	}

	s.thyp = thyp
	return thyp
}

// mixed reports whether the epilimnion is at least as dense as the
// hypolimnion, in which case the column is fully mixed.
func mixed(tepi, thyp float64) bool {
	return density.Water(tepi) >= density.Water(thyp)
}

// Hypolimnion returns the hypolimnion temperature (°C) for each period of
// the epilimnion series. BETA is rescaled to p on a copy of params.
func Hypolimnion(tepi []float64, params types.ParameterSet, p types.Periodicity) ([]float64, error) {
	if len(tepi) == 0 {
		return nil, fmt.Errorf("empty epilimnion series: %w", types.ErrInvalidInput)
	}

	params.Beta = Rescale(params.Beta, p)

	state := newHypState(params)
	thyp := make([]float64, len(tepi))
	for i, t := range tepi {
		thyp[i] = state.step(t)
	}
	return thyp, nil
}
