// Package simulate runs the OKP two-layer lake temperature model: an
// epilimnion driven by smoothed air temperature and seasonal radiation, and
// a hypolimnion following the smoothed epilimnion with a density stability
// override. Both layers are single forward scans.
package simulate

import (
	"fmt"

	"github.com/chrissnell/laketemp/internal/types"
)

// Run simulates both layers over forcing. params holds daily smoothing
// constants; each layer rescales its own constant to p exactly once.
func Run(forcing types.ForcingSeries, params types.ParameterSet, p types.Periodicity) (types.SimulatedSeries, error) {
	if err := forcing.Validate(); err != nil {
		return types.SimulatedSeries{}, fmt.Errorf("invalid forcing: %w", err)
	}
	if err := params.Validate(); err != nil {
		return types.SimulatedSeries{}, fmt.Errorf("invalid parameters: %w", err)
	}

	tepi, err := Epilimnion(forcing.Tair, forcing.SR, params, p)
	if err != nil {
		return types.SimulatedSeries{}, fmt.Errorf("epilimnion: %w", err)
	}
	thyp, err := Hypolimnion(tepi, params, p)
	if err != nil {
		return types.SimulatedSeries{}, fmt.Errorf("hypolimnion: %w", err)
	}

	return types.SimulatedSeries{
		Dates: forcing.Dates,
		Tepi:  tepi,
		Thyp:  thyp,
	}, nil
}
