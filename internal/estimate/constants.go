package estimate

import (
	"fmt"

	"github.com/chrissnell/laketemp/internal/types"
)

// Constants are the empirical regression constants of the parameter
// equations:
//
//	ALPHA = exp(ALPHA1 + ALPHA2·altitude + ALPHA3·ln(surface) + ALPHA4·ln(volume))
//	A     = A1 + A2·latitude + A3·altitude + A4·ln(surface)
//	B     = B1 + B2·zmax
//	C     = C1 + C2·altitude
//	E     = E1 + (1-E1) / (1 + exp(E3·(E2 - ln(zmean))))
//	BETA  = BETA1 if E > BETA3 else BETA2
//
// D is used as is.
type Constants struct {
	Alpha1, Alpha2, Alpha3, Alpha4 float64
	A1, A2, A3, A4                 float64
	B1, B2                         float64
	C1, C2                         float64
	Beta1, Beta2, Beta3            float64
	D                              float64
	E1, E2, E3                     float64
}

// Table maps a water body type to its regression constants.
type Table map[types.LakeType]Constants

// Lookup returns the constants for t.
func (tb Table) Lookup(t types.LakeType) (Constants, error) {
	c, ok := tb[t]
	if !ok {
		return Constants{}, fmt.Errorf("no regression constants for water body type %q: %w", t, types.ErrInvalidInput)
	}
	return c, nil
}

// pratsDanis2019 holds the constants fitted on French lakes and reservoirs
// by Prats & Danis (2019), Knowl. Manag. Aquat. Ecosyst. 420, 8.
// Only E1, E2 and E3 depend on the water body type.
func pratsDanis2019(e1, e2, e3 float64) Constants {
	return Constants{
		Alpha1: 0.52, Alpha2: -3.0e-4, Alpha3: 0.25, Alpha4: -0.36,
		A1: 39.9, A2: -0.484, A3: -4.52e-3, A4: -0.167,
		B1: 1.058, B2: -0.0010,
		C1: 1.12e-3, C2: -3.62e-6,
		Beta1: 1.0, Beta2: 0.13, Beta3: 0.95,
		D:  0.51,
		E1: e1, E2: e2, E3: e3,
	}
}

// PratsDanis2019 returns the published constant table. A fresh map is
// returned on every call so callers cannot alter the defaults.
func PratsDanis2019() Table {
	return Table{
		types.Lake:      pratsDanis2019(0.10, 2.0, -1.8),
		types.Reservoir: pratsDanis2019(0.49, 1.7, -2.0),
	}
}
