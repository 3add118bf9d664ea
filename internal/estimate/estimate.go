// Package estimate derives OKP model parameters from lake morphometry using
// the regression equations of Prats & Danis (2019).
package estimate

import (
	"fmt"
	"math"

	"github.com/chrissnell/laketemp/internal/types"
	"gonum.org/v1/gonum/stat"
)

// Estimator computes parameter sets from lake characteristics with an
// injected constant table.
type Estimator struct {
	table Table
}

// New returns an Estimator using table. A nil table selects PratsDanis2019.
func New(table Table) *Estimator {
	if table == nil {
		table = PratsDanis2019()
	}
	return &Estimator{table: table}
}

// Estimate returns the parameter set of lake. ATFactor and SWFactor are 1
// and MAT is left at zero; set it with MeanAirTemperature once the forcing
// series is known.
func (e *Estimator) Estimate(lake types.LakeCharacteristics) (types.ParameterSet, error) {
	if err := lake.Validate(); err != nil {
		return types.ParameterSet{}, fmt.Errorf("invalid lake characteristics: %w", err)
	}
	c, err := e.table.Lookup(lake.Type)
	if err != nil {
		return types.ParameterSet{}, err
	}

	pe := ParE(lake, c)
	return types.ParameterSet{
		Alpha:    ParAlpha(lake, c),
		Beta:     ParBeta(pe, c),
		A:        ParA(lake, c),
		B:        ParB(lake, c),
		C:        ParC(lake, c),
		D:        c.D,
		E:        pe,
		ATFactor: 1,
		SWFactor: 1,
	}, nil
}

// ParA returns A = A1 + A2·latitude + A3·altitude + A4·ln(surface).
func ParA(lake types.LakeCharacteristics, c Constants) float64 {
	return c.A1 + c.A2*lake.Latitude + c.A3*lake.Altitude + c.A4*math.Log(lake.Surface)
}

// ParB returns B = B1 + B2·zmax.
func ParB(lake types.LakeCharacteristics, c Constants) float64 {
	return c.B1 + c.B2*lake.Zmax
}

// ParC returns C = C1 + C2·altitude.
func ParC(lake types.LakeCharacteristics, c Constants) float64 {
	return c.C1 + c.C2*lake.Altitude
}

// ParAlpha returns ALPHA = exp(ALPHA1 + ALPHA2·altitude + ALPHA3·ln(surface) + ALPHA4·ln(volume)).
func ParAlpha(lake types.LakeCharacteristics, c Constants) float64 {
	return math.Exp(c.Alpha1 +
		c.Alpha2*lake.Altitude +
		c.Alpha3*math.Log(lake.Surface) +
		c.Alpha4*math.Log(lake.Volume))
}

// ParE returns E = E1 + (1-E1) / (1 + exp(E3·(E2 - ln(zmean)))) with
// zmean = volume / surface.
func ParE(lake types.LakeCharacteristics, c Constants) float64 {
	zmean := lake.MeanDepth()
	return c.E1 + (1-c.E1)/(1+math.Exp(c.E3*(c.E2-math.Log(zmean))))
}

// ParBeta returns BETA1 when E > BETA3 and BETA2 otherwise. The switch is a
// hard threshold.
func ParBeta(e float64, c Constants) float64 {
	if e > c.Beta3 {
		return c.Beta1
	}
	return c.Beta2
}

// MeanAirTemperature returns the arithmetic mean of tair.
func MeanAirTemperature(tair []float64) (float64, error) {
	if len(tair) == 0 {
		return 0, fmt.Errorf("mean air temperature of an empty series: %w", types.ErrInvalidInput)
	}
	return stat.Mean(tair, nil), nil
}

// EstimateWithForcing estimates the parameter set of lake and sets MAT to
// the mean of tair.
func (e *Estimator) EstimateWithForcing(lake types.LakeCharacteristics, tair []float64) (types.ParameterSet, error) {
	params, err := e.Estimate(lake)
	if err != nil {
		return types.ParameterSet{}, err
	}
	if params.MAT, err = MeanAirTemperature(tair); err != nil {
		return types.ParameterSet{}, err
	}
	return params, nil
}
