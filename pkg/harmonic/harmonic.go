// Package harmonic fits the first harmonic of a Fourier series to a
// periodic signal. It is used to extract the seasonal cycle of solar
// radiation as a single sinusoid y = m + a·sin(2πx/period + ph).
package harmonic

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmptyInput is returned when there is nothing to fit.
	ErrEmptyInput = errors.New("harmonic: empty input")

	// ErrLengthMismatch is returned when x and y differ in length.
	ErrLengthMismatch = errors.New("harmonic: x and y differ in length")

	// ErrPeriod is returned for a zero, negative or non-finite period.
	ErrPeriod = errors.New("harmonic: period must be a positive finite number")
)

// Sinusoid is a fitted seasonal cycle.
type Sinusoid struct {
	Mean      float64
	Amplitude float64
	Phase     float64 // radians
	Period    float64
}

// At evaluates the sinusoid at x.
func (s Sinusoid) At(x float64) float64 {
	return s.Mean + s.Amplitude*math.Sin(2*math.Pi*x/s.Period+s.Phase)
}

// Fit computes the first-harmonic Fourier coefficients of y sampled at x:
//
//	a0 = mean(y)
//	a1 = 2·mean(y·cos(2πx/period))
//	b1 = 2·mean(y·sin(2πx/period))
//
// and returns mean a0, amplitude sqrt(a1²+b1²) and phase atan2(a1, b1).
// The coefficients recover the sinusoid exactly when x covers whole periods.
func Fit(x, y []float64, period float64) (Sinusoid, error) {
	if len(x) != len(y) {
		return Sinusoid{}, ErrLengthMismatch
	}
	if len(y) == 0 {
		return Sinusoid{}, ErrEmptyInput
	}
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return Sinusoid{}, ErrPeriod
	}

	n := float64(len(y))
	cos := make([]float64, len(x))
	sin := make([]float64, len(x))
	for i, xi := range x {
		sin[i], cos[i] = math.Sincos(2 * math.Pi * xi / period)
	}

	a0 := floats.Sum(y) / n
	a1 := 2 * floats.Dot(y, cos) / n
	b1 := 2 * floats.Dot(y, sin) / n

	return Sinusoid{
		Mean:      a0,
		Amplitude: math.Hypot(a1, b1),
		Phase:     math.Atan2(a1, b1),
		Period:    period,
	}, nil
}

// FitSeries fits a series sampled at 0, 1, 2, ... len(y)-1.
func FitSeries(y []float64, period float64) (Sinusoid, error) {
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return Fit(x, y, period)
}

// Reconstruct evaluates s at 0, 1, ... n-1.
func (s Sinusoid) Reconstruct(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.At(float64(i))
	}
	return out
}
