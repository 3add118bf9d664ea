package types

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLakeType(t *testing.T) {
	for _, s := range []string{"L", "l", "lake", " Lake "} {
		got, err := ParseLakeType(s)
		require.NoError(t, err, s)
		assert.Equal(t, Lake, got)
	}
	for _, s := range []string{"R", "reservoir", "RESERVOIR"} {
		got, err := ParseLakeType(s)
		require.NoError(t, err, s)
		assert.Equal(t, Reservoir, got)
	}
	_, err := ParseLakeType("pond")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParsePeriodicity(t *testing.T) {
	tests := []struct {
		in   string
		want Periodicity
		npy  float64
	}{
		{in: "", want: Daily, npy: 365.25},
		{in: "daily", want: Daily, npy: 365.25},
		{in: "Weekly", want: Weekly, npy: 52},
		{in: "monthly", want: Monthly, npy: 12},
	}
	for _, tt := range tests {
		got, err := ParsePeriodicity(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.npy, got.PeriodsPerYear())
	}

	_, err := ParsePeriodicity("hourly")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func validParams() ParameterSet {
	return ParameterSet{A: 6.2, B: 1.007, C: -0.007, D: 0.51, E: 0.24, Alpha: 0.07, Beta: 0.13, ATFactor: 1, SWFactor: 1, MAT: 4.5}
}

func TestParameterSetValidate(t *testing.T) {
	require.NoError(t, validParams().Validate())

	tests := []struct {
		name   string
		modify func(*ParameterSet)
	}{
		{name: "zero alpha", modify: func(p *ParameterSet) { p.Alpha = 0 }},
		{name: "alpha above one", modify: func(p *ParameterSet) { p.Alpha = 1.2 }},
		{name: "negative beta", modify: func(p *ParameterSet) { p.Beta = -0.1 }},
		{name: "E above one", modify: func(p *ParameterSet) { p.E = 1.01 }},
		{name: "infinite A", modify: func(p *ParameterSet) { p.A = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.modify(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidInput)
		})
	}
}

func TestParameterSetMapRoundTrip(t *testing.T) {
	p := validParams()
	m := p.ToMap()
	assert.Len(t, m, len(ParameterKeys))

	got, err := ParameterSetFromMap(m)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParameterSetFromMapMissingKeys(t *testing.T) {
	m := validParams().ToMap()
	delete(m, KeyMAT)
	delete(m, KeyBeta)

	_, err := ParameterSetFromMap(m)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "BETA, mat")
}

func TestLakeValidate(t *testing.T) {
	lake := LakeCharacteristics{Type: Lake, Latitude: 45, Altitude: 300, Zmax: 20, Surface: 1e6, Volume: 5e6}
	require.NoError(t, lake.Validate())
	assert.Equal(t, 5.0, lake.MeanDepth())

	lake.Surface = 0
	assert.ErrorIs(t, lake.Validate(), ErrDomain)
}

func TestForcingSeriesValidate(t *testing.T) {
	d0 := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	f := ForcingSeries{
		Dates: []time.Time{d0, d0.AddDate(0, 0, 1), d0.AddDate(0, 0, 2)},
		Tair:  []float64{1, 2, 3},
		SR:    []float64{10, 20, 30},
	}
	require.NoError(t, f.Validate())

	sub := f.Slice([]int{0, 2})
	assert.Equal(t, []float64{1, 3}, sub.Tair)
	assert.Equal(t, []float64{10, 30}, sub.SR)
	assert.Equal(t, d0.AddDate(0, 0, 2), sub.Dates[1])

	f.Dates[2] = d0
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)

	assert.ErrorIs(t, ForcingSeries{}.Validate(), ErrInvalidInput)
}
