package validation

import (
	"math"
	"testing"

	"github.com/chrissnell/laketemp/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) ([]int, []float64) {
	t := make([]int, n)
	v := make([]float64, n)
	for i := range t {
		t[i] = i
		v[i] = float64(i)
	}
	return t, v
}

func TestCompare(t *testing.T) {
	tSim, vSim := seq(20)

	tests := []struct {
		name string
		tObs []int
		vObs []float64
		want types.ValidationResult
	}{
		{
			name: "all observations matched",
			tObs: []int{3, 5, 6, 15},
			vObs: []float64{3, 5, 7, 15},
			want: types.ValidationResult{N: 4, SD: 0.4330127018922193, R: 0.9955832375394492, ME: -0.25, MAE: 0.25, RMSE: 0.5},
		},
		{
			name: "observation outside the simulation",
			tObs: []int{33, 5, 6, 15},
			vObs: []float64{3, 5, 7, 15},
			want: types.ValidationResult{N: 3, SD: 0.4714045207910317, R: 0.9950820986458987, ME: -1.0 / 3, MAE: 1.0 / 3, RMSE: math.Sqrt(1.0 / 3)},
		},
		{
			name: "unsorted observations",
			tObs: []int{15, 6, 3, 5},
			vObs: []float64{15, 7, 3, 5},
			want: types.ValidationResult{N: 4, SD: 0.4330127018922193, R: 0.9955832375394492, ME: -0.25, MAE: 0.25, RMSE: 0.5},
		},
		{
			name: "missing observation skipped",
			tObs: []int{3, 4, 5, 6, 15},
			vObs: []float64{3, math.NaN(), 5, 7, 15},
			want: types.ValidationResult{N: 4, SD: 0.4330127018922193, R: 0.9955832375394492, ME: -0.25, MAE: 0.25, RMSE: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tSim, vSim, tt.tObs, tt.vObs)
			require.NoError(t, err)

			assert.Equal(t, tt.want.N, got.N)
			assert.InDelta(t, tt.want.SD, got.SD, 1e-12)
			assert.InDelta(t, tt.want.R, got.R, 1e-12)
			assert.InDelta(t, tt.want.ME, got.ME, 1e-12)
			assert.InDelta(t, tt.want.MAE, got.MAE, 1e-12)
			assert.InDelta(t, tt.want.RMSE, got.RMSE, 1e-12)
		})
	}
}

func TestCompareUnsortedSimulation(t *testing.T) {
	got, err := Compare([]string{"2020-01-03", "2020-01-01", "2020-01-02"}, []float64{3, 1, 2},
		[]string{"2020-01-02", "2020-01-03"}, []float64{2.5, 2.5})
	require.NoError(t, err)

	assert.Equal(t, 2, got.N)
	assert.InDelta(t, 0.0, got.ME, 1e-12)
	assert.InDelta(t, 0.5, got.MAE, 1e-12)
	assert.InDelta(t, 0.5, got.SD, 1e-12)
}

func TestCompareNoOverlap(t *testing.T) {
	tSim, vSim := seq(5)
	got, err := Compare(tSim, vSim, []int{10, 11}, []float64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, 0, got.N)
	for _, v := range []float64{got.SD, got.R, got.ME, got.MAE, got.RMSE} {
		assert.True(t, math.IsNaN(v))
	}
}

func TestCompareDuplicateTimestamps(t *testing.T) {
	tSim, vSim := seq(5)

	_, err := Compare(tSim, vSim, []int{1, 2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, types.ErrDuplicateTimestamp)

	_, err = Compare([]int{0, 1, 1}, []float64{0, 1, 1}, []int{1}, []float64{1})
	assert.ErrorIs(t, err, types.ErrDuplicateTimestamp)
}

func TestCompareLengthMismatch(t *testing.T) {
	_, err := Compare([]int{0, 1}, []float64{0}, []int{1}, []float64{1})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = Compare([]int{0}, []float64{0}, []int{1, 2}, []float64{1})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestMissing(t *testing.T) {
	m := Missing()
	assert.Equal(t, 0, m.N)
	assert.True(t, math.IsNaN(m.RMSE))
}
