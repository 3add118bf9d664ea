// Package validation computes error statistics of a simulated series
// against observations taken on a subset of its dates.
package validation

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/chrissnell/laketemp/internal/types"
	"gonum.org/v1/gonum/stat"
)

// Missing is the result reported for a variable without observations.
func Missing() types.ValidationResult {
	nan := math.NaN()
	return types.ValidationResult{N: 0, SD: nan, R: nan, ME: nan, MAE: nan, RMSE: nan}
}

// Compare joins the simulated and observed series on exact time equality
// and returns n, the population standard deviation of the residuals
// (sim - obs), the Pearson correlation, the mean error, the mean absolute
// error and the root mean square error. Observations that are NaN are
// skipped. An empty join is not an error: N is 0 and every statistic NaN.
func Compare[T cmp.Ordered](tSim []T, vSim []float64, tObs []T, vObs []float64) (types.ValidationResult, error) {
	if len(tSim) != len(vSim) {
		return types.ValidationResult{}, fmt.Errorf("%d simulated times for %d values: %w", len(tSim), len(vSim), types.ErrInvalidInput)
	}
	if len(tObs) != len(vObs) {
		return types.ValidationResult{}, fmt.Errorf("%d observed times for %d values: %w", len(tObs), len(vObs), types.ErrInvalidInput)
	}

	sim, err := sortedByTime(tSim, vSim)
	if err != nil {
		return types.ValidationResult{}, fmt.Errorf("simulated series: %w", err)
	}
	obs, err := sortedByTime(tObs, vObs)
	if err != nil {
		return types.ValidationResult{}, fmt.Errorf("observed series: %w", err)
	}

	// Both sides are sorted and unique, so a merge walk is the inner join.
	var s, o []float64
	for i, j := 0, 0; i < len(sim) && j < len(obs); {
		switch c := cmp.Compare(sim[i].t, obs[j].t); {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			// A missing observation drops its date from the join instead of
			// turning every statistic into NaN. Keep it that way.
			if !math.IsNaN(obs[j].v) {
				s = append(s, sim[i].v)
				o = append(o, obs[j].v)
			}
			i++
			j++
		}
	}

	return statistics(s, o), nil
}

func statistics(sim, obs []float64) types.ValidationResult {
	n := len(sim)
	if n == 0 {
		return Missing()
	}

	res := make([]float64, n)
	abs := make([]float64, n)
	sq := make([]float64, n)
	for i := range sim {
		res[i] = sim[i] - obs[i]
		abs[i] = math.Abs(res[i])
		sq[i] = res[i] * res[i]
	}

	me, sd := stat.PopMeanStdDev(res, nil)
	return types.ValidationResult{
		N:    n,
		SD:   sd,
		R:    stat.Correlation(sim, obs, nil),
		ME:   me,
		MAE:  stat.Mean(abs, nil),
		RMSE: math.Sqrt(stat.Mean(sq, nil)),
	}
}

type point[T cmp.Ordered] struct {
	t T
	v float64
}

func sortedByTime[T cmp.Ordered](ts []T, vs []float64) ([]point[T], error) {
	pts := make([]point[T], len(ts))
	for i := range ts {
		pts[i] = point[T]{t: ts[i], v: vs[i]}
	}
	slices.SortStableFunc(pts, func(a, b point[T]) int { return cmp.Compare(a.t, b.t) })
	for i := 1; i < len(pts); i++ {
		if pts[i].t == pts[i-1].t {
			return nil, fmt.Errorf("time %v appears more than once: %w", pts[i].t, types.ErrDuplicateTimestamp)
		}
	}
	return pts, nil
}
