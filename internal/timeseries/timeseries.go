// Package timeseries selects date ranges of daily series and aggregates
// daily series to weekly or monthly means.
package timeseries

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// ClampRange limits the requested [start, end] to the span of dates. A zero
// start or end means "from the first date" or "to the last date". The
// returned flags report whether the requested bound fell outside the data
// and was replaced.
func ClampRange(dates []time.Time, start, end time.Time) (from, to time.Time, startClamped, endClamped bool) {
	if len(dates) == 0 {
		return start, end, false, false
	}
	first, last := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	from, to = start, end
	if from.IsZero() {
		from = first
	} else if from.Before(first) {
		from, startClamped = first, true
	}
	if to.IsZero() {
		to = last
	} else if to.After(last) {
		to, endClamped = last, true
	}
	return from, to, startClamped, endClamped
}

// SelectRange returns the indices of dates with start <= date <= end.
func SelectRange(dates []time.Time, start, end time.Time) []int {
	idx := make([]int, 0, len(dates))
	for i, d := range dates {
		if !d.Before(start) && !d.After(end) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Weekly averages a gap-free daily series over consecutive 7-day blocks
// starting at the first date. Each block is dated by its first day. A
// trailing block with fewer than 7 days is NaN.
func Weekly(dates []time.Time, values []float64) ([]time.Time, []float64) {
	var (
		outDates  []time.Time
		outValues []float64
	)
	for i := 0; i < len(values); i += 7 {
		end := i + 7
		outDates = append(outDates, dates[i])
		if end > len(values) {
			outValues = append(outValues, math.NaN())
			continue
		}
		outValues = append(outValues, floats.Sum(values[i:end])/7)
	}
	return outDates, outValues
}

// maxMissingDaysPerMonth is the number of NaN days that invalidates a
// monthly mean.
const maxMissingDaysPerMonth = 3

// Monthly averages a daily series by calendar month. Each month is dated by
// its first day. NaN days are skipped unless there are 3 or more of them,
// in which case the month is NaN.
func Monthly(dates []time.Time, values []float64) ([]time.Time, []float64) {
	type bucket struct {
		sum     float64
		n       int
		missing int
	}

	var (
		order   []time.Time
		buckets = make(map[time.Time]*bucket)
	)
	for i, d := range dates {
		key := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		if math.IsNaN(values[i]) {
			b.missing++
			continue
		}
		b.sum += values[i]
		b.n++
	}

	outValues := make([]float64, len(order))
	for i, key := range order {
		b := buckets[key]
		if b.missing >= maxMissingDaysPerMonth || b.n == 0 {
			outValues[i] = math.NaN()
			continue
		}
		outValues[i] = b.sum / float64(b.n)
	}
	return order, outValues
}
