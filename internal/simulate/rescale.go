package simulate

import (
	"math"

	"github.com/chrissnell/laketemp/internal/types"
)

// Rescale converts a daily smoothing constant to periodicity p:
// min(value·365.25/PeriodsPerYear(p), 1). Daily values are returned
// unchanged. A result above 1 is clamped to exactly 1.
func Rescale(value float64, p types.Periodicity) float64 {
	return math.Min(value*types.DaysPerYear/p.PeriodsPerYear(), 1)
}
