package density

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWater(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		want float64
	}{
		{name: "maximum density", temp: 4, want: 1000},
		{name: "freezing point", temp: 0, want: 1000 * (1 - 6.63e-6*16)},
		{name: "summer surface", temp: 24, want: 1000 * (1 - 6.63e-6*400)},
		{name: "below zero", temp: -2, want: 1000 * (1 - 6.63e-6*36)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Water(tt.temp), 1e-9)
		})
	}
}

func TestWaterSymmetricAroundMaximum(t *testing.T) {
	for _, d := range []float64{0.5, 1, 3, 10, 20} {
		assert.InDelta(t, Water(4-d), Water(4+d), 1e-9, "offset %v", d)
		assert.Less(t, Water(4+d), Water(4))
	}
}

func TestWaterDecreasesAwayFromMaximum(t *testing.T) {
	prev := Water(4)
	for temp := 4.5; temp <= 30; temp += 0.5 {
		d := Water(temp)
		assert.Less(t, d, prev, "temperature %v", temp)
		prev = d
	}
}
