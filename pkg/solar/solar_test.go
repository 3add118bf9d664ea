package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSunPositionEquinoxNoon(t *testing.T) {
	noon := time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC)
	pos := SunPosition(noon, 0, 0)

	assert.InDelta(t, 0.0, pos.DeclinationDeg, 0.5)
	assert.InDelta(t, 0.0, pos.ZenithDeg, 2.5)
	assert.InDelta(t, 1.0, pos.Distance, 0.02)
}

func TestClearSkyIrradianceNight(t *testing.T) {
	midnight := time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, ClearSkyIrradiance(midnight, 45, 0, 0))
}

func TestDailyMeanClearSky(t *testing.T) {
	summer := time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2021, 12, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{
			name: "summer exceeds winter at mid latitude",
			check: func(t *testing.T) {
				assert.Greater(t, DailyMeanClearSky(summer, 45, 0), DailyMeanClearSky(winter, 45, 0))
			},
		},
		{
			name: "polar night is dark",
			check: func(t *testing.T) {
				assert.Equal(t, 0.0, DailyMeanClearSky(winter, 80, 0))
			},
		},
		{
			name: "altitude increases irradiance",
			check: func(t *testing.T) {
				assert.Greater(t, DailyMeanClearSky(summer, 45, 2000), DailyMeanClearSky(summer, 45, 0))
			},
		},
		{
			name: "plausible magnitude",
			check: func(t *testing.T) {
				v := DailyMeanClearSky(summer, 45, 0)
				assert.Greater(t, v, 200.0)
				assert.Less(t, v, 450.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}
