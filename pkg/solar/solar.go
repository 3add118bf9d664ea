// Package solar provides clear-sky shortwave radiation estimates used to
// synthesise radiation forcing when a meteorological record has none.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	solarConstant  = 1361.0 // W/m²
	j2000          = 2451545.0
	linkeTurbidity = 2.0
)

// Position is the apparent position of the sun for an observer.
type Position struct {
	DeclinationDeg float64
	EqOfTimeMin    float64
	ZenithDeg      float64
	// Distance is the sun-earth distance in astronomical units.
	Distance float64
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// SunPosition computes the solar position at t for an observer at the
// given latitude and longitude (degrees, east positive).
func SunPosition(t time.Time, latitude, longitude float64) Position {
	t = t.UTC()
	T := (julian.TimeToJD(t) - j2000) / 36525.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	omega := 125.04 - 1934.136*T
	lambda := L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	decl := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(lambda)))

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTime := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
	ha := degToRad((utcMin+4*longitude+eqTime)/4 - 180)

	latRad := degToRad(latitude)
	cosZen := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(ha)
	cosZen = math.Max(-1, math.Min(1, cosZen))

	// true anomaly for the radius vector
	mRad := degToRad(M)
	E := mRad + e*math.Sin(mRad)*(1+e*math.Cos(mRad))
	v := 2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(E/2))

	return Position{
		DeclinationDeg: radToDeg(decl),
		EqOfTimeMin:    eqTime,
		ZenithDeg:      radToDeg(math.Acos(cosZen)),
		Distance:       (1 - e*e) / (1 + e*math.Cos(v)),
	}
}

// ClearSkyIrradiance returns global horizontal irradiance in W/m² under a
// clear sky (Ineichen-Perez form with a fixed Linke turbidity).
func ClearSkyIrradiance(t time.Time, latitude, longitude, altitude float64) float64 {
	pos := SunPosition(t, latitude, longitude)
	if pos.ZenithDeg >= 90 {
		return 0
	}

	g0 := solarConstant / (pos.Distance * pos.Distance)
	cosZ := math.Cos(degToRad(pos.ZenithDeg))
	// Kasten-Young air mass
	am := 1.0 / (cosZ + 0.50572*math.Pow(96.07995-pos.ZenithDeg, -1.6364))

	dni := g0 * 0.7 * math.Exp(-0.027*am*linkeTurbidity*math.Exp(-altitude/8000.0))
	fh := 0.1 + 0.05*math.Sin(math.Pi*float64(t.YearDay()-100)/365.0)
	dhi := fh * g0 * cosZ

	return dni*cosZ + dhi
}

// DailyMeanClearSky integrates hourly clear-sky irradiance over the UTC day
// containing date and returns the daily mean in W/m². The daily mean does
// not depend on longitude, so the integration runs on the prime meridian.
func DailyMeanClearSky(date time.Time, latitude, altitude float64) float64 {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var sum float64
	for h := 0; h < 24; h++ {
		t := day.Add(time.Duration(h)*time.Hour + 30*time.Minute)
		sum += ClearSkyIrradiance(t, latitude, 0, altitude)
	}
	return sum / 24
}
