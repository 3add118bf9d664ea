// Package density computes the density of fresh water from its temperature.
package density

// Markofsky & Harleman (1971) quadratic fit around the temperature of
// maximum density.
const (
	MaxDensity            = 1000.0  // kg/m³
	MaxDensityTemperature = 4.0     // °C
	expansionCoefficient  = 6.63e-6 // °C⁻²
)

// Water returns the density of water in kg/m³ at temp °C. It is maximal at
// 4 °C and decreases with (temp-4)².
func Water(temp float64) float64 {
	d := temp - MaxDensityTemperature
	return MaxDensity * (1 - expansionCoefficient*d*d)
}
