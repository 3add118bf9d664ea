package types

import (
	"fmt"
	"math"
	"strings"
)

// LakeType selects the regression constants used for the hypolimnion
// parameter E. Natural lakes and reservoirs have different constants.
type LakeType string

const (
	Lake      LakeType = "L"
	Reservoir LakeType = "R"
)

// ParseLakeType accepts the single-letter codes used in lake files as well
// as the spelled-out names, case-insensitively.
func ParseLakeType(s string) (LakeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "lake":
		return Lake, nil
	case "r", "reservoir":
		return Reservoir, nil
	}
	return "", fmt.Errorf("unknown water body type %q: %w", s, ErrInvalidInput)
}

func (t LakeType) String() string {
	switch t {
	case Lake:
		return "lake"
	case Reservoir:
		return "reservoir"
	}
	return string(t)
}

// LakeCharacteristics are the morphometric and geographic properties of a
// water body. Latitude is in degrees north, altitude and zmax in metres,
// surface in m² and volume in m³.
type LakeCharacteristics struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type     LakeType `json:"type" yaml:"type" msgpack:"type"`
	Latitude float64  `json:"latitude" yaml:"latitude" msgpack:"latitude"`
	Altitude float64  `json:"altitude" yaml:"altitude" msgpack:"altitude"`
	Zmax     float64  `json:"zmax" yaml:"zmax" msgpack:"zmax"`
	Surface  float64  `json:"surface" yaml:"surface" msgpack:"surface"`
	Volume   float64  `json:"volume" yaml:"volume" msgpack:"volume"`
}

// MeanDepth returns volume / surface.
func (l LakeCharacteristics) MeanDepth() float64 {
	return l.Volume / l.Surface
}

// Validate checks the fields every parameter equation relies on.
func (l LakeCharacteristics) Validate() error {
	if l.Type != Lake && l.Type != Reservoir {
		return fmt.Errorf("water body type %q: %w", l.Type, ErrInvalidInput)
	}
	for name, v := range map[string]float64{
		"latitude": l.Latitude,
		"altitude": l.Altitude,
		"zmax":     l.Zmax,
		"surface":  l.Surface,
		"volume":   l.Volume,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number: %w", name, ErrInvalidInput)
		}
	}
	if l.Surface <= 0 || l.Volume <= 0 {
		return fmt.Errorf("surface (%g) and volume (%g) must be positive: %w", l.Surface, l.Volume, ErrDomain)
	}
	return nil
}
