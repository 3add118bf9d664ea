package types

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Keys used when a parameter set is persisted as key/value pairs, in the
// order they are written.
const (
	KeyA        = "A"
	KeyB        = "B"
	KeyC        = "C"
	KeyD        = "D"
	KeyE        = "E"
	KeyAlpha    = "ALPHA"
	KeyBeta     = "BETA"
	KeyATFactor = "at_factor"
	KeySWFactor = "sw_factor"
	KeyMAT      = "mat"
)

// ParameterKeys lists the persisted keys in file order.
var ParameterKeys = []string{KeyA, KeyB, KeyC, KeyD, KeyE, KeyAlpha, KeyBeta, KeyATFactor, KeySWFactor, KeyMAT}

// ParameterSet holds the OKP model parameters. Alpha and Beta are daily
// smoothing constants; the simulators rescale their own copy to the run
// periodicity. MAT is the mean air temperature of the forcing series.
type ParameterSet struct {
	Alpha    float64 `json:"ALPHA" yaml:"ALPHA" msgpack:"ALPHA"`
	Beta     float64 `json:"BETA" yaml:"BETA" msgpack:"BETA"`
	A        float64 `json:"A" yaml:"A" msgpack:"A"`
	B        float64 `json:"B" yaml:"B" msgpack:"B"`
	C        float64 `json:"C" yaml:"C" msgpack:"C"`
	D        float64 `json:"D" yaml:"D" msgpack:"D"`
	E        float64 `json:"E" yaml:"E" msgpack:"E"`
	ATFactor float64 `json:"at_factor" yaml:"at_factor" msgpack:"at_factor"`
	SWFactor float64 `json:"sw_factor" yaml:"sw_factor" msgpack:"sw_factor"`
	MAT      float64 `json:"mat" yaml:"mat" msgpack:"mat"`
}

// Validate checks 0 < Alpha <= 1, 0 < Beta <= 1, 0 <= E <= 1 and that
// every field is finite.
func (p ParameterSet) Validate() error {
	for k, v := range p.ToMap() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("parameter %s is not a finite number: %w", k, ErrInvalidInput)
		}
	}
	if p.Alpha <= 0 || p.Alpha > 1 {
		return fmt.Errorf("ALPHA=%g must be in (0, 1]: %w", p.Alpha, ErrInvalidInput)
	}
	if p.Beta <= 0 || p.Beta > 1 {
		return fmt.Errorf("BETA=%g must be in (0, 1]: %w", p.Beta, ErrInvalidInput)
	}
	if p.E < 0 || p.E > 1 {
		return fmt.Errorf("E=%g must be in [0, 1]: %w", p.E, ErrInvalidInput)
	}
	return nil
}

// ToMap returns the parameter set keyed by its persisted names.
func (p ParameterSet) ToMap() map[string]float64 {
	return map[string]float64{
		KeyA:        p.A,
		KeyB:        p.B,
		KeyC:        p.C,
		KeyD:        p.D,
		KeyE:        p.E,
		KeyAlpha:    p.Alpha,
		KeyBeta:     p.Beta,
		KeyATFactor: p.ATFactor,
		KeySWFactor: p.SWFactor,
		KeyMAT:      p.MAT,
	}
}

// ParameterSetFromMap builds a ParameterSet from persisted key/value pairs.
// Every key in ParameterKeys is required; unknown keys are ignored.
func ParameterSetFromMap(m map[string]float64) (ParameterSet, error) {
	var missing []string
	get := func(k string) float64 {
		v, ok := m[k]
		if !ok {
			missing = append(missing, k)
		}
		return v
	}

	p := ParameterSet{
		A:        get(KeyA),
		B:        get(KeyB),
		C:        get(KeyC),
		D:        get(KeyD),
		E:        get(KeyE),
		Alpha:    get(KeyAlpha),
		Beta:     get(KeyBeta),
		ATFactor: get(KeyATFactor),
		SWFactor: get(KeySWFactor),
		MAT:      get(KeyMAT),
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return ParameterSet{}, fmt.Errorf("missing parameters %s: %w", strings.Join(missing, ", "), ErrInvalidInput)
	}
	return p, nil
}
