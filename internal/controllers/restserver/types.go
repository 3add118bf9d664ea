package restserver

import (
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/internal/types"
)

// ForcingRecord is one period of meteorological input.
type ForcingRecord struct {
	Date string  `json:"date"`
	Tair float64 `json:"tair"`
	SR   float64 `json:"sr"`
}

// SimulateRequest selects the parameter set of a simulation in order of
// precedence: explicit parameters, lake characteristics to estimate them
// from, or the name of a configured lake.
type SimulateRequest struct {
	Parameters  *types.ParameterSet        `json:"parameters,omitempty"`
	Lake        *types.LakeCharacteristics `json:"lake,omitempty"`
	LakeName    string                     `json:"lake_name,omitempty"`
	Periodicity string                     `json:"periodicity,omitempty"`
	Forcing     []ForcingRecord            `json:"forcing"`
}

// SeriesRecord is one period of simulated output. NaN values are null.
type SeriesRecord struct {
	Date string   `json:"date"`
	Tepi *float64 `json:"tepi"`
	Thyp *float64 `json:"thyp"`
}

// SimulateResponse carries the simulated series and, when runs are stored,
// the identifier of the stored run.
type SimulateResponse struct {
	RunID       string             `json:"run_id,omitempty"`
	Lake        string             `json:"lake,omitempty"`
	Periodicity string             `json:"periodicity"`
	Parameters  types.ParameterSet `json:"parameters"`
	Series      []SeriesRecord     `json:"series"`
}

// EstimatedParameters is the estimator output. The mean air temperature is
// not part of it because it depends on the forcing series.
type EstimatedParameters struct {
	A        float64 `json:"A"`
	B        float64 `json:"B"`
	C        float64 `json:"C"`
	D        float64 `json:"D"`
	E        float64 `json:"E"`
	Alpha    float64 `json:"ALPHA"`
	Beta     float64 `json:"BETA"`
	ATFactor float64 `json:"at_factor"`
	SWFactor float64 `json:"sw_factor"`
}

// PointRecord is a dated value. A null value is a missing observation.
type PointRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// ValidateRequest holds a simulated and an observed series of one variable.
type ValidateRequest struct {
	Simulated []PointRecord `json:"simulated"`
	Observed  []PointRecord `json:"observed"`
}

// ValidationResponse reports the statistics of a comparison. Statistics
// that are undefined are null.
type ValidationResponse struct {
	N    int      `json:"n"`
	SD   *float64 `json:"sd"`
	R    *float64 `json:"r"`
	ME   *float64 `json:"me"`
	MAE  *float64 `json:"mae"`
	RMSE *float64 `json:"rmse"`
}

// LakeParametersResponse is the parameter set configured for a lake.
type LakeParametersResponse struct {
	Lake       string             `json:"lake"`
	Parameters types.ParameterSet `json:"parameters"`
}

// RunResponse is a stored simulation run.
type RunResponse struct {
	ID          string             `json:"id"`
	Lake        string             `json:"lake,omitempty"`
	Periodicity string             `json:"periodicity"`
	Parameters  types.ParameterSet `json:"parameters"`
	CreatedAt   time.Time          `json:"created_at"`
	Series      []SeriesRecord     `json:"series"`
}

// HealthResponse reports the state of the server and its run storage.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// finite returns nil for NaN and infinities so they encode as null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// normalizeLake accepts the spelled-out water body types as well as the
// single-letter codes.
func normalizeLake(lake *types.LakeCharacteristics) error {
	t, err := types.ParseLakeType(string(lake.Type))
	if err != nil {
		return err
	}
	lake.Type = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", s, types.ErrInvalidInput)
	}
	return t, nil
}

func toForcing(records []ForcingRecord) (types.ForcingSeries, error) {
	f := types.ForcingSeries{
		Dates: make([]time.Time, len(records)),
		Tair:  make([]float64, len(records)),
		SR:    make([]float64, len(records)),
	}
	for i, r := range records {
		d, err := parseDate(r.Date)
		if err != nil {
			return types.ForcingSeries{}, fmt.Errorf("forcing record %d: %w", i, err)
		}
		f.Dates[i] = d
		f.Tair[i] = r.Tair
		f.SR[i] = r.SR
	}
	return f, nil
}

func toPoints(records []PointRecord) ([]int64, []float64, error) {
	times := make([]int64, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		d, err := parseDate(r.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		times[i] = d.Unix()
		values[i] = valueOrNaN(r.Value)
	}
	return times, values, nil
}

func seriesRecords(s types.SimulatedSeries) []SeriesRecord {
	out := make([]SeriesRecord, s.Len())
	for i := range out {
		if i < len(s.Dates) {
			out[i].Date = s.Dates[i].Format(types.DateLayout)
		}
		out[i].Tepi = finite(s.Tepi[i])
		out[i].Thyp = finite(s.Thyp[i])
	}
	return out
}

func estimatedParameters(p types.ParameterSet) EstimatedParameters {
	return EstimatedParameters{
		A:        p.A,
		B:        p.B,
		C:        p.C,
		D:        p.D,
		E:        p.E,
		Alpha:    p.Alpha,
		Beta:     p.Beta,
		ATFactor: p.ATFactor,
		SWFactor: p.SWFactor,
	}
}

func validationResponse(r types.ValidationResult) ValidationResponse {
	return ValidationResponse{
		N:    r.N,
		SD:   finite(r.SD),
		R:    finite(r.R),
		ME:   finite(r.ME),
		MAE:  finite(r.MAE),
		RMSE: finite(r.RMSE),
	}
}

func runResponse(run *storage.Run) RunResponse {
	return RunResponse{
		ID:          run.ID.String(),
		Lake:        run.Lake,
		Periodicity: run.Periodicity.String(),
		Parameters:  run.Parameters,
		CreatedAt:   run.CreatedAt,
		Series:      seriesRecords(run.Series),
	}
}
