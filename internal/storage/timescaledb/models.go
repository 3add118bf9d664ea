package timescaledb

import (
	"time"

	"github.com/google/uuid"

	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/internal/types"
)

// runRecord is a row of okp_runs.
type runRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Lake        string
	Periodicity string
	CreatedAt   time.Time
	A           float64
	B           float64
	C           float64
	D           float64
	E           float64
	Alpha       float64
	Beta        float64
	ATFactor    float64 `gorm:"column:at_factor"`
	SWFactor    float64 `gorm:"column:sw_factor"`
	MAT         float64 `gorm:"column:mat"`
}

func (runRecord) TableName() string {
	return "okp_runs"
}

// seriesRecord is a row of the okp_series hypertable.
type seriesRecord struct {
	Time  time.Time `gorm:"primaryKey"`
	RunID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tepi  float64
	Thyp  float64
}

func (seriesRecord) TableName() string {
	return "okp_series"
}

func toRecords(run *storage.Run) (runRecord, []seriesRecord) {
	p := run.Parameters
	rr := runRecord{
		ID:          run.ID,
		Lake:        run.Lake,
		Periodicity: string(run.Periodicity),
		CreatedAt:   run.CreatedAt,
		A:           p.A,
		B:           p.B,
		C:           p.C,
		D:           p.D,
		E:           p.E,
		Alpha:       p.Alpha,
		Beta:        p.Beta,
		ATFactor:    p.ATFactor,
		SWFactor:    p.SWFactor,
		MAT:         p.MAT,
	}

	series := make([]seriesRecord, run.Series.Len())
	for i := range series {
		series[i] = seriesRecord{
			Time:  run.Series.Dates[i],
			RunID: run.ID,
			Tepi:  run.Series.Tepi[i],
			Thyp:  run.Series.Thyp[i],
		}
	}
	return rr, series
}

func fromRecords(rr runRecord, series []seriesRecord) *storage.Run {
	run := &storage.Run{
		ID:          rr.ID,
		Lake:        rr.Lake,
		Periodicity: types.Periodicity(rr.Periodicity),
		CreatedAt:   rr.CreatedAt,
		Parameters: types.ParameterSet{
			A: rr.A, B: rr.B, C: rr.C, D: rr.D, E: rr.E,
			Alpha: rr.Alpha, Beta: rr.Beta,
			ATFactor: rr.ATFactor, SWFactor: rr.SWFactor, MAT: rr.MAT,
		},
		Series: types.SimulatedSeries{
			Dates: make([]time.Time, len(series)),
			Tepi:  make([]float64, len(series)),
			Thyp:  make([]float64, len(series)),
		},
	}
	for i, s := range series {
		run.Series.Dates[i] = s.Time.UTC()
		run.Series.Tepi[i] = s.Tepi
		run.Series.Thyp[i] = s.Thyp
	}
	return run
}
