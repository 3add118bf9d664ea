package config

import (
	"fmt"
	"time"

	"github.com/chrissnell/laketemp/internal/types"
)

// SimulationData describes a single laketemp run: where its files live,
// the date range and the simulation and output periodicities. File names
// are relative to Folder.
type SimulationData struct {
	Folder         string `json:"folder,omitempty" yaml:"folder,omitempty"`
	Lake           string `json:"lake,omitempty" yaml:"lake,omitempty"`
	MeteoFile      string `json:"meteo_file,omitempty" yaml:"meteo_file,omitempty"`
	LakeFile       string `json:"lake_file,omitempty" yaml:"lake_file,omitempty"`
	ParFile        string `json:"par_file,omitempty" yaml:"par_file,omitempty"`
	OutputFile     string `json:"output_file,omitempty" yaml:"output_file,omitempty"`
	ObsFile        string `json:"obs_file,omitempty" yaml:"obs_file,omitempty"`
	ValidationFile string `json:"validation_file,omitempty" yaml:"validation_file,omitempty"`
	Start          string `json:"start,omitempty" yaml:"start,omitempty"`
	End            string `json:"end,omitempty" yaml:"end,omitempty"`

	Daily   bool `json:"daily,omitempty" yaml:"daily,omitempty"`
	Weekly  bool `json:"weekly,omitempty" yaml:"weekly,omitempty"`
	Monthly bool `json:"monthly,omitempty" yaml:"monthly,omitempty"`

	DailyOutput   bool `json:"daily_output,omitempty" yaml:"daily_output,omitempty"`
	WeeklyOutput  bool `json:"weekly_output,omitempty" yaml:"weekly_output,omitempty"`
	MonthlyOutput bool `json:"monthly_output,omitempty" yaml:"monthly_output,omitempty"`

	// FillClearSkySR synthesises solar radiation from the lake latitude
	// and altitude when the meteorological file has no sr column.
	FillClearSkySR bool `json:"fill_clear_sky_sr,omitempty" yaml:"fill_clear_sky_sr,omitempty"`
}

// ResolvedSimulation holds the validated choices of a SimulationData.
type ResolvedSimulation struct {
	Periodicity types.Periodicity
	// OutputPeriodicity is empty when no output aggregation was requested.
	OutputPeriodicity types.Periodicity
	Start, End        time.Time
}

// Resolve checks that at most one simulation periodicity and at most one
// output periodicity are selected and parses the date range. A zero Start
// or End means the range is open on that side.
func (s SimulationData) Resolve() (ResolvedSimulation, error) {
	var r ResolvedSimulation

	p, err := pickOne("simulation periodicity", map[types.Periodicity]bool{
		types.Daily: s.Daily, types.Weekly: s.Weekly, types.Monthly: s.Monthly,
	})
	if err != nil {
		return r, err
	}
	if p == "" {
		p = types.Daily
	}
	r.Periodicity = p

	if r.OutputPeriodicity, err = pickOne("output periodicity", map[types.Periodicity]bool{
		types.Daily: s.DailyOutput, types.Weekly: s.WeeklyOutput, types.Monthly: s.MonthlyOutput,
	}); err != nil {
		return r, err
	}

	if r.Start, err = parseDate("start", s.Start); err != nil {
		return r, err
	}
	if r.End, err = parseDate("end", s.End); err != nil {
		return r, err
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, fmt.Errorf("end date %s is before start date %s: %w", s.End, s.Start, types.ErrInvalidInput)
	}
	return r, nil
}

func pickOne(what string, choices map[types.Periodicity]bool) (types.Periodicity, error) {
	var picked types.Periodicity
	for _, p := range []types.Periodicity{types.Daily, types.Weekly, types.Monthly} {
		if !choices[p] {
			continue
		}
		if picked != "" {
			return "", fmt.Errorf("%s: %s and %s are mutually exclusive: %w", what, picked, p, types.ErrInvalidInput)
		}
		picked = p
	}
	return picked, nil
}

func parseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(types.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s date %q is not YYYY-MM-DD: %w", name, value, types.ErrInvalidInput)
	}
	return t, nil
}
