package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/laketemp/internal/datafile"
	"github.com/chrissnell/laketemp/internal/estimate"
	"github.com/chrissnell/laketemp/internal/simulate"
	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/internal/timeseries"
	"github.com/chrissnell/laketemp/internal/types"
	"github.com/chrissnell/laketemp/internal/validation"
	"github.com/chrissnell/laketemp/pkg/config"
)

// Default file names inside the data folder.
const (
	DefaultMeteoFile  = "meteo.txt"
	DefaultLakeFile   = "lake.txt"
	DefaultParFile    = "par.txt"
	DefaultOutputFile = "output.txt"
)

// msgpackExtension selects MessagePack output instead of the text table.
const msgpackExtension = ".msgpack"

// Job is a fully resolved simulation run.
type Job struct {
	// Lake names the configured lake whose characteristics and parameters
	// are used when neither the parameter file nor the lake file exists.
	Lake string

	MeteoFile      string
	LakeFile       string
	ParFile        string
	OutputFile     string
	ObsFile        string
	ValidationFile string

	Simulation     config.ResolvedSimulation
	FillClearSkySR bool
}

// JobFromConfig resolves the file names of sim against its folder, which
// defaults to the working directory, and fills in the default names of the
// meteo, lake, parameter and output files.
func JobFromConfig(sim config.SimulationData) (Job, error) {
	resolved, err := sim.Resolve()
	if err != nil {
		return Job{}, err
	}

	folder := sim.Folder
	if folder == "" {
		if folder, err = os.Getwd(); err != nil {
			return Job{}, fmt.Errorf("could not determine working directory: %w", err)
		}
	}
	folder = expandHome(folder)

	path := func(name, def string) string {
		if name == "" {
			if def == "" {
				return ""
			}
			name = def
		}
		name = expandHome(name)
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(folder, name)
	}

	return Job{
		Lake:           sim.Lake,
		MeteoFile:      path(sim.MeteoFile, DefaultMeteoFile),
		LakeFile:       path(sim.LakeFile, DefaultLakeFile),
		ParFile:        path(sim.ParFile, DefaultParFile),
		OutputFile:     path(sim.OutputFile, DefaultOutputFile),
		ObsFile:        path(sim.ObsFile, ""),
		ValidationFile: path(sim.ValidationFile, ""),
		Simulation:     resolved,
		FillClearSkySR: sim.FillClearSkySR,
	}, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Result summarises a finished run.
type Result struct {
	Parameters types.ParameterSet
	// Estimated is true when the parameters were derived from the lake
	// characteristics rather than read.
	Estimated bool
	// Series is the simulation at its own periodicity, before any output
	// aggregation.
	Series types.SimulatedSeries
	// Output is what was written to the output file.
	Output types.SimulatedSeries

	// Validated is true when observations were compared.
	Validated   bool
	Epilimnion  types.ValidationResult
	Hypolimnion types.ValidationResult

	// RunID identifies the stored run; it is uuid.Nil without a store.
	RunID uuid.UUID
}

// Runner executes simulation jobs. The config provider and the run store
// are optional.
type Runner struct {
	configProvider config.ConfigProvider
	store          storage.RunStore
	estimator      *estimate.Estimator
	logger         *zap.SugaredLogger
}

// NewRunner creates a Runner. A nil logger discards log output.
func NewRunner(configProvider config.ConfigProvider, store storage.RunStore, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		configProvider: configProvider,
		store:          store,
		estimator:      estimate.New(nil),
		logger:         logger,
	}
}

// Run reads the forcing of job, obtains its parameter set, simulates both
// layers, writes the output and, for daily runs with observations, the
// validation statistics.
func (r *Runner) Run(ctx context.Context, job Job) (*Result, error) {
	if !exists(job.MeteoFile) {
		return nil, fmt.Errorf("could not find %s: %w", job.MeteoFile, os.ErrNotExist)
	}

	source, err := r.parameterSource(job)
	if err != nil {
		return nil, err
	}

	meteoOpts := datafile.MeteoOptions{FillClearSkySR: job.FillClearSkySR}
	if job.FillClearSkySR {
		if source.lake == nil {
			return nil, fmt.Errorf("filling clear-sky radiation needs the lake latitude and altitude: %w", types.ErrInvalidInput)
		}
		meteoOpts.Latitude = source.lake.Latitude
		meteoOpts.Altitude = source.lake.Altitude
	}

	forcing, err := datafile.ReadMeteo(job.MeteoFile, meteoOpts)
	if err != nil {
		return nil, fmt.Errorf("could not read meteorological data: %w", err)
	}
	forcing = r.selectRange(forcing, job.Simulation)
	if forcing.Len() == 0 {
		return nil, fmt.Errorf("no meteorological data between %s and %s: %w",
			job.Simulation.Start.Format(types.DateLayout), job.Simulation.End.Format(types.DateLayout), types.ErrInvalidInput)
	}

	res := &Result{}
	if res.Parameters, res.Estimated, err = r.parameters(job, source, forcing); err != nil {
		return nil, err
	}

	p := job.Simulation.Periodicity
	r.logger.Infof("simulating %d %s periods from %s to %s", forcing.Len(), p,
		forcing.Dates[0].Format(types.DateLayout), forcing.Dates[forcing.Len()-1].Format(types.DateLayout))
	if res.Series, err = simulate.Run(forcing, res.Parameters, p); err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	res.Output = r.aggregate(res.Series, job.Simulation)
	if err := writeOutput(job.OutputFile, res.Output); err != nil {
		return nil, fmt.Errorf("could not write output: %w", err)
	}
	r.logger.Infof("output written to %s", job.OutputFile)

	if job.ObsFile != "" {
		if err := r.validate(job, res); err != nil {
			return nil, err
		}
	}

	if r.store != nil {
		run := &storage.Run{
			Lake:        source.name,
			Periodicity: p,
			Parameters:  res.Parameters,
			Series:      res.Series,
		}
		if err := r.store.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("could not store run: %w", err)
		}
		res.RunID = run.ID
		r.logger.Infof("run stored as %s", run.ID)
	}

	return res, nil
}

// parameterSource records where the parameter set of a job comes from.
type parameterSource struct {
	name       string
	fromFile   bool
	lake       *types.LakeCharacteristics
	configured *types.ParameterSet
}

// parameterSource looks for, in order, the parameter file, the lake file
// and the lake configured under job.Lake. With a parameter file the lake
// characteristics are only loaded to fill in solar radiation.
func (r *Runner) parameterSource(job Job) (parameterSource, error) {
	src := parameterSource{name: job.Lake, fromFile: exists(job.ParFile)}
	if src.fromFile && !job.FillClearSkySR {
		return src, nil
	}

	if exists(job.LakeFile) {
		lake, err := datafile.ReadLake(job.LakeFile)
		if err != nil {
			return src, fmt.Errorf("could not read lake data: %w", err)
		}
		src.lake = &lake
		if src.name == "" {
			src.name = lake.Name
		}
	} else if job.Lake != "" && r.configProvider != nil {
		lake, err := r.configProvider.GetLake(job.Lake)
		if err != nil && !errors.Is(err, config.ErrNotFound) {
			return src, fmt.Errorf("could not look up lake %s: %w", job.Lake, err)
		}
		if lake != nil {
			src.lake = &lake.LakeCharacteristics
			src.configured = lake.Parameters
		}
	}

	if !src.fromFile && src.lake == nil {
		return src, fmt.Errorf("one of lake file or parameter file is necessary (%s, %s): %w", job.LakeFile, job.ParFile, os.ErrNotExist)
	}
	return src, nil
}

// parameters returns the parameter set of the run and whether it was
// estimated. Estimated sets are written to the parameter file and, when the
// config provider accepts writes, stored with the lake.
func (r *Runner) parameters(job Job, src parameterSource, forcing types.ForcingSeries) (types.ParameterSet, bool, error) {
	switch {
	case src.fromFile:
		r.logger.Infof("parameter file %s exists; using provided parameter values", job.ParFile)
		params, err := datafile.ReadParameters(job.ParFile)
		if err != nil {
			return params, false, fmt.Errorf("could not read parameters: %w", err)
		}
		return params, false, nil
	case src.configured != nil:
		r.logger.Infof("using the configured parameters of lake %s", src.name)
		return *src.configured, false, nil
	}

	r.logger.Info("parameter file does not exist; estimating parameter values from lake characteristics")
	params, err := r.estimator.EstimateWithForcing(*src.lake, forcing.Tair)
	if err != nil {
		return params, true, fmt.Errorf("could not estimate parameters: %w", err)
	}

	if job.ParFile != "" {
		if err := datafile.WriteParameters(job.ParFile, params); err != nil {
			return params, true, fmt.Errorf("could not write parameters: %w", err)
		}
		r.logger.Infof("estimated parameters written to %s", job.ParFile)
	}

	if src.name != "" && r.configProvider != nil && !r.configProvider.IsReadOnly() {
		if err := r.configProvider.SaveParameters(src.name, params); err != nil {
			if !errors.Is(err, config.ErrNotFound) {
				return params, true, fmt.Errorf("could not save parameters of lake %s: %w", src.name, err)
			}
			r.logger.Debugf("lake %s is not configured; parameters not saved", src.name)
		}
	}
	return params, true, nil
}

// selectRange restricts forcing to the requested date range, clamped to
// the data.
func (r *Runner) selectRange(forcing types.ForcingSeries, sim config.ResolvedSimulation) types.ForcingSeries {
	if sim.Start.IsZero() && sim.End.IsZero() {
		return forcing
	}

	from, to, startClamped, endClamped := timeseries.ClampRange(forcing.Dates, sim.Start, sim.End)
	if startClamped {
		r.logger.Warnf("start date of simulations before start of meteorological data; using %s instead", from.Format(types.DateLayout))
	}
	if endClamped {
		r.logger.Warnf("end date of simulations after end of meteorological data; using %s instead", to.Format(types.DateLayout))
	}
	return forcing.Slice(timeseries.SelectRange(forcing.Dates, from, to))
}

// aggregate applies the output periodicity, which is only implemented for
// daily simulations.
func (r *Runner) aggregate(s types.SimulatedSeries, sim config.ResolvedSimulation) types.SimulatedSeries {
	if sim.OutputPeriodicity == "" {
		return s
	}
	if sim.Periodicity != types.Daily {
		r.logger.Warn("variable output periodicity only implemented for daily simulations; ignoring output periodicity")
		return s
	}

	switch sim.OutputPeriodicity {
	case types.Weekly:
		dates, tepi := timeseries.Weekly(s.Dates, s.Tepi)
		_, thyp := timeseries.Weekly(s.Dates, s.Thyp)
		return types.SimulatedSeries{Dates: dates, Tepi: tepi, Thyp: thyp}
	case types.Monthly:
		dates, tepi := timeseries.Monthly(s.Dates, s.Tepi)
		_, thyp := timeseries.Monthly(s.Dates, s.Thyp)
		return types.SimulatedSeries{Dates: dates, Tepi: tepi, Thyp: thyp}
	}
	return s
}

// validate compares the daily simulation with the observation file and
// writes the statistics to the validation file, or logs them when no
// validation file is set.
func (r *Runner) validate(job Job, res *Result) error {
	if job.Simulation.Periodicity != types.Daily {
		r.logger.Warn("validation implemented only for daily simulations; ignoring validation")
		return nil
	}

	obs, err := datafile.ReadObservations(job.ObsFile)
	if err != nil {
		return fmt.Errorf("could not read observations: %w", err)
	}

	simTimes := unixDates(res.Series)
	obsTimes := make([]int64, len(obs.Dates))
	for i, d := range obs.Dates {
		obsTimes[i] = d.Unix()
	}

	compare := func(name string, sim, observed []float64) (types.ValidationResult, error) {
		if observed == nil {
			r.logger.Warnf("observation file has no %s column", name)
			return validation.Missing(), nil
		}
		v, err := validation.Compare(simTimes, sim, obsTimes, observed)
		if err != nil {
			return v, fmt.Errorf("%s validation: %w", name, err)
		}
		return v, nil
	}

	if res.Epilimnion, err = compare("tepi", res.Series.Tepi, obs.Tepi); err != nil {
		return err
	}
	if res.Hypolimnion, err = compare("thyp", res.Series.Thyp, obs.Thyp); err != nil {
		return err
	}
	res.Validated = true

	r.logger.Infow("epilimnion validation", validationFields(res.Epilimnion)...)
	r.logger.Infow("hypolimnion validation", validationFields(res.Hypolimnion)...)

	if job.ValidationFile == "" {
		return nil
	}
	if err := datafile.WriteValidation(job.ValidationFile, res.Epilimnion, res.Hypolimnion); err != nil {
		return fmt.Errorf("could not write validation results: %w", err)
	}
	r.logger.Infof("validation results written to %s", job.ValidationFile)
	return nil
}

func validationFields(v types.ValidationResult) []interface{} {
	return []interface{}{"n", v.N, "sd", v.SD, "r", v.R, "me", v.ME, "mae", v.MAE, "rmse", v.RMSE}
}

func unixDates(s types.SimulatedSeries) []int64 {
	out := make([]int64, len(s.Dates))
	for i, d := range s.Dates {
		out[i] = d.Unix()
	}
	return out
}

func writeOutput(path string, s types.SimulatedSeries) error {
	if strings.EqualFold(filepath.Ext(path), msgpackExtension) {
		return datafile.WriteOutputMsgpack(path, s)
	}
	return datafile.WriteOutput(path, s)
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
