package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chrissnell/laketemp/internal/app"
	"github.com/chrissnell/laketemp/internal/constants"
	"github.com/chrissnell/laketemp/internal/log"
	"github.com/chrissnell/laketemp/internal/managers"
	"github.com/chrissnell/laketemp/pkg/config"
)

// cliFlags are the command line settings of a run. Each one overrides the
// matching field of the configuration file when given.
type cliFlags struct {
	folder, meteo, lake, par, output, obs, val, start, end string

	lakeName string

	daily, weekly, monthly bool

	dailyOutput, weeklyOutput, monthlyOutput bool

	fillSR bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{}
	fs.StringVar(&f.folder, "folder", "", "path to the model data folder (default: working directory)")
	fs.StringVar(&f.meteo, "meteo", "", "name of the meteorological data file (default: "+app.DefaultMeteoFile+")")
	fs.StringVar(&f.lake, "lake", "", "name of the lake data file (default: "+app.DefaultLakeFile+")")
	fs.StringVar(&f.par, "par", "", "name of the model parameter file (default: "+app.DefaultParFile+")")
	fs.StringVar(&f.output, "output", "", "name of the output data file (default: "+app.DefaultOutputFile+"); a .msgpack extension writes MessagePack")
	fs.StringVar(&f.obs, "obs-data", "", "name of the observation data file")
	fs.StringVar(&f.val, "val-results", "", "name of the validation results file")
	fs.StringVar(&f.start, "start", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
	fs.StringVar(&f.lakeName, "lake-name", "", "name of a configured lake to take characteristics and parameters from")
	fs.BoolVar(&f.daily, "daily", false, "daily simulation (default)")
	fs.BoolVar(&f.weekly, "weekly", false, "weekly simulation")
	fs.BoolVar(&f.monthly, "monthly", false, "monthly simulation")
	fs.BoolVar(&f.dailyOutput, "daily-output", false, "daily output (default)")
	fs.BoolVar(&f.weeklyOutput, "weekly-output", false, "weekly output (weekly average, daily simulations only)")
	fs.BoolVar(&f.monthlyOutput, "monthly-output", false, "monthly output (monthly average, daily simulations only)")
	fs.BoolVar(&f.fillSR, "fill-clear-sky-sr", false, "compute solar radiation from the lake position when the meteorological file has no sr column")
	return f
}

// apply overrides sim with the flags in set. Setting any periodicity flag
// replaces the periodicity of the configuration file, likewise for the
// output periodicity.
func (f *cliFlags) apply(sim *config.SimulationData, set map[string]bool) {
	fields := []struct {
		name string
		dst  *string
		val  string
	}{
		{"folder", &sim.Folder, f.folder},
		{"meteo", &sim.MeteoFile, f.meteo},
		{"lake", &sim.LakeFile, f.lake},
		{"par", &sim.ParFile, f.par},
		{"output", &sim.OutputFile, f.output},
		{"obs-data", &sim.ObsFile, f.obs},
		{"val-results", &sim.ValidationFile, f.val},
		{"start", &sim.Start, f.start},
		{"end", &sim.End, f.end},
		{"lake-name", &sim.Lake, f.lakeName},
	}
	for _, s := range fields {
		if set[s.name] {
			*s.dst = s.val
		}
	}

	if set["daily"] || set["weekly"] || set["monthly"] {
		sim.Daily, sim.Weekly, sim.Monthly = f.daily, f.weekly, f.monthly
	}
	if set["daily-output"] || set["weekly-output"] || set["monthly-output"] {
		sim.DailyOutput, sim.WeeklyOutput, sim.MonthlyOutput = f.dailyOutput, f.weeklyOutput, f.monthlyOutput
	}
	if set["fill-clear-sky-sr"] {
		sim.FillClearSkySR = f.fillSR
	}
}

func main() {
	cfgFile := flag.String("config", "", "Path to an optional configuration source (YAML file or SQLite database) providing the simulation settings, lakes and storage; flags override it")
	cfgBackend := flag.String("config-backend", "", "Configuration backend type: 'yaml' or 'sqlite' (default: detected from the file extension)")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	cli := registerFlags(flag.CommandLine)
	flag.Parse()

	if *showVersion {
		fmt.Printf("laketemp %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*cfgFile, *cfgBackend, cli); err != nil {
		log.Errorf("laketemp: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(cfgFile, cfgBackend string, cli *cliFlags) error {
	ctx := context.Background()
	logger := log.GetSugaredLogger()

	var (
		provider config.ConfigProvider
		cfg      = &config.ConfigData{}
		err      error
	)
	if cfgFile != "" {
		if provider, err = config.OpenProvider(cfgFile, cfgBackend, logger); err != nil {
			return err
		}
		defer provider.Close()

		if cfg, err = provider.LoadConfig(); err != nil {
			return fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
		}
		if err := cfg.ApplyEnv(); err != nil {
			return err
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cli.apply(&cfg.Simulation, set)

	job, err := app.JobFromConfig(cfg.Simulation)
	if err != nil {
		return err
	}

	storageManager, err := managers.NewStorageManager(ctx, cfg.Storage, false, logger)
	if err != nil {
		return err
	}
	defer storageManager.Close()

	res, err := app.NewRunner(provider, storageManager.Store, logger).Run(ctx, job)
	if err != nil {
		return err
	}

	fmt.Printf("Output written to %s\n", job.OutputFile)
	if res.Validated && job.ValidationFile != "" {
		fmt.Printf("Validation results written to %s\n", job.ValidationFile)
	}
	return nil
}
