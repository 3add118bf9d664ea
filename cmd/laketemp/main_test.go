package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/laketemp/pkg/config"
)

func parse(t *testing.T, args ...string) (*cliFlags, map[string]bool) {
	t.Helper()
	fs := flag.NewFlagSet("laketemp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cli := registerFlags(fs)
	require.NoError(t, fs.Parse(args))

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return cli, set
}

func TestFlagsOverrideConfig(t *testing.T) {
	sim := config.SimulationData{
		Folder:     "/data/allos",
		MeteoFile:  "meteo.xlsx",
		OutputFile: "allos.txt",
		Weekly:     true,
		Start:      "2018-01-01",
	}

	cli, set := parse(t, "-output", "run2.msgpack", "-monthly", "-obs-data", "obs.txt")
	cli.apply(&sim, set)

	assert.Equal(t, "/data/allos", sim.Folder)
	assert.Equal(t, "meteo.xlsx", sim.MeteoFile)
	assert.Equal(t, "run2.msgpack", sim.OutputFile)
	assert.Equal(t, "obs.txt", sim.ObsFile)
	assert.Equal(t, "2018-01-01", sim.Start)
	assert.False(t, sim.Weekly)
	assert.True(t, sim.Monthly)
}

func TestFlagsWithoutConfig(t *testing.T) {
	var sim config.SimulationData
	cli, set := parse(t, "-folder", "~/lakes/allos", "-weekly-output", "-fill-clear-sky-sr")
	cli.apply(&sim, set)

	assert.Equal(t, "~/lakes/allos", sim.Folder)
	assert.True(t, sim.WeeklyOutput)
	assert.True(t, sim.FillClearSkySR)

	resolved, err := sim.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "daily", string(resolved.Periodicity))
	assert.Equal(t, "weekly", string(resolved.OutputPeriodicity))
}

func TestConflictingPeriodicityFlags(t *testing.T) {
	var sim config.SimulationData
	cli, set := parse(t, "-daily", "-weekly")
	cli.apply(&sim, set)

	_, err := sim.Resolve()
	assert.Error(t, err)
}
