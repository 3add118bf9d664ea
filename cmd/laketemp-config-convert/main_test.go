package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/laketemp/pkg/config"
)

const testYAML = `
simulation:
  folder: /data/allos
  monthly: true
lakes:
  - name: allos
    type: L
    latitude: 44.233
    altitude: 2232
    zmax: 51
    surface: 528425
    volume: 9775853
server:
  port: 9090
`

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "laketemp.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(testYAML), 0o644))
	sqliteFile := filepath.Join(dir, "db", "laketemp.db")

	require.NoError(t, convert(yamlFile, sqliteFile, false, true))
	assert.NoFileExists(t, sqliteFile)

	require.NoError(t, convert(yamlFile, sqliteFile, false, false))
	assert.Error(t, convert(yamlFile, sqliteFile, false, false))
	require.NoError(t, convert(yamlFile, sqliteFile, true, false))

	p, err := config.NewSQLiteProvider(sqliteFile, nil)
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Simulation.Monthly)
	assert.Equal(t, 9090, cfg.Server.Port)
	require.Len(t, cfg.Lakes, 1)
	assert.Equal(t, "allos", cfg.Lakes[0].Name)
}

func TestConvertMissingYAML(t *testing.T) {
	assert.Error(t, convert(filepath.Join(t.TempDir(), "missing.yaml"), filepath.Join(t.TempDir(), "x.db"), false, false))
}
