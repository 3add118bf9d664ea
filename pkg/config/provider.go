package config

import (
	"errors"
	"fmt"

	"github.com/chrissnell/laketemp/internal/types"
)

var (
	// ErrNotFound is returned when a lake or its parameter set is not
	// configured.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly is returned by write operations on read-only providers.
	ErrReadOnly = errors.New("configuration provider is read-only")
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Lakes and their calibrated parameter sets
	GetLakes() ([]LakeData, error)
	GetLake(name string) (*LakeData, error)
	GetParameters(lake string) (*types.ParameterSet, error)
	SaveParameters(lake string, params types.ParameterSet) error

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Simulation SimulationData `json:"simulation" yaml:"simulation"`
	Lakes      []LakeData     `json:"lakes,omitempty" yaml:"lakes,omitempty"`
	Storage    StorageData    `json:"storage,omitempty" yaml:"storage,omitempty"`
	Server     ServerData     `json:"server,omitempty" yaml:"server,omitempty"`
}

// LakeData is a configured water body and, once calibrated or estimated,
// its parameter set.
type LakeData struct {
	types.LakeCharacteristics `yaml:",inline"`
	Parameters                *types.ParameterSet `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// StorageData holds the configuration for the storage backends
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty" yaml:"timescaledb,omitempty"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string" yaml:"connection_string" envconfig:"TIMESCALEDB_CONNECTION_STRING"`
}

// ServerData configures the HTTP API of laketemp-server.
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" envconfig:"SERVER_LISTEN_ADDR"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty" envconfig:"SERVER_PORT"`
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty" envconfig:"SERVER_CERT"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty" envconfig:"SERVER_KEY"`
}

// DefaultServerPort is used when no port is configured.
const DefaultServerPort = 8080

// findLake returns the lake called name from lakes.
func findLake(lakes []LakeData, name string) (*LakeData, error) {
	for i := range lakes {
		if lakes[i].Name == name {
			lake := lakes[i]
			return &lake, nil
		}
	}
	return nil, fmt.Errorf("lake %s: %w", name, ErrNotFound)
}
