package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment variables that override the
// server and storage settings, e.g. LAKETEMP_SERVER_PORT.
const EnvPrefix = "LAKETEMP"

// ApplyEnv overrides server and storage settings with any LAKETEMP_*
// variables present in the environment and fills in defaults.
func (c *ConfigData) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, &c.Server); err != nil {
		return fmt.Errorf("failed to read server settings from environment: %w", err)
	}

	var storage TimescaleDBData
	if err := envconfig.Process(EnvPrefix, &storage); err != nil {
		return fmt.Errorf("failed to read storage settings from environment: %w", err)
	}
	if storage.ConnectionString != "" {
		c.Storage.TimescaleDB = &storage
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	return nil
}
