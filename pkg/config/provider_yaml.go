package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/chrissnell/laketemp/internal/types"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

// ParseYAML decodes a YAML configuration document and normalises the lake
// entries.
func ParseYAML(b []byte) (*ConfigData, error) {
	config := &ConfigData{}
	if err := yaml.UnmarshalStrict(b, config); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for i := range config.Lakes {
		lake := &config.Lakes[i]
		if lake.Name == "" {
			return nil, fmt.Errorf("lake #%d has no name: %w", i+1, types.ErrInvalidInput)
		}
		if seen[lake.Name] {
			return nil, fmt.Errorf("lake %s is configured twice: %w", lake.Name, types.ErrInvalidInput)
		}
		seen[lake.Name] = true

		t, err := types.ParseLakeType(string(lake.Type))
		if err != nil {
			return nil, fmt.Errorf("lake %s: %w", lake.Name, err)
		}
		lake.Type = t
	}
	return config, nil
}

func (y *YAMLProvider) ensureLoaded() error {
	if y.config != nil {
		return nil
	}
	_, err := y.LoadConfig()
	return err
}

// GetLakes returns the configured lakes
func (y *YAMLProvider) GetLakes() ([]LakeData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return y.config.Lakes, nil
}

// GetLake returns a single lake by name
func (y *YAMLProvider) GetLake(name string) (*LakeData, error) {
	if err := y.ensureLoaded(); err != nil {
		return nil, err
	}
	return findLake(y.config.Lakes, name)
}

// GetParameters returns the parameter set configured for a lake
func (y *YAMLProvider) GetParameters(lake string) (*types.ParameterSet, error) {
	l, err := y.GetLake(lake)
	if err != nil {
		return nil, err
	}
	if l.Parameters == nil {
		return nil, fmt.Errorf("parameters of lake %s: %w", lake, ErrNotFound)
	}
	p := *l.Parameters
	return &p, nil
}

// SaveParameters always fails: YAML files are read-only through this
// interface.
func (y *YAMLProvider) SaveParameters(lake string, params types.ParameterSet) error {
	return ErrReadOnly
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
