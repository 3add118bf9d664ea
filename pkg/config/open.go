package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Configuration backends accepted by OpenProvider.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// DetectBackend guesses the backend of path from its extension: .db,
// .sqlite and .sqlite3 files are SQLite databases, anything else YAML.
func DetectBackend(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return BackendSQLite
	}
	return BackendYAML
}

// OpenProvider opens the configuration at path with the named backend. An
// empty backend is detected from the file extension.
func OpenProvider(path, backend string, logger *zap.SugaredLogger) (ConfigProvider, error) {
	filename, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration path %s: %w", path, err)
	}
	if backend == "" {
		backend = DetectBackend(filename)
	}

	switch backend {
	case BackendYAML:
		return NewYAMLProvider(filename), nil
	case BackendSQLite:
		provider, err := NewSQLiteProvider(filename, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	}
	return nil, fmt.Errorf("unsupported configuration backend: %s. Use '%s' or '%s'", backend, BackendYAML, BackendSQLite)
}
