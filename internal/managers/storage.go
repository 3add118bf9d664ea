package managers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/internal/storage/memory"
	"github.com/chrissnell/laketemp/internal/storage/timescaledb"
	"github.com/chrissnell/laketemp/pkg/config"
)

// StorageManager holds the run store selected by the configuration
type StorageManager struct {
	Store   storage.RunStore
	Backend string
}

// NewStorageManager opens the configured storage backend. Without a
// TimescaleDB connection string the manager falls back to an in-memory
// store when inMemoryFallback is set and to no store at all otherwise.
func NewStorageManager(ctx context.Context, c config.StorageData, inMemoryFallback bool, logger *zap.SugaredLogger) (*StorageManager, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &StorageManager{}

	switch {
	case c.TimescaleDB != nil && c.TimescaleDB.ConnectionString != "":
		store, err := timescaledb.New(ctx, c.TimescaleDB.ConnectionString, logger)
		if err != nil {
			return nil, fmt.Errorf("could not add TimescaleDB storage backend: %w", err)
		}
		s.Store = store
		s.Backend = "timescaledb"
	case inMemoryFallback:
		logger.Info("no storage backend configured; keeping simulation runs in memory")
		s.Store = memory.New()
		s.Backend = "memory"
	default:
		logger.Debug("no storage backend configured; simulation runs will not be stored")
	}

	return s, nil
}

// Close releases the storage backend, if any
func (s *StorageManager) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
