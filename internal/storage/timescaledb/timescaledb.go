// Package timescaledb stores simulation runs in PostgreSQL with the
// simulated series in a TimescaleDB hypertable.
package timescaledb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrissnell/laketemp/internal/database"
	"github.com/chrissnell/laketemp/internal/storage"
)

const insertBatchSize = 1000

// Storage holds the connection of a TimescaleDB storage backend
type Storage struct {
	TimescaleDBConn *gorm.DB
	logger          *zap.SugaredLogger
}

// New connects to TimescaleDB and creates the run tables if they do not
// exist yet.
func New(ctx context.Context, connectionString string, logger *zap.SugaredLogger) (*Storage, error) {
	logger.Info("connecting to TimescaleDB...")
	conn, err := database.CreateConnection(connectionString, logger.Desugar())
	if err != nil {
		return nil, fmt.Errorf("unable to create a TimescaleDB connection: %w", err)
	}

	t := &Storage{TimescaleDBConn: conn, logger: logger}
	steps := []struct {
		name string
		sql  string
	}{
		{"TimescaleDB extension", createExtensionSQL},
		{"runs table", createRunsTableSQL},
		{"series table", createSeriesTableSQL},
		{"series hypertable", createHypertableSQL},
		{"lake index", createLakeIndexSQL},
	}
	for _, step := range steps {
		logger.Infof("creating %s...", step.name)
		if err := conn.WithContext(ctx).Exec(step.sql).Error; err != nil {
			return nil, fmt.Errorf("could not create %s: %w", step.name, err)
		}
	}

	return t, nil
}

// SaveRun stores the run and its series in one transaction.
func (t *Storage) SaveRun(ctx context.Context, run *storage.Run) error {
	storage.Prepare(run)
	rr, series := toRecords(run)

	err := t.TimescaleDBConn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rr).Error; err != nil {
			return err
		}
		if len(series) == 0 {
			return nil
		}
		return tx.CreateInBatches(series, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("could not store run %s: %w", run.ID, err)
	}

	t.logger.Debugf("stored run %s (%d periods)", run.ID, len(series))
	return nil
}

// GetRun loads a run and its series ordered by time.
func (t *Storage) GetRun(ctx context.Context, id uuid.UUID) (*storage.Run, error) {
	db := t.TimescaleDBConn.WithContext(ctx)

	var rr runRecord
	if err := db.First(&rr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run %s: %w", id, storage.ErrRunNotFound)
		}
		return nil, fmt.Errorf("error querying run %s: %w", id, err)
	}

	var series []seriesRecord
	if err := db.Where("run_id = ?", id).Order("time").Find(&series).Error; err != nil {
		return nil, fmt.Errorf("error querying series of run %s: %w", id, err)
	}

	return fromRecords(rr, series), nil
}

// CheckHealth pings the database and runs a trivial query.
func (t *Storage) CheckHealth(ctx context.Context) error {
	if t.TimescaleDBConn == nil {
		return errors.New("TimescaleDB connection is nil")
	}
	sqlDB, err := t.TimescaleDBConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var result int
	if err := t.TimescaleDBConn.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (t *Storage) Close() error {
	sqlDB, err := t.TimescaleDBConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
