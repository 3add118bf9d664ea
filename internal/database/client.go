// Package database opens GORM connections to PostgreSQL/TimescaleDB.
package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GORMLogger adapts a zap logger to GORM, reporting slow queries and
// warnings only.
func GORMLogger(zl *zap.Logger) logger.Interface {
	return logger.New(
		zap.NewStdLog(zl),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// CreateConnection opens a PostgreSQL connection with the standard GORM
// configuration.
func CreateConnection(connectionString string, zl *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: GORMLogger(zl)})
	if err != nil {
		return nil, err
	}
	return db, nil
}
