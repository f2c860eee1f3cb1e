package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold defines the duration after which a query is
// considered slow and logged at warn level.
const DefaultSlowQueryThreshold = 1 * time.Second

// createGormLogger configures and returns a new GORM logger instance backed
// by the datastore's structured logger.
func createGormLogger() gormlogger.Interface {
	return newGormLogger(DefaultSlowQueryThreshold, gormlogger.Warn)
}

// performAutoMigration runs gorm auto-migration for all entity tables and the
// movie/genre association table it implies.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Movie{}, &Genre{}, &Review{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		getLogger().Debug("database connection initialized",
			"db_type", dbType,
			"connection", connectionInfo)
	}

	return nil
}
