// Package sqlite stores users and properties through gorm on SQLite. It backs
// local development and tests; production runs on the postgres adapters.
package sqlite

import (
	"fmt"

	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to dsn and creates the given tables when absent.
// TranslateError makes unique violations surface as gorm.ErrDuplicatedKey.
func Open(dsn string, models ...any) (*gorm.DB, error) {
	db, err := gorm.Open(sqlitedriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func OpenUsers(dsn string) (*gorm.DB, error) {
	return Open(dsn, &userRecord{})
}

func OpenProperties(dsn string) (*gorm.DB, error) {
	return Open(dsn, &propertyRecord{})
}
