package util

import (
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDatabase opens a gorm handle for the configured driver. The sqlite
// driver is the default so the service runs with zero external services;
// an empty DSN gives an in-memory database (used by tests).
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), cfg)
	case "pg", "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	if dsn == "" {
		dsn = "file::memory:"
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}
