// config/database.go
package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB opens the Postgres connection and stores the handle in the
// package-level DB. The process exits if the database is unreachable;
// nothing in the portal works without it.
func ConnectDB(dsn string) {
	if dsn == "" {
		slog.Error("database URL is not configured (set database.url or DB_URL)")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("connected to database")
}
