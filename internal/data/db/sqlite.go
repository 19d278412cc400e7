package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

// NewSQLiteService opens a local database file. SQLite allows one writer, so
// the pool is pinned to a single connection and transactions queue on it.
func NewSQLiteService(path string, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")
	path = strings.TrimSpace(path)
	if path == "" {
		path = "lexiprogress.db"
	}
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=off&_busy_timeout=5000"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	serviceLog.Info("Opened SQLite database", "path", path)
	return &Service{db: db, driver: DriverSQLite, log: serviceLog}, nil
}
