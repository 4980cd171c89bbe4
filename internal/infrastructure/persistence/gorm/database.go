package gorm

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platewise/v1/internal/infrastructure/config"
)

// Open connects to the configured database and runs migrations when enabled.
// SQLite with an empty path opens an in-memory database, which the tests use.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case "sqlite":
		path := cfg.Database
		if path == "" {
			// Shared cache keeps one in-memory database across the
			// connection pool.
			path = "file::memory:?cache=shared"
		}
		db, err = gorm.Open(sqlite.Open(path), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&PlanModel{}); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, nil
}
