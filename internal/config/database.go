package config

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/career-copilot/internal/models"
)

// InitHistoryDatabase opens the session-scoped submission history. The default
// DSN is an in-memory SQLite database, so nothing outlives the process.
func InitHistoryDatabase(cfg *Config, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.IsDevelopment() && cfg.Log.Level == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.HistoryDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// A shared-cache memory database disappears once its last connection
	// closes; pin a single connection so it lives as long as the pool.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access history database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("dsn", cfg.Database.HistoryDSN).Msg("✅ History database opened")

	if err := db.AutoMigrate(&models.Submission{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	log.Info().Msg("✅ History migration completed")

	return db, nil
}
