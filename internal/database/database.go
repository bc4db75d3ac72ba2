package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"college-payroll/internal/config"
	"college-payroll/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the PostgreSQL connection pool described by cfg and, when
// enabled, runs auto-migrations.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.DBTimeZone,
	)

	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Println("Database connection successful.")

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration successful.")
	}
	return db, nil
}

// Migrate creates or updates the payroll schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.PayrollRecord{}, &models.AuditLog{}); err != nil {
		return fmt.Errorf("migrate database schema: %w", err)
	}
	return nil
}
