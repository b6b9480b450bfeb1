// Package db opens the backend database and applies schema migrations.
package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/internal/config"
	"github.com/schoolspace/schoolspace/internal/models"
)

// ConnectAndMigrate opens the configured database and applies gorm migrations.
// Postgres connections are retried a few times to let the server come up.
func ConnectAndMigrate(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var conn *gorm.DB
	var err error

	switch cfg.Driver {
	case "postgres":
		for i := 0; i < 5; i++ {
			conn, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
			if err == nil {
				break
			}
			log.Printf("db connect attempt %d/5 failed, retrying...", i+1)
			time.Sleep(2 * time.Second)
		}
	case "sqlite", "":
		conn, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate applies the gorm auto-migrations for all backend models.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Post{},
		&models.PasswordReset{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
