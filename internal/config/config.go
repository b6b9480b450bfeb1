// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Backend  BackendConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings for the dev backend.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds database connection settings. Driver selects sqlite
// (default, file path in SQLitePath) or postgres.
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
}

// BackendConfig selects how the client core reaches the backend: "local"
// (in-process gorm store) or "rest" (HTTP against a running dev backend).
type BackendConfig struct {
	Mode    string
	BaseURL string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev  bool
	Lang string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "schoolspace.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "schoolspace"),
			Password:   getEnv("DB_PASSWORD", "schoolspace123"),
			DBName:     getEnv("DB_NAME", "schoolspace"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},
		Backend: BackendConfig{
			Mode:    getEnv("BACKEND_MODE", "local"),
			BaseURL: getEnv("BACKEND_URL", "http://localhost:8080"),
		},
		App: AppConfig{
			Dev:  getEnvBool("DEV", true),
			Lang: getEnv("LANG_DEFAULT", "uk"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
