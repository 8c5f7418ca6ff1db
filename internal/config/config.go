package config

import (
	"fmt"
	"log"
	"os"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port        string
	Environment string

	// Document store backend: "postgres", "sqlite" or "memory".
	StoreBackend string

	// Postgres settings (StoreBackend == "postgres")
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SQLite settings (StoreBackend == "sqlite")
	SQLitePath string

	// Comma-separated list of allowed CORS origins; "*" allows all.
	CORSOrigins string
}

var appConfig *Config

// Load loads configuration from environment variables. A .env file is
// honored when present; godotenv loading happens in main before Load so
// this package stays import-light.
func Load() (*Config, error) {
	config := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		StoreBackend: getEnv("STORE_BACKEND", "postgres"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "saldo"),
		DBPassword: getEnv("DB_PASSWORD", "saldo"),
		DBName:     getEnv("DB_NAME", "saldo"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SQLitePath: getEnv("SQLITE_PATH", "./data/saldo.db"),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// DSN returns the PostgreSQL connection string for GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrateURL returns the postgres URL used by golang-migrate.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be postgres, sqlite or memory", c.StoreBackend)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
