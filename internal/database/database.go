// Package database opens the relational connection the document store runs
// on and keeps its schema current.
package database

import (
	"fmt"
	"time"

	"saldo/internal/config"
	"saldo/internal/docstore"
	"saldo/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Manager handles database operations.
type Manager struct {
	db      *gorm.DB
	backend string
	dsn     string
}

// NewManager opens the configured backend. Postgres is the runtime target;
// SQLite serves local development.
func NewManager(cfg *config.Config) (*Manager, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error
	switch cfg.StoreBackend {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
	default:
		return nil, fmt.Errorf("database manager does not serve backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, backend: cfg.StoreBackend, dsn: cfg.MigrateURL()}, nil
}

// Migrate brings the schema current. Postgres applies the SQL files in
// migrations/; SQLite auto-migrates the documents table directly since
// local development carries no migration history.
func (m *Manager) Migrate() error {
	if m.backend == "sqlite" {
		return m.db.AutoMigrate(&docstore.Document{})
	}

	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance.
func (m *Manager) DB() *gorm.DB {
	return m.db
}
