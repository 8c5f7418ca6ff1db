// Package testutil provides test helpers for setting up document stores,
// creating fixtures, and making assertions.
package testutil

import (
	"testing"

	"saldo/internal/docstore"
	"saldo/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with the documents table
// migrated, for tests that exercise the GORM-backed document store.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&docstore.Document{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}

// SetupStore creates a typed store over a fresh in-memory document store.
// Most service tests run against this backend.
func SetupStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(docstore.NewMemoryStore())
}
