// Package testutil provides in-process database and storage fixtures for tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage/memory/v2"
	"github.com/khanghh/photoshare/internal/store"
	"github.com/khanghh/photoshare/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), model.GormConfig(""))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, model.AutoMigrate(db))
	return db
}

// NewStorage returns a memory backed Storage closed at the end of the test.
func NewStorage(t testing.TB) *store.FiberStorage {
	t.Helper()
	storage := store.NewFiberStorage(memory.New())
	t.Cleanup(func() { storage.Close() })
	return storage
}
