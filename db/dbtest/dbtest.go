// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"dragnotes/config"
	"dragnotes/db"
	"dragnotes/logger"
)

// New returns a fresh, migrated database that is closed when t finishes.
// The pool is pinned to one connection because every SQLite ":memory:"
// connection is a separate database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Connect(config.DB{
		Type:         config.DBTypeSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() { db.Close(gdb) })

	return gdb
}
