// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/config"
	"vehicle-repair-service/internal/db"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	database, err := db.Open(config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file::memory:?_pragma=foreign_keys(1)",
	}, "test", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}
