// Package databasetest opens throwaway stores for tests.
package databasetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/social-feed/backend/internal/database"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
)

// New returns a migrated in-memory SQLite store that is closed when the test ends.
func New(t testing.TB) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.New(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      dsn,
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SeedUser inserts a user with the given id.
func SeedUser(t testing.TB, db *database.Database, id string) *models.User {
	t.Helper()

	user := &models.User{ID: id, Email: id + "@example.com"}
	require.NoError(t, db.GetDB().Create(user).Error)
	return user
}
