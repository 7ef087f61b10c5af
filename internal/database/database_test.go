package database_test

import (
	"context"
	"testing"

	"userdir/internal/database"
	"userdir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigrateAndPing(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, "file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Username"))

	assert.NoError(t, database.Ping(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("mysql", "whatever")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mysql"`)
}
