package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_SQLiteRunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stepboard.db")

	database, err := Init("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	var tables []string
	err = database.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('step_records', 'settings') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"settings", "step_records"}, tables)

	// Running again is a no-op
	require.NoError(t, RunMigrations(database.DB, "sqlite"))
}

func TestGetDialect(t *testing.T) {
	d, err := getDialect("pgx")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	_, err = getDialect("mysql")
	assert.Error(t, err)
}
