package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/slok/bbschedule/internal/storage/sqlite/migrations"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestNewMigrator(t *testing.T) {
	_, err := migrations.NewMigrator(migrations.MigratorConfig{})
	assert.Error(t, err)
}

func TestMigratorUpDown(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	m, err := migrations.NewMigrator(migrations.MigratorConfig{DB: db})
	require.NoError(t, err)

	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)

	require.NoError(t, m.Up(ctx))
	assert.True(t, tableExists(t, db, "tasks"))

	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	// Already migrated.
	require.NoError(t, m.Up(ctx))

	require.NoError(t, m.Down(ctx))
	assert.False(t, tableExists(t, db, "tasks"))
}

func TestMigratorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := migrations.NewMigrator(migrations.MigratorConfig{DB: newDB(t)})
	require.NoError(t, err)

	assert.ErrorIs(t, m.Up(ctx), context.Canceled)
}
