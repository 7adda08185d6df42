package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/storage"
	"github.com/slok/bbschedule/internal/storage/sqlite"
	"github.com/slok/bbschedule/internal/storage/storagetest"
)

func newRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository(t *testing.T) {
	storagetest.Run(t, newRepo)
}

func TestRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "bbschedule.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: path})
	require.NoError(t, err)
	_, err = repo.ImportTasks(ctx, "p1", storagetest.Fixture())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	// Migrations must be idempotent.
	repo, err = sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: path})
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, storagetest.Fixture(), storagetest.RoundTrip(t, repo, "p1"))
}

func TestNewRepositoryInvalidConfig(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	assert.Error(t, err)
}
