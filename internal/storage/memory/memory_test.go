package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage"
	"github.com/slok/bbschedule/internal/storage/memory"
	"github.com/slok/bbschedule/internal/storage/storagetest"
)

func newRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: log.Noop})
	require.NoError(t, err)
	return repo
}

func TestRepository(t *testing.T) {
	storagetest.Run(t, newRepo)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.ImportTasks(ctx, "p1", storagetest.Fixture())
	require.NoError(t, err)

	got, err := repo.GetTask(ctx, "p1", "2")
	require.NoError(t, err)
	got.Dependencies[0] = "changed"
	got.Start = time.Time{}

	again, err := repo.GetTask(ctx, "p1", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, again.Dependencies)
	assert.Equal(t, storagetest.Fixture()[1], *again)
}

func TestRepositoryImportDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	tasks := storagetest.Fixture()
	_, err := repo.ImportTasks(ctx, "p1", tasks)
	require.NoError(t, err)
	tasks[0].Constraints[0] = "changed"
	tasks[0].Name = "changed"

	got, err := repo.GetTask(ctx, "p1", "1")
	require.NoError(t, err)
	assert.Equal(t, "Excavation", got.Name)
	assert.Equal(t, []string{"permit"}, got.Constraints)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
}
