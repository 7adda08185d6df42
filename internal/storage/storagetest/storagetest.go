// Package storagetest has the behaviour tests every storage.Repository
// implementation must pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// Fixture returns a project schedule exercising every task field.
func Fixture() []model.Task {
	return []model.Task{
		{
			ID: "1", Name: "Excavation", Start: date(2024, 1, 1), End: date(2024, 1, 11),
			LocationStart: ptr(0.0), LocationEnd: ptr(100.0),
			Progress: 100, Status: model.TaskStatusCompleted, Week: 1,
			Dependencies: []string{}, Constraints: []string{"permit"},
		},
		{
			ID: "2", Name: "Foundation", Start: date(2024, 1, 11), End: date(2024, 1, 21),
			Progress: 40, Status: model.TaskStatusInProgress, Week: 2,
			Dependencies: []string{"1"}, Constraints: []string{},
		},
		{
			ID: "3", Name: "Framing", Start: date(2024, 1, 21), End: date(2024, 1, 21).Add(36 * time.Hour),
			Status: model.TaskStatusNotStarted,
			Dependencies: []string{"2", "1"}, Constraints: []string{},
		},
	}
}

// RoundTrip normalizes the records a repository returns.
func RoundTrip(t *testing.T, repo storage.Repository, projectID string) []model.Task {
	t.Helper()
	recs, err := repo.ListTaskRecords(context.Background(), projectID)
	require.NoError(t, err)

	n, err := normalize.NewNormalizer(normalize.NormalizerConfig{})
	require.NoError(t, err)
	res := n.Normalize(recs)
	require.Empty(t, res.Dropped)
	return res.Tasks
}

// Run runs the behaviour tests against fresh repositories made by newRepo.
func Run(t *testing.T, newRepo func(t *testing.T) storage.Repository) {
	t.Run("Imported tasks should be listed as records in order.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		n, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		got := RoundTrip(t, repo, "p1")
		assert.Equal(t, Fixture(), got)

		recs, err := repo.ListTaskRecords(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", recs[0][model.RecordFieldStart])
		_, hasLoc := recs[1][model.RecordFieldLocationStart]
		assert.False(t, hasLoc)

		other, err := repo.ListTaskRecords(ctx, "p2")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("Importing should replace the previous project tasks.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		_, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)
		_, err = repo.ImportTasks(ctx, "p2", Fixture()[:1])
		require.NoError(t, err)
		n, err := repo.ImportTasks(ctx, "p1", Fixture()[1:2])
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got := RoundTrip(t, repo, "p1")
		require.Len(t, got, 1)
		assert.Equal(t, "2", got[0].ID)

		// Other projects are untouched, even with the same ids.
		got = RoundTrip(t, repo, "p2")
		require.Len(t, got, 1)
		assert.Equal(t, "1", got[0].ID)
	})

	t.Run("Importing duplicated ids should fail and keep the previous tasks.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		_, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)

		dup := Fixture()
		dup[1].ID = "1"
		_, err = repo.ImportTasks(ctx, "p1", dup)
		assert.ErrorIs(t, err, model.ErrAlreadyExists)
		assert.Len(t, RoundTrip(t, repo, "p1"), 3)
	})

	t.Run("Updating a task should only change the set fields.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)

		err = repo.UpdateTask(ctx, "p1", "2", model.TaskUpdate{Week: ptr(5)})
		require.NoError(t, err)
		err = repo.UpdateTask(ctx, "p1", "2", model.TaskUpdate{Start: ptr(date(2024, 1, 13)), End: ptr(date(2024, 1, 23))})
		require.NoError(t, err)

		got, err := repo.GetTask(ctx, "p1", "2")
		require.NoError(t, err)
		exp := Fixture()[1]
		exp.Week = 5
		exp.Start = date(2024, 1, 13)
		exp.End = date(2024, 1, 23)
		assert.Equal(t, exp, *got)
	})

	t.Run("Invalid updates should be rejected.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)

		err = repo.UpdateTask(ctx, "p1", "2", model.TaskUpdate{End: ptr(date(2023, 1, 1))})
		assert.ErrorIs(t, err, model.ErrNotValid)

		err = repo.UpdateTask(ctx, "p1", "2", model.TaskUpdate{})
		assert.ErrorIs(t, err, model.ErrNotValid)

		err = repo.UpdateTask(ctx, "p1", "missing", model.TaskUpdate{Week: ptr(1)})
		assert.ErrorIs(t, err, model.ErrNotFound)

		err = repo.UpdateTask(ctx, "p2", "2", model.TaskUpdate{Week: ptr(1)})
		assert.ErrorIs(t, err, model.ErrNotFound)

		assert.Equal(t, Fixture(), RoundTrip(t, repo, "p1"))
	})

	t.Run("Tasks with the start after the end should accept week and progress updates.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		tasks := Fixture()
		tasks[0].Start, tasks[0].End = tasks[0].End, tasks[0].Start
		_, err := repo.ImportTasks(ctx, "p1", tasks)
		require.NoError(t, err)

		err = repo.UpdateTask(ctx, "p1", tasks[0].ID, model.TaskUpdate{Week: ptr(4), Progress: ptr(10)})
		require.NoError(t, err)

		got, err := repo.GetTask(ctx, "p1", tasks[0].ID)
		require.NoError(t, err)
		exp := tasks[0]
		exp.Week = 4
		exp.Progress = 10
		assert.Equal(t, exp, *got)
	})

	t.Run("Created tasks should be appended to the project.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)

		nt := model.NewTask{Name: "Roofing", DurationDays: 4, Week: 2, Constraints: []string{"crane"}}
		task := nt.Task("01HZZZZZZZZZZZZZZZZZZZZZZZ", date(2024, 3, 1))
		require.NoError(t, repo.CreateTask(ctx, "p1", task))

		err = repo.CreateTask(ctx, "p1", task)
		assert.ErrorIs(t, err, model.ErrAlreadyExists)

		got := RoundTrip(t, repo, "p1")
		require.Len(t, got, 4)
		last := got[3]
		assert.Equal(t, "Roofing", last.Name)
		assert.Equal(t, date(2024, 3, 8), last.Start)
		assert.Equal(t, date(2024, 3, 12), last.End)
		assert.Equal(t, 2, last.Week)
		assert.Equal(t, []string{"crane"}, last.Constraints)
	})

	t.Run("Invalid tasks should not be created.", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.CreateTask(context.Background(), "p1", model.Task{ID: "x", Status: model.TaskStatusNotStarted})
		assert.ErrorIs(t, err, model.ErrNotValid)
	})

	t.Run("Deleting a task should remove it.", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		_, err := repo.ImportTasks(ctx, "p1", Fixture())
		require.NoError(t, err)

		require.NoError(t, repo.DeleteTask(ctx, "p1", "2"))
		assert.ErrorIs(t, repo.DeleteTask(ctx, "p1", "2"), model.ErrNotFound)

		_, err = repo.GetTask(ctx, "p1", "2")
		assert.ErrorIs(t, err, model.ErrNotFound)

		got := RoundTrip(t, repo, "p1")
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "3", got[1].ID)
		// Dangling dependencies are kept.
		assert.Equal(t, []string{"2", "1"}, got[1].Dependencies)
	})
}
