package storage

import (
	"context"

	"github.com/slok/bbschedule/internal/model"
)

// Repository is the interface for schedule persistence. Tasks are scoped by project.
type Repository interface {
	// ListTaskRecords returns the project tasks as loosely typed records in the
	// project order, ready to be normalized.
	ListTaskRecords(ctx context.Context, projectID string) ([]model.Record, error)
	GetTask(ctx context.Context, projectID, id string) (*model.Task, error)
	CreateTask(ctx context.Context, projectID string, t model.Task) error
	// UpdateTask applies a partial update, only the set fields change.
	UpdateTask(ctx context.Context, projectID, id string, upd model.TaskUpdate) error
	DeleteTask(ctx context.Context, projectID, id string) error
	// ImportTasks replaces all the project tasks, it returns the number of stored tasks.
	ImportTasks(ctx context.Context, projectID string, tasks []model.Task) (int, error)
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Repository
