package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/bbschedule/internal/app/addtask"
	"github.com/slok/bbschedule/internal/app/importtasks"
	"github.com/slok/bbschedule/internal/app/list"
	"github.com/slok/bbschedule/internal/app/move"
	"github.com/slok/bbschedule/internal/app/progress"
	"github.com/slok/bbschedule/internal/app/remove"
	"github.com/slok/bbschedule/internal/app/shift"
	"github.com/slok/bbschedule/internal/model"
	storageio "github.com/slok/bbschedule/internal/storage/io"
)

// ImportFile replaces the project tasks with the records of a JSON or YAML file.
//
// Malformed records are skipped and reported on the result, with strict set they
// fail the import instead and nothing is stored.
func (c *Client) ImportFile(ctx context.Context, projectID, path string, strict bool) (*ImportResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	svc, err := importtasks.NewService(importtasks.ServiceConfig{
		Records:    storageio.NewRecordsRepository(os.DirFS(filepath.Dir(abs))),
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, importtasks.Request{
		ProjectID: projectID,
		Path:      filepath.Base(abs),
		Strict:    strict,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := &ImportResult{Imported: res.Imported, Dropped: []DroppedRecord{}}
	for _, d := range res.Dropped {
		result.Dropped = append(result.Dropped, DroppedRecord{Index: d.Index, ID: d.ID, Reason: d.Err.Error()})
	}
	return result, nil
}

// ListTasks returns the project tasks in project order. Pass nil opts to list all.
func (c *Client) ListTasks(ctx context.Context, projectID string, opts *ListTasksOpts) ([]Task, error) {
	svc, err := list.NewService(list.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	status, week := toInternalListFilter(opts)
	res, err := svc.Run(ctx, list.Request{
		ProjectID:    projectID,
		StatusFilter: status,
		WeekFilter:   week,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalTasks(res.Tasks), nil
}

// AddTask creates a pull-planning task scheduled at the start of its week.
func (c *Client) AddTask(ctx context.Context, projectID string, opts AddTaskOpts) (*Task, error) {
	svc, err := addtask.NewService(addtask.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, addtask.Request{
		ProjectID: projectID,
		Task: model.NewTask{
			Name:         opts.Name,
			DurationDays: opts.DurationDays,
			Week:         opts.Week,
			Constraints:  opts.Constraints,
		},
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(*t)
	return &result, nil
}

// RemoveTask deletes a task. Tasks depending on it keep the dependency.
func (c *Client) RemoveTask(ctx context.Context, projectID, taskID string) error {
	svc, err := remove.NewService(remove.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, remove.Request{ProjectID: projectID, TaskID: taskID})
	return mapError(err)
}

// ShiftTask moves a task on the time axis by a number of days keeping its
// duration, dates are snapped to whole days. It returns the task and false when
// the shift is too small to change it.
func (c *Client) ShiftTask(ctx context.Context, projectID, taskID string, days float64) (*Task, bool, error) {
	svc, err := shift.NewService(shift.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, false, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, shift.Request{ProjectID: projectID, TaskID: taskID, Days: days})
	if err != nil {
		return nil, false, mapError(err)
	}

	t := fromInternalTask(res.Task)
	return &t, res.Changed, nil
}

// MoveTask assigns a task to a pull-planning week. It returns false when the
// task was already on the week.
func (c *Client) MoveTask(ctx context.Context, projectID, taskID string, week int) (*Task, bool, error) {
	svc, err := move.NewService(move.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, false, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, move.Request{ProjectID: projectID, TaskID: taskID, Week: week})
	if err != nil {
		return nil, false, mapError(err)
	}

	t := fromInternalTask(res.Task)
	return &t, res.Changed, nil
}

// SetProgress sets the completion percentage of a task.
func (c *Client) SetProgress(ctx context.Context, projectID, taskID string, value int) (*Task, error) {
	svc, err := progress.NewService(progress.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, progress.Request{ProjectID: projectID, TaskID: taskID, Progress: value})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(*t)
	return &result, nil
}
