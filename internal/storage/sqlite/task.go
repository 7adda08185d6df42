package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/model"
)

const taskColumns = `
	id, name, start_at, end_at,
	location_start, location_end,
	progress, status, week,
	dependency_ids, constraint_labels
`

// ListTaskRecords returns the project tasks as records in project order.
func (r *Repository) ListTaskRecords(ctx context.Context, projectID string) ([]model.Record, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	recs := []model.Record{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		recs = append(recs, model.RecordFromTask(t))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return recs, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, projectID, id string) (*model.Task, error) {
	t, err := getTask(ctx, r.db, projectID, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q querier, projectID, id string) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND id = ?`

	t, err := scanTask(q.QueryRowContext(ctx, query, projectID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return model.Task{}, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// CreateTask appends a new task to the project.
func (r *Repository) CreateTask(ctx context.Context, projectID string, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	var maxPos int
	query := `SELECT COALESCE(MAX(position), 0) FROM tasks WHERE project_id = ?`
	if err := tx.QueryRowContext(ctx, query, projectID).Scan(&maxPos); err != nil {
		return fmt.Errorf("could not get max position: %w", err)
	}

	if err := insertTask(ctx, tx, projectID, maxPos+1, t, time.Now().UTC()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

// UpdateTask applies a partial update to a task.
func (r *Repository) UpdateTask(ctx context.Context, projectID, id string, upd model.TaskUpdate) error {
	if err := upd.Validate(); err != nil {
		return fmt.Errorf("invalid update: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getTask(ctx, tx, projectID, id)
	if err != nil {
		return err
	}
	t, err := upd.Apply(current)
	if err != nil {
		return fmt.Errorf("could not apply update: %w", err)
	}

	query := `
		UPDATE tasks
		SET
			start_at = ?,
			end_at = ?,
			week = ?,
			progress = ?,
			updated_at = ?
		WHERE project_id = ? AND id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		formatTime(t.Start),
		formatTime(t.End),
		t.Week,
		t.Progress,
		time.Now().UTC().Unix(),
		projectID,
		id,
	)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Updated task in repository: %s %s", id, upd)
	return nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, projectID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted task from repository: %s", id)
	return nil
}

// ImportTasks replaces the project tasks in a single transaction.
func (r *Repository) ImportTasks(ctx context.Context, projectID string, tasks []model.Task) (int, error) {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("invalid task %s: %w", t.ID, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return 0, fmt.Errorf("could not clear project tasks: %w", err)
	}

	now := time.Now().UTC()
	for i, t := range tasks {
		if err := insertTask(ctx, tx, projectID, i+1, t, now); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Imported %d tasks into project %s", len(tasks), projectID)
	return len(tasks), nil
}

func insertTask(ctx context.Context, tx *sql.Tx, projectID string, position int, t model.Task, now time.Time) error {
	deps, err := json.Marshal(nonNil(t.Dependencies))
	if err != nil {
		return fmt.Errorf("could not encode dependencies: %w", err)
	}
	cons, err := json.Marshal(nonNil(t.Constraints))
	if err != nil {
		return fmt.Errorf("could not encode constraints: %w", err)
	}

	query := `
		INSERT INTO tasks (
			project_id, id, position, name,
			start_at, end_at,
			location_start, location_end,
			progress, status, week,
			dependency_ids, constraint_labels,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		projectID,
		t.ID,
		position,
		t.Name,
		formatTime(t.Start),
		formatTime(t.End),
		t.LocationStart,
		t.LocationEnd,
		t.Progress,
		t.Status,
		t.Week,
		string(deps),
		string(cons),
		now.Unix(),
		now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var start, end, deps, cons string
	var locStart, locEnd sql.NullFloat64

	err := s.Scan(
		&t.ID,
		&t.Name,
		&start,
		&end,
		&locStart,
		&locEnd,
		&t.Progress,
		&t.Status,
		&t.Week,
		&deps,
		&cons,
	)
	if err != nil {
		return model.Task{}, err
	}

	if t.Start, err = parseTime(start); err != nil {
		return model.Task{}, fmt.Errorf("invalid start: %w", err)
	}
	if t.End, err = parseTime(end); err != nil {
		return model.Task{}, fmt.Errorf("invalid end: %w", err)
	}
	if locStart.Valid {
		t.LocationStart = &locStart.Float64
	}
	if locEnd.Valid {
		t.LocationEnd = &locEnd.Float64
	}
	if err := json.Unmarshal([]byte(deps), &t.Dependencies); err != nil {
		return model.Task{}, fmt.Errorf("invalid dependencies: %w", err)
	}
	if err := json.Unmarshal([]byte(cons), &t.Constraints); err != nil {
		return model.Task{}, fmt.Errorf("invalid constraints: %w", err)
	}

	return t, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
