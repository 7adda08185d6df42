package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
)

const tasksTable = "schedule_tasks"

// RepositoryConfig is the configuration for the Postgres repository.
type RepositoryConfig struct {
	DSN    string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Postgres"})
	return nil
}

// Repository is a Postgres implementation of storage.Repository.
type Repository struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// NewRepository connects to Postgres and ensures the schema exists.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("could not create pool: %w", err)
	}

	r := &Repository{pool: pool, logger: cfg.Logger}
	if err := r.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	cfg.Logger.Debugf("Postgres repository initialized")
	return r, nil
}

// Close closes the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// EnsureSchema creates the tasks table if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tasksTable + ` (
    project_id        TEXT NOT NULL,
    id                TEXT NOT NULL,
    position          INTEGER NOT NULL,
    name              TEXT NOT NULL,
    start_at          TIMESTAMPTZ NOT NULL,
    end_at            TIMESTAMPTZ NOT NULL,
    location_start    DOUBLE PRECISION,
    location_end      DOUBLE PRECISION,
    progress          INTEGER NOT NULL DEFAULT 0,
    status            TEXT NOT NULL DEFAULT 'not_started',
    week              INTEGER NOT NULL DEFAULT 0,
    dependency_ids    TEXT[] NOT NULL DEFAULT '{}',
    constraint_labels TEXT[] NOT NULL DEFAULT '{}',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (project_id, id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_tasks_position ON ` + tasksTable + ` (project_id, position)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schedule schema: %w", err)
		}
	}
	return nil
}

const selectColumns = `SELECT id, name, start_at, end_at, location_start, location_end,
	progress, status, week, dependency_ids, constraint_labels`

// ListTaskRecords returns the project tasks as records in project order.
func (r *Repository) ListTaskRecords(ctx context.Context, projectID string) ([]model.Record, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` FROM `+tasksTable+` WHERE project_id = $1 ORDER BY position ASC`, projectID)
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

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getTask(ctx context.Context, q queryRower, projectID, id string) (model.Task, error) {
	row := q.QueryRow(ctx, selectColumns+` FROM `+tasksTable+` WHERE project_id = $1 AND id = $2`, projectID, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, projectID, id string) (*model.Task, error) {
	t, err := getTask(ctx, r.pool, projectID, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertTask(ctx context.Context, e execer, projectID string, position *int, t model.Task) error {
	// A nil position appends the task at the end of the project.
	_, err := e.Exec(ctx, `
INSERT INTO `+tasksTable+` (
    project_id, id, position, name, start_at, end_at,
    location_start, location_end, progress, status, week,
    dependency_ids, constraint_labels
) VALUES (
    $1, $2, COALESCE($3, (SELECT COALESCE(MAX(position), 0) + 1 FROM `+tasksTable+` WHERE project_id = $1)),
    $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
)`,
		projectID, t.ID, position, t.Name, t.Start.UTC(), t.End.UTC(),
		t.LocationStart, t.LocationEnd, t.Progress, string(t.Status), t.Week,
		nonNil(t.Dependencies), nonNil(t.Constraints),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}
	return nil
}

// CreateTask appends a new task to the project.
func (r *Repository) CreateTask(ctx context.Context, projectID string, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if err := insertTask(ctx, r.pool, projectID, nil, t); err != nil {
		return err
	}

	r.logger.Debugf("Created task in repository: %s", t.ID)
	return nil
}

// UpdateTask applies a partial update to a task.
func (r *Repository) UpdateTask(ctx context.Context, projectID, id string, upd model.TaskUpdate) error {
	if err := upd.Validate(); err != nil {
		return fmt.Errorf("invalid update: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := getTask(ctx, tx, projectID, id)
	if err != nil {
		return err
	}
	t, err := upd.Apply(current)
	if err != nil {
		return fmt.Errorf("could not apply update: %w", err)
	}

	_, err = tx.Exec(ctx, `
UPDATE `+tasksTable+`
SET start_at = $3, end_at = $4, week = $5, progress = $6, updated_at = now()
WHERE project_id = $1 AND id = $2`,
		projectID, id, t.Start, t.End, t.Week, t.Progress,
	)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Updated task in repository: %s %s", id, upd)
	return nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, projectID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+tasksTable+` WHERE project_id = $1 AND id = $2`, projectID, id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
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

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM `+tasksTable+` WHERE project_id = $1`, projectID); err != nil {
		return 0, fmt.Errorf("could not clear project tasks: %w", err)
	}
	for i, t := range tasks {
		pos := i + 1
		if err := insertTask(ctx, tx, projectID, &pos, t); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Imported %d tasks into project %s", len(tasks), projectID)
	return len(tasks), nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	var status string
	var start, end time.Time

	err := row.Scan(
		&t.ID, &t.Name, &start, &end,
		&t.LocationStart, &t.LocationEnd,
		&t.Progress, &status, &t.Week,
		&t.Dependencies, &t.Constraints,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Start, t.End = start.UTC(), end.UTC()
	t.Status = model.TaskStatus(status)
	t.Dependencies = nonNil(t.Dependencies)
	t.Constraints = nonNil(t.Constraints)
	return t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
