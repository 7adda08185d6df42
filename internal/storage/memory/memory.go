package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	// projects keeps the tasks of each project in order.
	projects map[string][]model.Task
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		projects: make(map[string][]model.Task),
		logger:   cfg.Logger,
	}, nil
}

func (r *Repository) index(projectID, id string) int {
	return slices.IndexFunc(r.projects[projectID], func(t model.Task) bool { return t.ID == id })
}

// ListTaskRecords returns the project tasks as records.
func (r *Repository) ListTaskRecords(ctx context.Context, projectID string) ([]model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := r.projects[projectID]
	recs := make([]model.Record, 0, len(tasks))
	for _, t := range tasks {
		recs = append(recs, model.RecordFromTask(t))
	}

	return recs, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, projectID, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(projectID, id)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	// Return a copy
	t := r.projects[projectID][i].Clone()
	return &t, nil
}

// CreateTask appends a new task to the project.
func (r *Repository) CreateTask(ctx context.Context, projectID string, t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(projectID, t.ID) >= 0 {
		return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
	}

	r.projects[projectID] = append(r.projects[projectID], t.Clone())
	r.logger.Debugf("Created task in repository: %s", t.ID)

	return nil
}

// UpdateTask applies a partial update to a task.
func (r *Repository) UpdateTask(ctx context.Context, projectID, id string, upd model.TaskUpdate) error {
	if err := upd.Validate(); err != nil {
		return fmt.Errorf("invalid update: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(projectID, id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	t, err := upd.Apply(r.projects[projectID][i])
	if err != nil {
		return fmt.Errorf("could not apply update: %w", err)
	}

	r.projects[projectID][i] = t
	r.logger.Debugf("Updated task in repository: %s %s", id, upd)

	return nil
}

// DeleteTask deletes a task.
func (r *Repository) DeleteTask(ctx context.Context, projectID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(projectID, id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	r.projects[projectID] = slices.Delete(r.projects[projectID], i, i+1)
	r.logger.Debugf("Deleted task from repository: %s", id)

	return nil
}

// ImportTasks replaces the project tasks.
func (r *Repository) ImportTasks(ctx context.Context, projectID string, tasks []model.Task) (int, error) {
	seen := make(map[string]struct{}, len(tasks))
	stored := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("invalid task %s: %w", t.ID, err)
		}
		if _, ok := seen[t.ID]; ok {
			return 0, fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		seen[t.ID] = struct{}{}
		stored = append(stored, t.Clone())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects[projectID] = stored
	r.logger.Debugf("Imported %d tasks into project %s", len(stored), projectID)

	return len(stored), nil
}
