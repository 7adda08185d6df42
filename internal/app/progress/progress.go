package progress

import (
	"context"
	"fmt"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the progress service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service records the progress of a task.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new progress service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the progress request parameters.
type Request struct {
	ProjectID string
	TaskID    string
	// Progress is the percentage of completion, 0 to 100.
	Progress int
}

// Run updates the task progress and returns the stored task.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	p := req.Progress
	upd := model.TaskUpdate{Progress: &p}
	if err := upd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progress: %w", err)
	}

	if err := s.repo.UpdateTask(ctx, req.ProjectID, req.TaskID, upd); err != nil {
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	t, err := s.repo.GetTask(ctx, req.ProjectID, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	s.logger.Infof("Task %s progress set to %d%%", req.TaskID, req.Progress)
	return t, nil
}
