package remove

import (
	"context"
	"fmt"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/session"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the remove service.
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

// Service removes a task.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the remove request parameters.
type Request struct {
	ProjectID string
	TaskID    string
}

// Run removes a task. Tasks depending on it keep the dangling dependency.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	s.logger.Debugf("removing task: %s", req.TaskID)

	sess, err := session.New(session.Config{
		ProjectID:  req.ProjectID,
		Repository: s.repo,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	defer sess.Close()

	if err := sess.Load(ctx); err != nil {
		return nil, err
	}

	t, ok := sess.Task(req.TaskID)
	if !ok {
		return nil, fmt.Errorf("task not found: %s: %w", req.TaskID, model.ErrNotFound)
	}

	if err := sess.RemoveTask(ctx, req.TaskID); err != nil {
		return nil, err
	}

	return &t, nil
}
