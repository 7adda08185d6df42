package addtask

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/session"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the add task service.
type ServiceConfig struct {
	Repository storage.Repository
	Clock      func() time.Time
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Clock == nil {
		c.Clock = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service adds pull-planning tasks to a project.
type Service struct {
	repo   storage.Repository
	clock  func() time.Time
	logger log.Logger
}

// NewService creates a new add task service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Request represents the add task request parameters.
type Request struct {
	ProjectID string
	Task      model.NewTask
}

// Run creates the task, scheduled at the start of its week.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	if err := req.Task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	sess, err := session.New(session.Config{
		ProjectID:  req.ProjectID,
		Repository: s.repo,
		Clock:      s.clock,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	defer sess.Close()

	t, err := sess.AddTask(ctx, req.Task)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
