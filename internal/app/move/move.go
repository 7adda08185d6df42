package move

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/session"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the move service.
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

// Service moves a task to another pull-planning week.
type Service struct {
	repo   storage.Repository
	clock  func() time.Time
	logger log.Logger
}

// NewService creates a new move service.
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

// Request represents the move request parameters.
type Request struct {
	ProjectID string
	TaskID    string
	Week      int
}

// Response is the move result.
type Response struct {
	Task    model.Task
	Changed bool
}

// Run moves the task and persists it.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
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

	if err := sess.Load(ctx); err != nil {
		return nil, err
	}

	t, changed, err := sess.Move(ctx, req.TaskID, req.Week)
	if err != nil {
		return nil, fmt.Errorf("could not move task: %w", err)
	}

	return &Response{Task: t, Changed: changed}, nil
}
