package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/session"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the shift service.
type ServiceConfig struct {
	Repository storage.Repository
	// ExactShift keeps fractional days instead of snapping to whole days.
	ExactShift bool
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

// Service reschedules a task moving its start and end by the same amount of time.
type Service struct {
	repo       storage.Repository
	exactShift bool
	clock      func() time.Time
	logger     log.Logger
}

// NewService creates a new shift service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:       cfg.Repository,
		exactShift: cfg.ExactShift,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the shift request parameters.
type Request struct {
	ProjectID string
	TaskID    string
	// Days is the shift amount, negative values move the task earlier.
	Days float64
}

// Response is the shift result.
type Response struct {
	Task model.Task
	// Changed is false when the shift rounded to nothing.
	Changed bool
}

// Run shifts the task and persists it.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	sess, err := session.New(session.Config{
		ProjectID:  req.ProjectID,
		Repository: s.repo,
		Clock:      s.clock,
		ExactShift: s.exactShift,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	defer sess.Close()

	if err := sess.Load(ctx); err != nil {
		return nil, err
	}

	t, changed, err := sess.Shift(ctx, req.TaskID, req.Days)
	if err != nil {
		return nil, fmt.Errorf("could not shift task: %w", err)
	}

	return &Response{Task: t, Changed: changed}, nil
}
