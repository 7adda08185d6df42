package calendarpublish

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/calendar/google"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

// Publisher publishes tasks to an external calendar.
type Publisher interface {
	Publish(ctx context.Context, projectID string, tasks []model.Task, now time.Time) (google.PublishResult, error)
}

// ServiceConfig is the configuration for the calendar publish service.
type ServiceConfig struct {
	Repository storage.Repository
	Publisher  Publisher
	Clock      func() time.Time
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Publisher == nil {
		return fmt.Errorf("publisher is required")
	}

	if c.Clock == nil {
		c.Clock = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service publishes the project pull plan to a calendar.
type Service struct {
	repo       storage.Repository
	publisher  Publisher
	normalizer *normalize.Normalizer
	clock      func() time.Time
	logger     log.Logger
}

// NewService creates a new calendar publish service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	n, err := normalize.NewNormalizer(normalize.NormalizerConfig{Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create normalizer: %w", err)
	}

	return &Service{
		repo:       cfg.Repository,
		publisher:  cfg.Publisher,
		normalizer: n,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the calendar publish request parameters.
type Request struct {
	ProjectID string
	// PlannedOnly skips the tasks not assigned to a pull-planning week.
	PlannedOnly bool
}

// Run publishes the project tasks.
func (s *Service) Run(ctx context.Context, req Request) (*google.PublishResult, error) {
	res, err := s.normalizer.Load(ctx, s.repo, req.ProjectID)
	if err != nil {
		return nil, err
	}

	tasks := res.Tasks
	if req.PlannedOnly {
		tasks = make([]model.Task, 0, len(res.Tasks))
		for _, t := range res.Tasks {
			if t.Week > 0 {
				tasks = append(tasks, t)
			}
		}
	}

	pr, err := s.publisher.Publish(ctx, req.ProjectID, tasks, s.clock())
	if err != nil {
		return nil, fmt.Errorf("could not publish tasks: %w", err)
	}

	return &pr, nil
}
