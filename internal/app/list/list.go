package list

import (
	"context"
	"fmt"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the list service.
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

// Service lists project tasks with optional filtering.
type Service struct {
	repo       storage.Repository
	normalizer *normalize.Normalizer
	logger     log.Logger
}

// NewService creates a new list service.
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
		normalizer: n,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	ProjectID string
	// StatusFilter is an optional filter to only show tasks with this status.
	StatusFilter *model.TaskStatus
	// WeekFilter is an optional filter to only show tasks of a pull-planning week.
	WeekFilter *int
}

// Response is the list result.
type Response struct {
	Tasks   []model.Task
	Dropped []normalize.DroppedRecord
}

// Run lists the project tasks, optionally filtered.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	s.logger.Debugf("listing tasks of %s with filters: %v %v", req.ProjectID, req.StatusFilter, req.WeekFilter)

	res, err := s.normalizer.Load(ctx, s.repo, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(res.Tasks))
	for _, t := range res.Tasks {
		if req.StatusFilter != nil && t.Status != *req.StatusFilter {
			continue
		}
		if req.WeekFilter != nil && t.Week != *req.WeekFilter {
			continue
		}
		tasks = append(tasks, t)
	}

	s.logger.Debugf("found %d tasks", len(tasks))
	return &Response{Tasks: tasks, Dropped: res.Dropped}, nil
}
