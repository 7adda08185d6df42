package taskmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the task metrics service.
type ServiceConfig struct {
	Repository storage.Repository
	// Clock returns the instant metrics are computed at.
	Clock  func() time.Time
	Logger log.Logger
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

// Service computes the derived metrics of project tasks.
type Service struct {
	repo       storage.Repository
	normalizer *normalize.Normalizer
	clock      func() time.Time
	logger     log.Logger
}

// NewService creates a new task metrics service.
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
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the task metrics request parameters.
type Request struct {
	ProjectID string
	// TaskID limits the result to a single task when set.
	TaskID string
}

// Entry is a task with its metrics.
type Entry struct {
	Task    model.Task
	Metrics metrics.TaskMetrics
}

// Run computes the metrics of the project tasks.
func (s *Service) Run(ctx context.Context, req Request) ([]Entry, error) {
	res, err := s.normalizer.Load(ctx, s.repo, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	entries := []Entry{}
	for _, t := range res.Tasks {
		if req.TaskID != "" && t.ID != req.TaskID {
			continue
		}
		entries = append(entries, Entry{Task: t, Metrics: metrics.ForTask(t, now)})
	}

	if req.TaskID != "" && len(entries) == 0 {
		return nil, fmt.Errorf("task %s: %w", req.TaskID, model.ErrNotFound)
	}

	return entries, nil
}
