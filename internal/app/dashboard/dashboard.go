package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

// ServiceConfig is the configuration for the dashboard service.
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

// Service aggregates the project statistics.
type Service struct {
	repo       storage.Repository
	normalizer *normalize.Normalizer
	clock      func() time.Time
	logger     log.Logger
}

// NewService creates a new dashboard service.
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

// Request represents the dashboard request parameters.
type Request struct {
	ProjectID string
}

// Response is the dashboard result.
type Response struct {
	Stats metrics.DashboardStats
	// Dropped is the number of malformed records left out of the stats.
	Dropped int
}

// Run aggregates the statistics of the project tasks.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	res, err := s.normalizer.Load(ctx, s.repo, req.ProjectID)
	if err != nil {
		return nil, err
	}

	return &Response{
		Stats:   metrics.Dashboard(res.Tasks, s.clock()),
		Dropped: len(res.Dropped),
	}, nil
}
