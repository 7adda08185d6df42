package importtasks

import (
	"context"
	"fmt"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

// RecordsReader reads raw task records from a source file.
type RecordsReader interface {
	ListTaskRecords(ctx context.Context, path string) ([]model.Record, error)
}

// ServiceConfig is the configuration for the import service.
type ServiceConfig struct {
	Records    RecordsReader
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Records == nil {
		return fmt.Errorf("records reader is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "importtasks.Service"})

	return nil
}

// Service imports a task file into a project, replacing its tasks.
type Service struct {
	records    RecordsReader
	repo       storage.Repository
	normalizer *normalize.Normalizer
	logger     log.Logger
}

// NewService creates a new import service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	n, err := normalize.NewNormalizer(normalize.NormalizerConfig{Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create normalizer: %w", err)
	}

	return &Service{
		records:    cfg.Records,
		repo:       cfg.Repository,
		normalizer: n,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the import request parameters.
type Request struct {
	ProjectID string
	Path      string
	// Strict fails the import when any record is malformed instead of dropping it.
	Strict bool
}

// Response is the import result.
type Response struct {
	Imported int
	Dropped  []normalize.DroppedRecord
}

// Run reads, normalizes and stores the records of the file.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if req.ProjectID == "" {
		return nil, fmt.Errorf("project id is required: %w", model.ErrNotValid)
	}

	recs, err := s.records.ListTaskRecords(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("could not read records: %w", err)
	}

	res := s.normalizer.Normalize(recs)
	if req.Strict && len(res.Dropped) > 0 {
		d := res.Dropped[0]
		return nil, fmt.Errorf("record %d (%q): %w", d.Index, d.ID, d.Err)
	}

	n, err := s.repo.ImportTasks(ctx, req.ProjectID, res.Tasks)
	if err != nil {
		return nil, fmt.Errorf("could not import tasks: %w", err)
	}

	s.logger.Infof("Imported %d tasks into project %s (%d dropped)", n, req.ProjectID, len(res.Dropped))
	return &Response{Imported: n, Dropped: res.Dropped}, nil
}
