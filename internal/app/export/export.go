package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/slok/bbschedule/internal/export"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/storage"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses an export format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ServiceConfig is the configuration for the export service.
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

// Service exports project snapshots.
type Service struct {
	repo       storage.Repository
	normalizer *normalize.Normalizer
	clock      func() time.Time
	logger     log.Logger
}

// NewService creates a new export service.
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

// Request represents the export request parameters. Path has priority over Out.
type Request struct {
	ProjectID string
	Format    Format
	// Path is written atomically when set, JSON only.
	Path string
	Out  io.Writer
}

// Run builds the project snapshot and writes it.
func (s *Service) Run(ctx context.Context, req Request) (*export.Snapshot, error) {
	res, err := s.normalizer.Load(ctx, s.repo, req.ProjectID)
	if err != nil {
		return nil, err
	}
	snap := export.NewSnapshot(req.ProjectID, res.Tasks, s.clock())

	switch {
	case req.Format == FormatJSON && req.Path != "":
		err = export.WriteJSON(req.Path, snap)
	case req.Out == nil:
		return nil, fmt.Errorf("an output is required")
	case req.Format == FormatJSON:
		err = export.EncodeJSON(req.Out, snap)
	case req.Format == FormatXLSX:
		err = export.WriteXLSX(req.Out, snap)
	default:
		err = fmt.Errorf("unknown export format %q", req.Format)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Exported %d tasks of %s as %s", len(res.Tasks), req.ProjectID, req.Format)
	return &snap, nil
}
