package render

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/render/png"
	"github.com/slok/bbschedule/internal/render/svg"
	"github.com/slok/bbschedule/internal/session"
	"github.com/slok/bbschedule/internal/storage"
)

// Format is an output format of rendered charts.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ParseFormat parses an output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ServiceConfig is the configuration for the render service.
type ServiceConfig struct {
	Repository storage.Repository
	// Style is the chart style, the default one when nil.
	Style  *chart.Style
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

// Service renders project charts.
type Service struct {
	repo   storage.Repository
	style  *chart.Style
	clock  func() time.Time
	logger log.Logger
}

// NewService creates a new render service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		style:  cfg.Style,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Request represents the render request parameters.
type Request struct {
	ProjectID string
	Kind      chart.Kind
	Format    Format
	Out       io.Writer
}

// Run renders a chart of the project tasks into the request writer.
func (s *Service) Run(ctx context.Context, req Request) (*chart.Scene, error) {
	if req.Out == nil {
		return nil, fmt.Errorf("output writer is required")
	}

	sess, err := session.New(session.Config{
		ProjectID:  req.ProjectID,
		Repository: s.repo,
		Style:      s.style,
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

	scene, err := sess.Render(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("could not render chart: %w", err)
	}

	if err := Encode(req.Out, scene, req.Format); err != nil {
		return nil, err
	}

	s.logger.Debugf("Rendered %s chart of %s as %s", req.Kind, req.ProjectID, req.Format)
	return &scene, nil
}

// Encode writes a scene in a format, an empty format is SVG.
func Encode(w io.Writer, scene chart.Scene, f Format) error {
	switch f {
	case FormatSVG, "":
		return svg.Encode(w, scene)
	case FormatPNG:
		return png.Encode(w, scene)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scene)
	}
	return fmt.Errorf("unknown format %q", f)
}
