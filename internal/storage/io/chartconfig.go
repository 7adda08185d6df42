package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/bbschedule/internal/chart"
)

// ChartConfigYAMLRepository loads chart styles from YAML files.
type ChartConfigYAMLRepository struct {
	fs fs.FS
}

// NewChartConfigYAMLRepository creates a new YAML chart config repository.
func NewChartConfigYAMLRepository(filesystem fs.FS) *ChartConfigYAMLRepository {
	return &ChartConfigYAMLRepository{fs: filesystem}
}

// GetStyle loads a chart style from a YAML file. Missing keys keep the default
// style values and the result is validated.
func (r *ChartConfigYAMLRepository) GetStyle(ctx context.Context, path string) (chart.Style, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return chart.Style{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return chart.Style{}, ctx.Err()
	}

	var cfg ChartConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return chart.Style{}, fmt.Errorf("parsing YAML: %w", err)
	}

	style := cfg.overlay(chart.DefaultStyle())
	if err := style.Validate(); err != nil {
		return chart.Style{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return style, nil
}

// ChartConfig represents the YAML structure for chart configuration.
type ChartConfig struct {
	Surface SurfaceConfig `yaml:"surface"`
	Gantt   GanttConfig   `yaml:"gantt"`
	Board   BoardConfig   `yaml:"board"`
	Font    FontConfig    `yaml:"font"`
	Colors  ColorsConfig  `yaml:"colors"`
}

// SurfaceConfig represents the YAML structure for the drawing surface.
type SurfaceConfig struct {
	Width   *float64      `yaml:"width"`
	Height  *float64      `yaml:"height"`
	Margins MarginsConfig `yaml:"margins"`
}

// MarginsConfig represents the YAML structure for the surface margins.
type MarginsConfig struct {
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// GanttConfig represents the YAML structure for the Gantt chart.
type GanttConfig struct {
	BandPadding *float64 `yaml:"band_padding"`
	AxisTicks   *int     `yaml:"axis_ticks"`
}

// BoardConfig represents the YAML structure for the pull-planning board.
type BoardConfig struct {
	Weeks      *int     `yaml:"weeks"`
	CardHeight *float64 `yaml:"card_height"`
	CardGap    *float64 `yaml:"card_gap"`
}

// FontConfig represents the YAML structure for text.
type FontConfig struct {
	Family *string  `yaml:"family"`
	Size   *float64 `yaml:"size"`
}

// ColorsConfig represents the YAML structure for colours.
type ColorsConfig struct {
	Palette    []string `yaml:"palette"`
	Background *string  `yaml:"background"`
	Text       *string  `yaml:"text"`
	Grid       *string  `yaml:"grid"`
	Today      *string  `yaml:"today"`
	Links      *string  `yaml:"links"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c ChartConfig) overlay(s chart.Style) chart.Style {
	set(&s.Width, c.Surface.Width)
	set(&s.Height, c.Surface.Height)
	set(&s.Margin.Top, c.Surface.Margins.Top)
	set(&s.Margin.Right, c.Surface.Margins.Right)
	set(&s.Margin.Bottom, c.Surface.Margins.Bottom)
	set(&s.Margin.Left, c.Surface.Margins.Left)

	set(&s.BandPadding, c.Gantt.BandPadding)
	set(&s.AxisTicks, c.Gantt.AxisTicks)

	set(&s.BoardWeeks, c.Board.Weeks)
	set(&s.CardHeight, c.Board.CardHeight)
	set(&s.CardGap, c.Board.CardGap)

	set(&s.FontFamily, c.Font.Family)
	set(&s.FontSize, c.Font.Size)

	if c.Colors.Palette != nil {
		s.Palette = c.Colors.Palette
	}
	set(&s.Background, c.Colors.Background)
	set(&s.TextColor, c.Colors.Text)
	set(&s.GridColor, c.Colors.Grid)
	set(&s.TodayColor, c.Colors.Today)
	set(&s.LinkColor, c.Colors.Links)

	return s
}
