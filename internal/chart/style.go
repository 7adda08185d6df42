package chart

import (
	"fmt"
	"regexp"

	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/scale"
)

// DefaultPalette is the colour cycle used for task name groups.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Style is the visual configuration shared by all the renderers.
type Style struct {
	Width       float64
	Height      float64
	Margin      scale.Margin
	BandPadding float64
	AxisTicks   int
	BoardWeeks  int
	CardHeight  float64
	CardGap     float64
	FontFamily  string
	FontSize    float64
	Palette     []string
	Background  string
	TextColor   string
	GridColor   string
	TodayColor  string
	LinkColor   string
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	return Style{
		Width:       1200,
		Height:      600,
		Margin:      scale.Margin{Top: 40, Right: 40, Bottom: 40, Left: 180},
		BandPadding: 0.3,
		AxisTicks:   10,
		BoardWeeks:  6,
		CardHeight:  58,
		CardGap:     8,
		FontFamily:  "Helvetica, Arial, sans-serif",
		FontSize:    12,
		Palette:     DefaultPalette,
		Background:  "#ffffff",
		TextColor:   "#333333",
		GridColor:   "#e5e5e5",
		TodayColor:  "#e4002b",
		LinkColor:   "#555555",
	}
}

var colorRegexp = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate validates the style.
func (s Style) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("surface size must be positive: %w", model.ErrNotValid)
	}
	if s.Margin.Top < 0 || s.Margin.Right < 0 || s.Margin.Bottom < 0 || s.Margin.Left < 0 {
		return fmt.Errorf("margins can't be negative: %w", model.ErrNotValid)
	}
	if s.Surface().InnerWidth() <= 0 || s.Surface().InnerHeight() <= 0 {
		return fmt.Errorf("margins leave no drawable area: %w", model.ErrNotValid)
	}
	if s.BandPadding < 0 || s.BandPadding >= 1 {
		return fmt.Errorf("band padding must be in the [0, 1) range: %w", model.ErrNotValid)
	}
	if s.AxisTicks < 0 {
		return fmt.Errorf("axis ticks can't be negative: %w", model.ErrNotValid)
	}
	if s.BoardWeeks < 1 {
		return fmt.Errorf("board weeks must be 1 or more: %w", model.ErrNotValid)
	}
	if s.CardHeight <= 0 || s.CardGap < 0 {
		return fmt.Errorf("invalid card size: %w", model.ErrNotValid)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("font size must be positive: %w", model.ErrNotValid)
	}
	if len(s.Palette) == 0 {
		return fmt.Errorf("palette can't be empty: %w", model.ErrNotValid)
	}

	colors := append([]string{s.Background, s.TextColor, s.GridColor, s.TodayColor, s.LinkColor}, s.Palette...)
	for _, c := range colors {
		if !colorRegexp.MatchString(c) {
			return fmt.Errorf("invalid colour %q: %w", c, model.ErrNotValid)
		}
	}

	return nil
}

// Surface returns the drawing surface of the style.
func (s Style) Surface() scale.Surface {
	return scale.Surface{Width: s.Width, Height: s.Height, Margin: s.Margin}
}

// statusLook is the presentation of a task status.
type statusLook struct {
	opacity float64
	dash    []float64
	badge   string
}

func lookFor(s model.TaskStatus) statusLook {
	switch s {
	case model.TaskStatusInProgress:
		return statusLook{opacity: 1}
	case model.TaskStatusCompleted:
		return statusLook{opacity: 0.85, badge: "done"}
	case model.TaskStatusOnHold:
		return statusLook{opacity: 0.6, dash: []float64{4, 3}, badge: "hold"}
	case model.TaskStatusCancelled:
		return statusLook{opacity: 0.3, dash: []float64{2, 2}, badge: "cancelled"}
	default:
		return statusLook{opacity: 0.7}
	}
}
