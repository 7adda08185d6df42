package chart

import (
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/scale"
)

// Placeholder messages of empty scenes.
const (
	MessageNoTasks        = "No tasks to display"
	MessageNoLocatedTasks = "No tasks with location data"
)

// RendererConfig is the configuration of the renderer.
type RendererConfig struct {
	Style Style
	// Palette is shared by all the renders, usually the one of the session.
	Palette *Palette
	Logger  log.Logger
}

func (c *RendererConfig) defaults() error {
	if c.Style.Width == 0 && c.Style.Height == 0 {
		c.Style = DefaultStyle()
	}
	if err := c.Style.Validate(); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}
	if c.Palette == nil {
		c.Palette = NewPalette(c.Style.Palette)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "chart.Renderer"})
	return nil
}

// Renderer renders canonical tasks into scenes.
type Renderer struct {
	style   Style
	palette *Palette
	logger  log.Logger
}

// NewRenderer returns a new renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Renderer{
		style:   cfg.Style,
		palette: cfg.Palette,
		logger:  cfg.Logger,
	}, nil
}

// Style returns the renderer style.
func (r *Renderer) Style() Style { return r.style }

// Scales computes the scale set of a task set with the renderer style.
func (r *Renderer) Scales(tasks []model.Task, now time.Time) scale.Set {
	return scale.Map(tasks, r.style.Surface(), scale.Options{
		BandPadding: r.style.BandPadding,
		Now:         now,
	})
}

// Render maps the tasks and renders the chart of a kind.
func (r *Renderer) Render(kind Kind, tasks []model.Task, now time.Time) (Scene, error) {
	switch kind {
	case KindGantt:
		return r.Gantt(tasks, r.Scales(tasks, now), now), nil
	case KindLinear:
		return r.Linear(tasks, r.Scales(tasks, now), now), nil
	case KindPullPlan:
		return r.PullPlan(tasks, now), nil
	}
	return Scene{}, fmt.Errorf("unknown chart kind %q: %w", kind, model.ErrNotValid)
}

func (r *Renderer) newScene(kind Kind) Scene {
	return Scene{
		Kind:       kind,
		Width:      r.style.Width,
		Height:     r.style.Height,
		Background: r.style.Background,
		FontFamily: r.style.FontFamily,
	}
}

// empty returns the placeholder scene.
func (r *Renderer) empty(kind Kind, msg string) Scene {
	s := r.newScene(kind)
	s.Empty = true
	s.Message = msg
	s.Elements = []Element{
		Rect{
			Class:  "placeholder",
			X:      r.style.Margin.Left,
			Y:      r.style.Margin.Top,
			Width:  r.style.Surface().InnerWidth(),
			Height: r.style.Surface().InnerHeight(),
			Radius: 6,
			Paint:  Paint{Fill: r.style.Background, Stroke: r.style.GridColor, StrokeWidth: 2, Dash: []float64{6, 4}},
		},
		Text{
			Class:  "placeholder",
			X:      r.style.Width / 2,
			Y:      r.style.Height / 2,
			Text:   msg,
			Anchor: AnchorMiddle,
			Size:   r.style.FontSize * 1.5,
			Paint:  Paint{Fill: r.style.TextColor, Opacity: 0.6},
		},
	}
	return s
}

// timeAxis draws vertical grid lines with their date labels on top.
func (r *Renderer) timeAxis(set scale.Set, labelY float64) []Element {
	ox, oy := r.style.Margin.Left, r.style.Margin.Top
	h := set.Surface.InnerHeight()

	var els []Element
	for _, t := range set.Time.Ticks(r.style.AxisTicks) {
		x := ox + set.Time.Map(t)
		els = append(els,
			Line{Class: "grid", X1: x, Y1: oy, X2: x, Y2: oy + h, Paint: Paint{Stroke: r.style.GridColor, StrokeWidth: 1}},
			Text{Class: "axis", X: x, Y: labelY, Text: formatTick(t), Anchor: AnchorMiddle, Size: r.style.FontSize * 0.9, Paint: Paint{Fill: r.style.TextColor}},
		)
	}
	return els
}

// todayMarker draws the current time line when now is inside the time domain.
func (r *Renderer) todayMarker(set scale.Set, now time.Time) []Element {
	if !set.Time.Contains(now) {
		return nil
	}

	ox, oy := r.style.Margin.Left, r.style.Margin.Top
	x := ox + set.Time.Map(now)
	return []Element{
		Line{Class: "today", X1: x, Y1: oy, X2: x, Y2: oy + set.Surface.InnerHeight(), Paint: Paint{Stroke: r.style.TodayColor, StrokeWidth: 2, Dash: []float64{5, 3}}},
		Text{Class: "today", X: x + 4, Y: oy + set.Surface.InnerHeight() - 4, Text: "Today", Anchor: AnchorStart, Size: r.style.FontSize * 0.9, Bold: true, Paint: Paint{Fill: r.style.TodayColor}},
	}
}
