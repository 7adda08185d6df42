package chart

import (
	"time"

	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/scale"
)

// Gantt renders one bar per task with progress overlays and dependency connectors.
func (r *Renderer) Gantt(tasks []model.Task, set scale.Set, now time.Time) Scene {
	if len(tasks) == 0 {
		return r.empty(KindGantt, MessageNoTasks)
	}

	s := r.newScene(KindGantt)
	ox, oy := r.style.Margin.Left, r.style.Margin.Top
	bw := set.Rows.Bandwidth()
	fs := r.style.FontSize

	s.Elements = append(s.Elements, r.timeAxis(set, oy-8)...)

	type bar struct {
		x0, x1, y float64
	}
	bars := make(map[string]bar, len(tasks))
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		y, ok := set.Rows.Position(t.ID)
		if !ok {
			continue
		}
		x0 := ox + set.Time.Map(t.Start)
		x1 := max(ox+set.Time.Map(t.End), x0)
		bars[t.ID] = bar{x0: x0, x1: x1, y: oy + y}
		names = append(names, t.Name)
	}

	// Connectors first so bars are drawn on top.
	for _, t := range tasks {
		succ, ok := bars[t.ID]
		if !ok {
			continue
		}
		for _, dep := range t.Dependencies {
			pred, ok := bars[dep]
			if !ok {
				r.logger.Debugf("Skipping connector of %s, unknown predecessor %s", t.ID, dep)
				continue
			}
			yp, ys := pred.y+bw/2, succ.y+bw/2
			s.Elements = append(s.Elements, Polyline{
				TaskID: t.ID,
				Class:  "dependency",
				Points: []Point{{X: pred.x1, Y: yp}, {X: pred.x1, Y: ys}, {X: succ.x0, Y: ys}},
				Arrow:  true,
				Paint:  Paint{Stroke: r.style.LinkColor, StrokeWidth: 1.2},
			})
		}
	}

	for _, t := range tasks {
		b, ok := bars[t.ID]
		if !ok {
			continue
		}
		color := r.palette.Color(t.Name)
		look := lookFor(t.Status)
		width := b.x1 - b.x0

		s.Elements = append(s.Elements,
			Text{
				TaskID: t.ID,
				Class:  "row-label",
				X:      ox - 8,
				Y:      b.y + bw/2 + fs/3,
				Text:   fitText(t.Name, r.style.Margin.Left-16, fs),
				Anchor: AnchorEnd,
				Size:   fs,
				Paint:  Paint{Fill: r.style.TextColor},
			},
			Rect{
				TaskID: t.ID,
				Class:  "bar status-" + string(t.Status),
				X:      b.x0,
				Y:      b.y,
				Width:  width,
				Height: bw,
				Radius: 3,
				Paint:  Paint{Fill: color, Stroke: color, StrokeWidth: 1, Opacity: look.opacity, Dash: look.dash},
			},
		)

		if p := model.ClampProgress(t.Progress); p > 0 {
			s.Elements = append(s.Elements, Rect{
				TaskID: t.ID,
				Class:  "progress",
				X:      b.x0,
				Y:      b.y + bw*0.65,
				Width:  width * float64(p) / 100,
				Height: bw * 0.35,
				Paint:  Paint{Fill: r.style.TextColor, Opacity: 0.35},
			})
		}

		if look.badge != "" {
			s.Elements = append(s.Elements, Text{
				TaskID: t.ID,
				Class:  "badge",
				X:      b.x1 + 4,
				Y:      b.y + bw/2 + fs/3,
				Text:   look.badge,
				Anchor: AnchorStart,
				Size:   fs * 0.85,
				Paint:  Paint{Fill: r.style.TextColor, Opacity: 0.8},
			})
		}

		s.Handles = append(s.Handles, Handle{
			TaskID:  t.ID,
			Gesture: GestureShift,
			X:       b.x0,
			Y:       b.y,
			Width:   width,
			Height:  bw,
		})
	}

	s.Elements = append(s.Elements, r.todayMarker(set, now)...)
	s.Legend = r.palette.Legend(names)

	return s
}
