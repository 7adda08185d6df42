package chart

import (
	"time"

	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/scale"
)

// Linear renders the time-distance chart, one line per located task whose slope is
// the production rate. Tasks without location are not drawn.
func (r *Renderer) Linear(tasks []model.Task, set scale.Set, now time.Time) Scene {
	if len(tasks) == 0 {
		return r.empty(KindLinear, MessageNoTasks)
	}

	located := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.HasLocation() {
			located = append(located, t)
		}
	}
	if len(located) == 0 || !set.HasLocation {
		return r.empty(KindLinear, MessageNoLocatedTasks)
	}

	s := r.newScene(KindLinear)
	ox, oy := r.style.Margin.Left, r.style.Margin.Top
	h := set.Surface.InnerHeight()
	fs := r.style.FontSize

	s.Elements = append(s.Elements, r.timeAxis(set, oy+h+fs+6)...)

	// Location axis.
	for _, v := range set.Location.Ticks(max(r.style.AxisTicks/2, 2)) {
		y := oy + set.Location.Map(v)
		s.Elements = append(s.Elements,
			Line{Class: "grid", X1: ox, Y1: y, X2: ox + set.Surface.InnerWidth(), Y2: y, Paint: Paint{Stroke: r.style.GridColor, StrokeWidth: 1}},
			Text{Class: "axis", X: ox - 8, Y: y + fs/3, Text: FormatNumber(v, 0), Anchor: AnchorEnd, Size: fs * 0.9, Paint: Paint{Fill: r.style.TextColor}},
		)
	}

	names := make([]string, 0, len(located))
	for _, t := range located {
		color := r.palette.Color(t.Name)
		look := lookFor(t.Status)
		names = append(names, t.Name)

		x0 := ox + set.Time.Map(t.Start)
		x1 := max(ox+set.Time.Map(t.End), x0)
		y0 := oy + set.Location.Map(*t.LocationStart)
		y1 := oy + set.Location.Map(*t.LocationEnd)

		label := t.Name
		if rate := FormatRate(metrics.Rate(t)); rate != "" {
			label += " (" + rate + ")"
		}

		s.Elements = append(s.Elements,
			Polyline{
				TaskID: t.ID,
				Class:  "production status-" + string(t.Status),
				Points: []Point{{X: x0, Y: y0}, {X: x1, Y: y1}},
				Paint:  Paint{Stroke: color, StrokeWidth: 3, Opacity: look.opacity, Dash: look.dash},
			},
			Circle{TaskID: t.ID, Class: "marker-start", CX: x0, CY: y0, R: 4, Paint: Paint{Fill: color, Stroke: r.style.Background, StrokeWidth: 1}},
			Circle{TaskID: t.ID, Class: "marker-end", CX: x1, CY: y1, R: 4, Paint: Paint{Fill: r.style.Background, Stroke: color, StrokeWidth: 2}},
			Text{
				TaskID: t.ID,
				Class:  "task-label",
				X:      (x0 + x1) / 2,
				Y:      (y0+y1)/2 - 8,
				Text:   label,
				Anchor: AnchorMiddle,
				Size:   fs * 0.9,
				Paint:  Paint{Fill: r.style.TextColor},
			},
		)
	}

	s.Legend = r.palette.Legend(names)
	s.Elements = append(s.Elements, r.legend(s.Legend)...)
	s.Elements = append(s.Elements, r.todayMarker(set, now)...)

	return s
}

// legend draws the legend entries stacked in the top right corner.
func (r *Renderer) legend(entries []LegendEntry) []Element {
	fs := r.style.FontSize
	width := 0.0
	for _, e := range entries {
		width = max(width, textWidth(e.Label, fs))
	}
	width += 24

	x := r.style.Width - r.style.Margin.Right - width
	y := r.style.Margin.Top + 6
	var els []Element
	for i, e := range entries {
		ey := y + float64(i)*(fs+6)
		els = append(els,
			Rect{Class: "legend", X: x, Y: ey, Width: 10, Height: 10, Paint: Paint{Fill: e.Color}},
			Text{Class: "legend", X: x + 16, Y: ey + 9, Text: e.Label, Anchor: AnchorStart, Size: fs * 0.9, Paint: Paint{Fill: r.style.TextColor}},
		)
	}
	return els
}
