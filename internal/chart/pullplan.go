package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/scale"
)

const boardHeaderHeight = 40.0

// Board is the discrete week layout of the pull-planning board.
type Board struct {
	Today time.Time
	Weeks int
}

// Window returns the date window of a board week.
func (b Board) Window(week int) (start, end time.Time) {
	return model.WeekWindow(b.Today, week)
}

// Contains returns true when the week is shown on the board.
func (b Board) Contains(week int) bool {
	return week >= 1 && week <= b.Weeks
}

// TimeScale returns the continuous scale the board spans.
func (b Board) TimeScale(width float64) scale.Time {
	start, _ := b.Window(1)
	_, end := b.Window(b.Weeks)
	return scale.NewTime(start, end, 0, width)
}

// Board returns the board of the renderer style anchored at now.
func (r *Renderer) Board(now time.Time) Board {
	return Board{Today: model.Day(now), Weeks: r.style.BoardWeeks}
}

// PullPlan renders the pull-planning board, one column per week with a card per
// task planned in it. Unplanned tasks or tasks outside the shown weeks are not drawn.
func (r *Renderer) PullPlan(tasks []model.Task, now time.Time) Scene {
	if len(tasks) == 0 {
		return r.empty(KindPullPlan, MessageNoTasks)
	}

	s := r.newScene(KindPullPlan)
	board := r.Board(now)
	surface := r.style.Surface()
	ox, oy := r.style.Margin.Left, r.style.Margin.Top
	w, h := surface.InnerWidth(), surface.InnerHeight()
	colW := w / float64(board.Weeks)
	fs := r.style.FontSize

	// Cards by week keeping input order.
	columns := make(map[int][]model.Task, board.Weeks)
	outside := 0
	for _, t := range tasks {
		if !board.Contains(t.Week) {
			outside++
			continue
		}
		columns[t.Week] = append(columns[t.Week], t)
	}

	// Grow the board when a column doesn't fit.
	bodyTop := oy + boardHeaderHeight + 4
	for _, cards := range columns {
		need := boardHeaderHeight + 12 + float64(len(cards))*(r.style.CardHeight+r.style.CardGap)
		if need > h {
			h = need
		}
	}
	s.Height = oy + h + r.style.Margin.Bottom

	ts := board.TimeScale(w)
	for week := 1; week <= board.Weeks; week++ {
		x := ox + float64(week-1)*colW
		start, end := board.Window(week)
		current := !now.Before(start) && now.Before(end)

		headerFill := "#f0f0f0"
		if current {
			headerFill = "#fff4e5"
		}
		s.Elements = append(s.Elements,
			Rect{Class: "column", X: x + 2, Y: bodyTop, Width: colW - 4, Height: oy + h - bodyTop, Radius: 4, Paint: Paint{Fill: "#f7f7f7", Stroke: r.style.GridColor, StrokeWidth: 1}},
			Rect{Class: "column-header", X: x + 2, Y: oy, Width: colW - 4, Height: boardHeaderHeight, Radius: 4, Paint: Paint{Fill: headerFill, Stroke: r.style.GridColor, StrokeWidth: 1}},
			Text{Class: "column-title", X: x + colW/2, Y: oy + 16, Text: fmt.Sprintf("Week %d", week), Anchor: AnchorMiddle, Size: fs, Bold: true, Paint: Paint{Fill: r.style.TextColor}},
			Text{Class: "column-dates", X: x + colW/2, Y: oy + 32, Text: formatTick(start) + " - " + formatTick(end.AddDate(0, 0, -1)), Anchor: AnchorMiddle, Size: fs * 0.85, Paint: Paint{Fill: r.style.TextColor, Opacity: 0.7}},
		)
		s.DropZones = append(s.DropZones, DropZone{Week: week, X: x, Y: oy, Width: colW, Height: h})

		for i, t := range columns[week] {
			cy := bodyTop + 8 + float64(i)*(r.style.CardHeight+r.style.CardGap)
			s.Elements = append(s.Elements, r.card(t, x+8, cy, colW-16)...)
			s.Handles = append(s.Handles, Handle{
				TaskID:  t.ID,
				Gesture: GestureMoveWeek,
				X:       x + 8,
				Y:       cy,
				Width:   colW - 16,
				Height:  r.style.CardHeight,
			})
		}
	}

	if ts.Contains(now) {
		tx := ox + ts.Map(now)
		s.Elements = append(s.Elements,
			Line{Class: "today", X1: tx, Y1: oy, X2: tx, Y2: oy + h, Paint: Paint{Stroke: r.style.TodayColor, StrokeWidth: 2, Dash: []float64{5, 3}}},
		)
	}

	if outside > 0 {
		s.Elements = append(s.Elements, Text{
			Class:  "unplanned",
			X:      ox,
			Y:      oy + h + fs + 6,
			Text:   fmt.Sprintf("%d task(s) not planned in the shown weeks", outside),
			Anchor: AnchorStart,
			Size:   fs * 0.9,
			Paint:  Paint{Fill: r.style.TextColor, Opacity: 0.7},
		})
	}

	names := make([]string, 0, len(tasks))
	for _, cards := range columns {
		for _, t := range cards {
			names = append(names, t.Name)
		}
	}
	s.Legend = r.palette.Legend(orderedNames(tasks, names))

	return s
}

// card draws a task card at a position.
func (r *Renderer) card(t model.Task, x, y, width float64) []Element {
	fs := r.style.FontSize
	color := r.palette.Color(t.Name)
	look := lookFor(t.Status)

	details := FormatDays(metrics.Duration(t)) + "  " + fmt.Sprintf("%d%%", metrics.PercentComplete(t))
	if look.badge != "" {
		details += "  " + look.badge
	}

	els := []Element{
		Rect{TaskID: t.ID, Class: "card status-" + string(t.Status), X: x, Y: y, Width: width, Height: r.style.CardHeight, Radius: 4, Paint: Paint{Fill: r.style.Background, Stroke: color, StrokeWidth: 1, Opacity: look.opacity, Dash: look.dash}},
		Rect{TaskID: t.ID, Class: "card-strip", X: x, Y: y, Width: 4, Height: r.style.CardHeight, Paint: Paint{Fill: color}},
		Text{TaskID: t.ID, Class: "card-title", X: x + 10, Y: y + fs + 4, Text: fitText(t.Name, width-16, fs), Anchor: AnchorStart, Size: fs, Bold: true, Paint: Paint{Fill: r.style.TextColor}},
		Text{TaskID: t.ID, Class: "card-details", X: x + 10, Y: y + 2*fs + 8, Text: fitText(details, width-16, fs*0.85), Anchor: AnchorStart, Size: fs * 0.85, Paint: Paint{Fill: r.style.TextColor, Opacity: 0.8}},
	}
	if len(t.Constraints) > 0 {
		cons := "! " + strings.Join(t.Constraints, ", ")
		els = append(els, Text{TaskID: t.ID, Class: "card-constraints", X: x + 10, Y: y + 3*fs + 10, Text: fitText(cons, width-16, fs*0.8), Anchor: AnchorStart, Size: fs * 0.8, Paint: Paint{Fill: r.style.TodayColor}})
	}

	return els
}

// orderedNames returns the names in task input order keeping only the given ones.
func orderedNames(tasks []model.Task, names []string) []string {
	keep := make(map[string]struct{}, len(names))
	for _, n := range names {
		keep[n] = struct{}{}
	}
	var ordered []string
	for _, t := range tasks {
		if _, ok := keep[t.Name]; ok {
			ordered = append(ordered, t.Name)
		}
	}
	return ordered
}
