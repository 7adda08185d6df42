package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/natefinch/atomic"

	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

// Snapshot is a self contained export of a project schedule at an instant.
type Snapshot struct {
	ProjectID   string    `json:"project_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     Summary   `json:"summary"`
	Weeks       []Week    `json:"weeks"`
}

// Summary are the aggregated project statistics.
type Summary struct {
	Total              int            `json:"total"`
	Active             int            `json:"active"`
	Completed          int            `json:"completed"`
	Overdue            int            `json:"overdue"`
	HighRisk           int            `json:"high_risk"`
	StatusDistribution map[string]int `json:"status_distribution"`
	OverallProgress    float64        `json:"overall_progress"`
	CompletionRate     float64        `json:"completion_rate"`
	Start              string         `json:"start,omitempty"`
	End                string         `json:"end,omitempty"`
	CriticalPath       []string       `json:"critical_path"`
}

// Week is a group of tasks planned for the same pull-planning week, week 0 has
// the unplanned tasks.
type Week struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Tasks []Task `json:"tasks"`
}

// Task is an exported task with its derived metrics.
type Task struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Start            string   `json:"start_date"`
	End              string   `json:"end_date"`
	LocationStart    *float64 `json:"station_start,omitempty"`
	LocationEnd      *float64 `json:"station_end,omitempty"`
	Progress         int      `json:"progress"`
	Status           string   `json:"status"`
	Dependencies     []string `json:"dependencies"`
	Constraints      []string `json:"constraints"`
	DurationDays     float64  `json:"duration_days"`
	Distance         *float64 `json:"distance,omitempty"`
	Rate             *float64 `json:"rate,omitempty"`
	ExpectedProgress int      `json:"expected_progress"`
	Variance         int      `json:"progress_variance"`
	Overdue          bool     `json:"overdue"`
	Risk             string   `json:"risk"`
}

// WeekLabel returns the display label of a week.
func WeekLabel(week int) string {
	if week == 0 {
		return "Unplanned"
	}
	return fmt.Sprintf("Week %d", week)
}

// NewSnapshot builds the snapshot of the tasks at now. Weeks are sorted with the
// unplanned group last, tasks keep their order inside each week.
func NewSnapshot(projectID string, tasks []model.Task, now time.Time) Snapshot {
	stats := metrics.Dashboard(tasks, now)
	summary := Summary{
		Total:              stats.Total,
		Active:             stats.Active,
		Completed:          stats.Completed,
		Overdue:            stats.Overdue,
		HighRisk:           stats.HighRisk,
		StatusDistribution: make(map[string]int, len(stats.StatusDistribution)),
		OverallProgress:    stats.OverallProgress,
		CompletionRate:     stats.CompletionRate,
		CriticalPath:       nonNil(stats.CriticalPath),
	}
	for st, n := range stats.StatusDistribution {
		summary.StatusDistribution[string(st)] = n
	}
	if len(tasks) > 0 {
		summary.Start = model.FormatRecordTime(stats.Start)
		summary.End = model.FormatRecordTime(stats.End)
	}

	groups := map[int][]Task{}
	for _, t := range tasks {
		groups[t.Week] = append(groups[t.Week], newTask(t, now))
	}

	weeks := make([]int, 0, len(groups))
	for w := range groups {
		weeks = append(weeks, w)
	}
	slices.SortFunc(weeks, func(a, b int) int {
		switch {
		case a == b:
			return 0
		case a == 0:
			return 1
		case b == 0:
			return -1
		}
		return a - b
	})

	snap := Snapshot{
		ProjectID:   projectID,
		GeneratedAt: now.UTC(),
		Summary:     summary,
		Weeks:       make([]Week, 0, len(weeks)),
	}
	for _, w := range weeks {
		week := Week{Week: w, Label: WeekLabel(w), Tasks: groups[w]}
		if w > 0 {
			start, end := model.WeekWindow(now, w)
			week.Start = model.FormatRecordTime(start)
			week.End = model.FormatRecordTime(end)
		}
		snap.Weeks = append(snap.Weeks, week)
	}

	return snap
}

func newTask(t model.Task, now time.Time) Task {
	m := metrics.ForTask(t, now)
	et := Task{
		ID:               t.ID,
		Name:             t.Name,
		Start:            model.FormatRecordTime(t.Start),
		End:              model.FormatRecordTime(t.End),
		LocationStart:    t.LocationStart,
		LocationEnd:      t.LocationEnd,
		Progress:         t.Progress,
		Status:           string(t.Status),
		Dependencies:     nonNil(t.Dependencies),
		Constraints:      nonNil(t.Constraints),
		DurationDays:     m.DurationDays,
		ExpectedProgress: m.ExpectedProgress,
		Variance:         m.Variance,
		Overdue:          m.Overdue,
		Risk:             string(m.Risk),
	}
	if m.HasDistance {
		et.Distance = &m.Distance
	}
	if m.HasRate {
		et.Rate = &m.Rate
	}
	return et
}

// EncodeJSON writes the snapshot as indented JSON.
func EncodeJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	return nil
}

// WriteJSON writes the snapshot JSON file atomically, readers never see a partial file.
func WriteJSON(path string, s Snapshot) error {
	var b bytes.Buffer
	if err := EncodeJSON(&b, s); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &b); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
