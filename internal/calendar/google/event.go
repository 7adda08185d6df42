package google

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

// Private extended properties set on every published event.
const (
	PropertyTaskID    = "bbschedule_task_id"
	PropertyProjectID = "bbschedule_project_id"
)

// Calendar color ids.
const (
	colorGreen = "10"
	colorRed   = "11"
	colorGray  = "8"
	colorBlue  = "9"
)

var statusGlyphs = map[model.TaskStatus]string{
	model.TaskStatusNotStarted: "○",
	model.TaskStatusInProgress: "◐",
	model.TaskStatusCompleted:  "●",
	model.TaskStatusOnHold:     "‖",
	model.TaskStatusCancelled:  "✕",
}

// EventFromTask converts a task into a calendar event. Day aligned tasks become
// all day events, the rest keep their exact instants.
func EventFromTask(projectID string, t model.Task, now time.Time) *calendar.Event {
	m := metrics.ForTask(t, now)

	var desc strings.Builder
	fmt.Fprintf(&desc, "Status: %s\n", t.Status)
	fmt.Fprintf(&desc, "Progress: %d%% (expected %d%%)\n", t.Progress, m.ExpectedProgress)
	fmt.Fprintf(&desc, "Risk: %s\n", m.Risk)
	if t.Week > 0 {
		fmt.Fprintf(&desc, "Pull plan week: %d\n", t.Week)
	}
	if len(t.Constraints) > 0 {
		fmt.Fprintf(&desc, "Constraints: %s\n", strings.Join(t.Constraints, ", "))
	}
	if len(t.Dependencies) > 0 {
		fmt.Fprintf(&desc, "Depends on: %s\n", strings.Join(t.Dependencies, ", "))
	}

	start, end := eventTimes(t)
	return &calendar.Event{
		Summary:     fmt.Sprintf("%s %s", statusGlyphs[t.Status], t.Name),
		Description: desc.String(),
		ColorId:     colorFor(t, m),
		Start:       start,
		End:         end,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				PropertyTaskID:    t.ID,
				PropertyProjectID: projectID,
			},
		},
	}
}

func eventTimes(t model.Task) (start, end *calendar.EventDateTime) {
	allDay := t.Start.Equal(model.Day(t.Start)) && t.End.Equal(model.Day(t.End))
	if !allDay {
		e := t.End
		if e.Before(t.Start) {
			e = t.Start
		}
		return &calendar.EventDateTime{DateTime: t.Start.UTC().Format(time.RFC3339)},
			&calendar.EventDateTime{DateTime: e.UTC().Format(time.RFC3339)}
	}

	// All day end dates are exclusive and must be after the start.
	e := t.End
	if !e.After(t.Start) {
		e = t.Start.AddDate(0, 0, 1)
	}
	return &calendar.EventDateTime{Date: t.Start.Format(model.RecordDateLayout)},
		&calendar.EventDateTime{Date: e.Format(model.RecordDateLayout)}
}

func colorFor(t model.Task, m metrics.TaskMetrics) string {
	switch {
	case t.Status == model.TaskStatusCompleted:
		return colorGreen
	case t.Status == model.TaskStatusCancelled || t.Status == model.TaskStatusOnHold:
		return colorGray
	case m.Risk == metrics.RiskLevelHigh:
		return colorRed
	default:
		return colorBlue
	}
}

// EventPatch returns the fields of target that differ from existing, nil when
// the event is up to date.
func EventPatch(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	changed := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		changed = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		changed = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		changed = true
	}
	if !sameTime(existing.Start, target.Start) || !sameTime(existing.End, target.End) {
		patch.Start = target.Start
		patch.End = target.End
		changed = true
	}

	if !changed {
		return nil
	}
	return patch
}

func sameTime(a, b *calendar.EventDateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Date != b.Date {
		return false
	}
	if a.DateTime == b.DateTime {
		return true
	}

	ta, errA := time.Parse(time.RFC3339, a.DateTime)
	tb, errB := time.Parse(time.RFC3339, b.DateTime)
	return errA == nil && errB == nil && ta.Equal(tb)
}
