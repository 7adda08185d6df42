package google_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/calendar/v3"

	"github.com/slok/bbschedule/internal/calendar/google"
	"github.com/slok/bbschedule/internal/model"
)

var now = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

func date(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestEventFromTask(t *testing.T) {
	tests := map[string]struct {
		task     model.Task
		expSum   string
		expStart calendar.EventDateTime
		expEnd   calendar.EventDateTime
		expColor string
	}{
		"Day aligned tasks should be all day events.": {
			task:     model.Task{ID: "1", Name: "Excavation", Start: date(1), End: date(11), Progress: 100, Status: model.TaskStatusCompleted},
			expSum:   "● Excavation",
			expStart: calendar.EventDateTime{Date: "2024-01-01"},
			expEnd:   calendar.EventDateTime{Date: "2024-01-11"},
			expColor: "10",
		},
		"Zero length day aligned tasks should last one day.": {
			task:     model.Task{ID: "2", Name: "Inspection", Start: date(8), End: date(8), Status: model.TaskStatusNotStarted},
			expSum:   "○ Inspection",
			expStart: calendar.EventDateTime{Date: "2024-01-08"},
			expEnd:   calendar.EventDateTime{Date: "2024-01-09"},
			expColor: "9",
		},
		"Tasks with hours should keep their instants.": {
			task:     model.Task{ID: "3", Name: "Pour", Start: date(8).Add(8 * time.Hour), End: date(8).Add(14 * time.Hour), Status: model.TaskStatusOnHold},
			expSum:   "‖ Pour",
			expStart: calendar.EventDateTime{DateTime: "2024-01-08T08:00:00Z"},
			expEnd:   calendar.EventDateTime{DateTime: "2024-01-08T14:00:00Z"},
			expColor: "8",
		},
		"Overdue tasks should be highlighted.": {
			task:     model.Task{ID: "4", Name: "Framing", Start: date(1), End: date(3), Progress: 10, Status: model.TaskStatusInProgress},
			expSum:   "◐ Framing",
			expStart: calendar.EventDateTime{Date: "2024-01-01"},
			expEnd:   calendar.EventDateTime{Date: "2024-01-03"},
			expColor: "11",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			ev := google.EventFromTask("p1", test.task, now)

			assert.Equal(test.expSum, ev.Summary)
			assert.Equal(test.expStart, *ev.Start)
			assert.Equal(test.expEnd, *ev.End)
			assert.Equal(test.expColor, ev.ColorId)
			assert.Equal(map[string]string{
				google.PropertyTaskID:    test.task.ID,
				google.PropertyProjectID: "p1",
			}, ev.ExtendedProperties.Private)
		})
	}
}

func TestEventFromTaskDescription(t *testing.T) {
	task := model.Task{
		ID: "1", Name: "Roofing", Start: date(8), End: date(12), Progress: 0,
		Status: model.TaskStatusNotStarted, Week: 2,
		Dependencies: []string{"a", "b"}, Constraints: []string{"crane"},
	}

	ev := google.EventFromTask("p1", task, now)

	assert.Equal(t, "Status: not_started\nProgress: 0% (expected 0%)\nRisk: low\nPull plan week: 2\nConstraints: crane\nDepends on: a, b\n", ev.Description)
}

func TestEventPatch(t *testing.T) {
	base := func() *calendar.Event {
		return &calendar.Event{
			Summary:     "○ Roofing",
			Description: "desc",
			ColorId:     "9",
			Start:       &calendar.EventDateTime{DateTime: "2024-01-08T08:00:00Z"},
			End:         &calendar.EventDateTime{DateTime: "2024-01-08T10:00:00Z"},
		}
	}

	tests := map[string]struct {
		target   func() *calendar.Event
		expPatch *calendar.Event
	}{
		"Same event should not be patched.": {
			target: base,
		},
		"Same instant in another offset should not be patched.": {
			target: func() *calendar.Event {
				e := base()
				e.Start = &calendar.EventDateTime{DateTime: "2024-01-08T09:00:00+01:00"}
				return e
			},
		},
		"Changed summary should only patch the summary.": {
			target: func() *calendar.Event {
				e := base()
				e.Summary = "● Roofing"
				return e
			},
			expPatch: &calendar.Event{Summary: "● Roofing"},
		},
		"Changed times should patch both times.": {
			target: func() *calendar.Event {
				e := base()
				e.End = &calendar.EventDateTime{DateTime: "2024-01-08T12:00:00Z"}
				return e
			},
			expPatch: &calendar.Event{
				Start: &calendar.EventDateTime{DateTime: "2024-01-08T08:00:00Z"},
				End:   &calendar.EventDateTime{DateTime: "2024-01-08T12:00:00Z"},
			},
		},
		"All day change should patch both times.": {
			target: func() *calendar.Event {
				e := base()
				e.Start = &calendar.EventDateTime{Date: "2024-01-08"}
				e.End = &calendar.EventDateTime{Date: "2024-01-09"}
				return e
			},
			expPatch: &calendar.Event{
				Start: &calendar.EventDateTime{Date: "2024-01-08"},
				End:   &calendar.EventDateTime{Date: "2024-01-09"},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := google.EventPatch(base(), test.target())
			assert.Equal(t, test.expPatch, got)
		})
	}
}
