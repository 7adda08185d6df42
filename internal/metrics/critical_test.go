package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

func span(id string, days int, deps ...string) model.Task {
	start := date(2024, 1, 1)
	return model.Task{ID: id, Start: start, End: start.AddDate(0, 0, days), Dependencies: deps}
}

func TestCriticalPath(t *testing.T) {
	tests := map[string]struct {
		tasks []model.Task
		expCP []string
	}{
		"No tasks should return no path.": {
			tasks: nil,
			expCP: nil,
		},

		"Independent tasks should have the longest as critical.": {
			tasks: []model.Task{span("a", 3), span("b", 5), span("c", 5)},
			expCP: []string{"b", "c"},
		},

		"A chain with a short branch should follow the long branch.": {
			// a(2) -> b(5) -> d(1)
			// a(2) -> c(1) -> d(1)
			tasks: []model.Task{
				span("a", 2),
				span("b", 5, "a"),
				span("c", 1, "a"),
				span("d", 1, "b", "c"),
			},
			expCP: []string{"a", "b", "d"},
		},

		"Unknown predecessors should be ignored.": {
			tasks: []model.Task{
				span("a", 2, "ghost"),
				span("b", 2, "a"),
			},
			expCP: []string{"a", "b"},
		},

		"A cycle should not hang and still return a path.": {
			tasks: []model.Task{
				span("a", 2, "b"),
				span("b", 2, "a"),
			},
			expCP: []string{"b", "a"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expCP, metrics.CriticalPath(test.tasks))
		})
	}
}

func TestDashboard(t *testing.T) {
	assert := assert.New(t)

	now := date(2024, 1, 6)
	tasks := []model.Task{
		{ID: "a", Start: date(2024, 1, 1), End: date(2024, 1, 3), Progress: 100, Status: model.TaskStatusCompleted},
		{ID: "b", Start: date(2024, 1, 1), End: date(2024, 1, 11), Progress: 50, Status: model.TaskStatusInProgress},
		{ID: "c", Start: date(2023, 12, 20), End: date(2024, 1, 2), Progress: 30, Status: model.TaskStatusInProgress},
		{ID: "d", Start: date(2024, 2, 1), End: date(2024, 2, 5), Progress: 0, Status: model.TaskStatusNotStarted},
	}

	got := metrics.Dashboard(tasks, now)

	assert.Equal(4, got.Total)
	assert.Equal(2, got.Active)
	assert.Equal(1, got.Completed)
	assert.Equal(1, got.Overdue)
	assert.Equal(1, got.HighRisk)
	assert.Equal(2, got.StatusDistribution[model.TaskStatusInProgress])
	assert.Equal(0, got.StatusDistribution[model.TaskStatusOnHold])
	assert.InDelta(45.0, got.OverallProgress, 1e-9)
	assert.InDelta(25.0, got.CompletionRate, 1e-9)
	assert.Equal(date(2023, 12, 20), got.Start)
	assert.Equal(date(2024, 2, 5), got.End)
}

func TestDashboardEmpty(t *testing.T) {
	got := metrics.Dashboard(nil, time.Now())

	assert.Equal(t, 0, got.Total)
	assert.Zero(t, got.CompletionRate)
	assert.Len(t, got.StatusDistribution, len(model.TaskStatuses))
}
