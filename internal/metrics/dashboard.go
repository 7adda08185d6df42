package metrics

import (
	"time"

	"github.com/slok/bbschedule/internal/model"
)

// DashboardStats are the aggregated statistics of a task set.
type DashboardStats struct {
	Total              int
	Active             int
	Completed          int
	Overdue            int
	HighRisk           int
	StatusDistribution map[model.TaskStatus]int
	// OverallProgress is the mean task progress.
	OverallProgress float64
	// CompletionRate is the percentage of completed tasks.
	CompletionRate float64
	Start          time.Time
	End            time.Time
	CriticalPath   []string
}

// Dashboard aggregates the statistics of a task set at now.
func Dashboard(tasks []model.Task, now time.Time) DashboardStats {
	stats := DashboardStats{
		Total:              len(tasks),
		StatusDistribution: make(map[model.TaskStatus]int, len(model.TaskStatuses)),
		CriticalPath:       CriticalPath(tasks),
	}
	for _, s := range model.TaskStatuses {
		stats.StatusDistribution[s] = 0
	}
	if len(tasks) == 0 {
		return stats
	}

	progress := 0
	stats.Start, stats.End = tasks[0].Start, tasks[0].End
	for _, t := range tasks {
		stats.StatusDistribution[t.Status]++
		progress += PercentComplete(t)

		switch t.Status {
		case model.TaskStatusInProgress:
			stats.Active++
		case model.TaskStatusCompleted:
			stats.Completed++
		}
		if IsOverdue(t, now) {
			stats.Overdue++
		}
		if Risk(t, now) == RiskLevelHigh {
			stats.HighRisk++
		}

		if t.Start.Before(stats.Start) {
			stats.Start = t.Start
		}
		if t.End.After(stats.End) {
			stats.End = t.End
		}
	}

	stats.OverallProgress = float64(progress) / float64(len(tasks))
	stats.CompletionRate = float64(stats.Completed) / float64(len(tasks)) * 100

	return stats
}
