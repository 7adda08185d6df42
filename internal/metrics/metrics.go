package metrics

import (
	"math"
	"time"

	"github.com/slok/bbschedule/internal/model"
)

// Duration returns the task duration in days. A task whose start is after its end
// has zero duration.
func Duration(t model.Task) float64 {
	d := t.End.Sub(t.Start)
	if d <= 0 {
		return 0
	}
	return d.Hours() / 24
}

// Distance returns the covered distance on the location axis. It's not applicable
// when the task has no location range.
func Distance(t model.Task) (float64, bool) {
	if !t.HasLocation() {
		return 0, false
	}
	return math.Abs(*t.LocationEnd - *t.LocationStart), true
}

// Rate returns the production rate in location units per day. It's not applicable
// for zero duration tasks or tasks without distance.
func Rate(t model.Task) (float64, bool) {
	d := Duration(t)
	if d == 0 {
		return 0, false
	}
	dist, ok := Distance(t)
	if !ok {
		return 0, false
	}
	return dist / d, true
}

// PercentComplete returns the task progress in the 0..100 range.
func PercentComplete(t model.Task) int {
	return model.ClampProgress(t.Progress)
}

// ExpectedProgress returns the progress a task should have at now, assuming linear
// progress over its window.
func ExpectedProgress(t model.Task, now time.Time) int {
	if !now.After(t.Start) {
		return 0
	}
	if !now.Before(t.End) {
		return 100
	}

	total := t.End.Sub(t.Start)
	elapsed := now.Sub(t.Start)
	return model.ClampProgress(int(math.Round(float64(elapsed) / float64(total) * 100)))
}

// ProgressVariance returns the actual minus the expected progress, negative values
// mean the task is behind.
func ProgressVariance(t model.Task, now time.Time) int {
	return PercentComplete(t) - ExpectedProgress(t, now)
}

func closed(t model.Task) bool {
	return t.Status == model.TaskStatusCompleted || t.Status == model.TaskStatusCancelled
}

// IsOverdue returns true when the task window already ended and the task is not closed.
func IsOverdue(t model.Task, now time.Time) bool {
	return now.After(t.End) && !closed(t) && PercentComplete(t) < 100
}

// RiskLevel is the schedule risk of a task.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Variance thresholds in percentage points.
const (
	highRiskVariance   = -25
	mediumRiskVariance = -10
)

// Risk returns the schedule risk of a task.
func Risk(t model.Task, now time.Time) RiskLevel {
	if closed(t) {
		return RiskLevelLow
	}
	if IsOverdue(t, now) {
		return RiskLevelHigh
	}

	switch v := ProgressVariance(t, now); {
	case v < highRiskVariance:
		return RiskLevelHigh
	case v < mediumRiskVariance:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// TaskMetrics are all the derived metrics of a task.
type TaskMetrics struct {
	TaskID           string
	DurationDays     float64
	Distance         float64
	HasDistance      bool
	Rate             float64
	HasRate          bool
	PercentComplete  int
	ExpectedProgress int
	Variance         int
	Overdue          bool
	Risk             RiskLevel
}

// ForTask computes the derived metrics of a task at now.
func ForTask(t model.Task, now time.Time) TaskMetrics {
	m := TaskMetrics{
		TaskID:           t.ID,
		DurationDays:     Duration(t),
		PercentComplete:  PercentComplete(t),
		ExpectedProgress: ExpectedProgress(t, now),
		Variance:         ProgressVariance(t, now),
		Overdue:          IsOverdue(t, now),
		Risk:             Risk(t, now),
	}
	m.Distance, m.HasDistance = Distance(t)
	m.Rate, m.HasRate = Rate(t)

	return m
}
