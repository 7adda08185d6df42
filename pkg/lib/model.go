package lib

import (
	"errors"
	"time"

	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a task with the same ID exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
	// ErrRejected is returned when the storage rejects a schedule change.
	ErrRejected = errors.New("rejected")
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOnHold     TaskStatus = "on_hold"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Task is a scheduled construction activity.
//
// This is a read-only snapshot of the task at the time of the API call.
type Task struct {
	ID    string
	Name  string
	Start time.Time
	End   time.Time
	// LocationStart and LocationEnd are the optional positions used by the linear chart.
	LocationStart *float64
	LocationEnd   *float64
	// Progress is the percentage of completion, 0 to 100.
	Progress     int
	Status       TaskStatus
	Dependencies []string
	// Week is the pull-planning week, 0 when unplanned.
	Week        int
	Constraints []string
}

// RiskLevel is the schedule risk of a task.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// TaskMetrics are the derived metrics of a task.
type TaskMetrics struct {
	TaskID       string
	DurationDays float64
	// Distance and Rate are nil when the task has no location range.
	Distance         *float64
	Rate             *float64
	PercentComplete  int
	ExpectedProgress int
	// Variance is the progress minus the expected progress, in percentage points.
	Variance int
	Overdue  bool
	Risk     RiskLevel
}

// DashboardStats are the summary statistics of a project.
type DashboardStats struct {
	Total              int
	Active             int
	Completed          int
	Overdue            int
	HighRisk           int
	StatusDistribution map[TaskStatus]int
	OverallProgress    float64
	CompletionRate     float64
	// Start and End are zero when the project has no tasks.
	Start        time.Time
	End          time.Time
	CriticalPath []string
}

// ChartKind is the type of chart to render.
type ChartKind string

const (
	ChartGantt    ChartKind = "gantt"
	ChartLinear   ChartKind = "linear"
	ChartPullPlan ChartKind = "pullplan"
)

// ChartFormat is the output format of a rendered chart.
type ChartFormat string

const (
	ChartFormatSVG  ChartFormat = "svg"
	ChartFormatPNG  ChartFormat = "png"
	ChartFormatJSON ChartFormat = "json"
)

// ExportFormat is the format of a project snapshot export.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

// ListTasksOpts filters the listed tasks, nil fields don't filter.
type ListTasksOpts struct {
	Status *TaskStatus
	Week   *int
}

// AddTaskOpts are the fields of a new pull-planning task.
type AddTaskOpts struct {
	Name         string
	DurationDays int
	// Week is the pull-planning week, 1 is the current week.
	Week        int
	Constraints []string
}

// ImportResult is the outcome of a tasks import.
type ImportResult struct {
	Imported int
	// Dropped are the malformed records that were skipped.
	Dropped []DroppedRecord
}

// DroppedRecord is a malformed record skipped on import.
type DroppedRecord struct {
	Index  int
	ID     string
	Reason string
}

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:            t.ID,
		Name:          t.Name,
		Start:         t.Start,
		End:           t.End,
		LocationStart: t.LocationStart,
		LocationEnd:   t.LocationEnd,
		Progress:      t.Progress,
		Status:        TaskStatus(t.Status),
		Dependencies:  append([]string{}, t.Dependencies...),
		Week:          t.Week,
		Constraints:   append([]string{}, t.Constraints...),
	}
}

func fromInternalTasks(ts []model.Task) []Task {
	result := make([]Task, len(ts))
	for i, t := range ts {
		result[i] = fromInternalTask(t)
	}
	return result
}

func fromInternalMetrics(m metrics.TaskMetrics) TaskMetrics {
	tm := TaskMetrics{
		TaskID:           m.TaskID,
		DurationDays:     m.DurationDays,
		PercentComplete:  m.PercentComplete,
		ExpectedProgress: m.ExpectedProgress,
		Variance:         m.Variance,
		Overdue:          m.Overdue,
		Risk:             RiskLevel(m.Risk),
	}
	if m.HasDistance {
		d := m.Distance
		tm.Distance = &d
	}
	if m.HasRate {
		r := m.Rate
		tm.Rate = &r
	}
	return tm
}

func fromInternalDashboard(s metrics.DashboardStats) DashboardStats {
	dist := make(map[TaskStatus]int, len(s.StatusDistribution))
	for st, n := range s.StatusDistribution {
		dist[TaskStatus(st)] = n
	}

	return DashboardStats{
		Total:              s.Total,
		Active:             s.Active,
		Completed:          s.Completed,
		Overdue:            s.Overdue,
		HighRisk:           s.HighRisk,
		StatusDistribution: dist,
		OverallProgress:    s.OverallProgress,
		CompletionRate:     s.CompletionRate,
		Start:              s.Start,
		End:                s.End,
		CriticalPath:       append([]string{}, s.CriticalPath...),
	}
}

func toInternalListFilter(opts *ListTasksOpts) (*model.TaskStatus, *int) {
	if opts == nil {
		return nil, nil
	}

	var status *model.TaskStatus
	if opts.Status != nil {
		s := model.TaskStatus(*opts.Status)
		status = &s
	}
	return status, opts.Week
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case errors.Is(err, model.ErrNotValid), errors.Is(err, model.ErrMalformedRecord):
		return joinErrors(err, ErrNotValid)
	case errors.Is(err, model.ErrUpdateRejected):
		return joinErrors(err, ErrRejected)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
