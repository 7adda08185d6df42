package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TaskStatus represents the execution state of a schedule task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOnHold     TaskStatus = "on_hold"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses is the closed set of statuses in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusNotStarted,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusOnHold,
	TaskStatusCancelled,
}

// Valid returns true when the status belongs to the closed status set.
func (s TaskStatus) Valid() bool {
	return slices.Contains(TaskStatuses, s)
}

// ParseTaskStatus parses loosely written statuses like "In Progress", "IN_PROGRESS"
// or "in-progress".
func ParseTaskStatus(s string) (TaskStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	if s == "canceled" {
		s = string(TaskStatusCancelled)
	}

	status := TaskStatus(s)
	if !status.Valid() {
		return "", false
	}

	return status, true
}

// Task is the canonical schedule task every chart renders.
type Task struct {
	ID   string
	Name string
	// Start and End are UTC instants. Start may be after End on bad input,
	// consumers clamp the duration to zero instead of failing.
	Start time.Time
	End   time.Time
	// LocationStart and LocationEnd are optional positions on the secondary axis
	// used by the linear chart (e.g. stations or chainage).
	LocationStart *float64
	LocationEnd   *float64
	Progress      int
	Status        TaskStatus
	Dependencies  []string
	// Week is the pull-planning bucket, 0 means unassigned.
	Week        int
	Constraints []string
}

// HasLocation returns true when the task has both location boundaries.
func (t Task) HasLocation() bool {
	return t.LocationStart != nil && t.LocationEnd != nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.LocationStart != nil {
		v := *t.LocationStart
		c.LocationStart = &v
	}
	if t.LocationEnd != nil {
		v := *t.LocationEnd
		c.LocationEnd = &v
	}
	c.Dependencies = slices.Clone(t.Dependencies)
	c.Constraints = slices.Clone(t.Constraints)
	return c
}

// Validate validates the task.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if t.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100: %w", ErrNotValid)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", t.Status, ErrNotValid)
	}
	if t.Week < 0 {
		return fmt.Errorf("week can't be negative: %w", ErrNotValid)
	}

	return nil
}

// ClampProgress clamps a percentage into the 0..100 range.
func ClampProgress(p int) int {
	return min(max(p, 0), 100)
}

// Day truncates a time to the UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekWindow returns the 7 day window of a pull-planning week counted from today,
// week 1 starts today.
func WeekWindow(today time.Time, week int) (start, end time.Time) {
	start = Day(today).AddDate(0, 0, 7*(week-1))
	return start, start.AddDate(0, 0, 7)
}
