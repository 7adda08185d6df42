package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskUpdate is a partial task change. Nil fields are left untouched.
type TaskUpdate struct {
	Start    *time.Time
	End      *time.Time
	Week     *int
	Progress *int
}

// Validate validates the update.
func (u TaskUpdate) Validate() error {
	if u.Start == nil && u.End == nil && u.Week == nil && u.Progress == nil {
		return fmt.Errorf("update without fields: %w", ErrNotValid)
	}
	if u.Start != nil && u.End != nil && u.Start.After(*u.End) {
		return fmt.Errorf("start can't be after end: %w", ErrNotValid)
	}
	if u.Week != nil && *u.Week < 0 {
		return fmt.Errorf("week can't be negative: %w", ErrNotValid)
	}
	if u.Progress != nil && (*u.Progress < 0 || *u.Progress > 100) {
		return fmt.Errorf("progress must be between 0 and 100: %w", ErrNotValid)
	}

	return nil
}

// Apply returns a copy of the task with the update fields set.
func (u TaskUpdate) Apply(t Task) (Task, error) {
	t = t.Clone()
	if u.Start != nil {
		t.Start = u.Start.UTC()
	}
	if u.End != nil {
		t.End = u.End.UTC()
	}
	if u.Week != nil {
		t.Week = *u.Week
	}
	if u.Progress != nil {
		t.Progress = *u.Progress
	}

	// Stored tasks may have an inverted window, only date changes are checked.
	if (u.Start != nil || u.End != nil) && t.Start.After(t.End) {
		return Task{}, fmt.Errorf("start can't be after end: %w", ErrNotValid)
	}

	return t, nil
}

// String returns a compact description of the changed fields.
func (u TaskUpdate) String() string {
	var parts []string
	if u.Start != nil {
		parts = append(parts, "start="+u.Start.UTC().Format(RecordDateLayout))
	}
	if u.End != nil {
		parts = append(parts, "end="+u.End.UTC().Format(RecordDateLayout))
	}
	if u.Week != nil {
		parts = append(parts, fmt.Sprintf("week=%d", *u.Week))
	}
	if u.Progress != nil {
		parts = append(parts, fmt.Sprintf("progress=%d", *u.Progress))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// NewTask are the fields required to create a pull-planning task.
type NewTask struct {
	Name         string
	DurationDays int
	Week         int
	Constraints  []string
}

// Validate validates the new task.
func (n NewTask) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	if n.DurationDays < 0 {
		return fmt.Errorf("duration can't be negative: %w", ErrNotValid)
	}
	if n.Week < 1 {
		return fmt.Errorf("week must be 1 or greater: %w", ErrNotValid)
	}

	return nil
}

// Task builds the canonical task the new task represents, scheduling it at the
// beginning of its week counted from today.
func (n NewTask) Task(id string, today time.Time) Task {
	start, _ := WeekWindow(today, n.Week)
	var cons []string
	for _, c := range n.Constraints {
		if c = strings.TrimSpace(c); c != "" {
			cons = append(cons, c)
		}
	}

	return Task{
		ID:          id,
		Name:        strings.TrimSpace(n.Name),
		Start:       start,
		End:         start.AddDate(0, 0, n.DurationDays),
		Status:      TaskStatusNotStarted,
		Week:        n.Week,
		Constraints: cons,
	}
}
