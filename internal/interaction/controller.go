package interaction

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/scale"
)

// State is the state of a gesture.
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	// StatePending is a dropped gesture waiting for the update resolution.
	StatePending   State = "pending"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// Updater applies partial task updates on the persistence side.
type Updater interface {
	UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) error
}

// Tasks gives mutable access to the tasks owned by the session.
type Tasks interface {
	Task(id string) (*model.Task, bool)
}

// Gesture is a direct manipulation of a task.
type Gesture struct {
	Kind   chart.Gesture
	TaskID string

	state     State
	origStart time.Time
	origEnd   time.Time
	origWeek  int
	timeScale scale.Time
}

// State returns the gesture state.
func (g *Gesture) State() State { return g.state }

// Outcome is how a resolution was applied.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeReverted  Outcome = "reverted"
	OutcomeStale     Outcome = "stale"
)

// Resolution is the result of an update sent on drop.
type Resolution struct {
	TaskID  string
	Version uint64
	Update  model.TaskUpdate
	Err     error

	gesture *Gesture
}

// ControllerConfig is the configuration of the controller.
type ControllerConfig struct {
	Updater Updater
	Tasks   Tasks
	Notices *Notices
	// ExactShift disables snapping shifted tasks to whole days.
	ExactShift bool
	Logger     log.Logger
}

func (c *ControllerConfig) defaults() error {
	if c.Updater == nil {
		return fmt.Errorf("updater is required")
	}
	if c.Tasks == nil {
		return fmt.Errorf("tasks are required")
	}
	if c.Notices == nil {
		c.Notices = NewNotices(0, nil)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "interaction.Controller"})
	return nil
}

// Controller drives drag gestures over the session tasks. It must be used from the
// goroutine that owns the session. Updates run on their own goroutine and their
// resolutions are delivered on Results, they are applied with Resolve by the owner.
type Controller struct {
	updater    Updater
	tasks      Tasks
	notices    *Notices
	exactShift bool
	logger     log.Logger

	active   *Gesture
	versions map[string]uint64
	pending  map[string]uint64
	results  chan Resolution
	done     chan struct{}
}

// NewController returns a new controller.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Controller{
		updater:    cfg.Updater,
		tasks:      cfg.Tasks,
		notices:    cfg.Notices,
		exactShift: cfg.ExactShift,
		logger:     cfg.Logger,
		versions:   map[string]uint64{},
		pending:    map[string]uint64{},
		results:    make(chan Resolution, 32),
		done:       make(chan struct{}),
	}, nil
}

// Close stops delivering resolutions of in flight updates.
func (c *Controller) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// Results is where update resolutions are delivered.
func (c *Controller) Results() <-chan Resolution { return c.results }

// Notices returns the notices of the controller.
func (c *Controller) Notices() *Notices { return c.notices }

// Pending returns true when the task has an unresolved update.
func (c *Controller) Pending(taskID string) bool {
	_, ok := c.pending[taskID]
	return ok
}

// PendingVersion returns the task version of the unresolved update of a task.
func (c *Controller) PendingVersion(taskID string) (uint64, bool) {
	v, ok := c.pending[taskID]
	return v, ok
}

// PendingCount returns the number of unresolved updates.
func (c *Controller) PendingCount() int { return len(c.pending) }

// Active returns the active gesture, if any.
func (c *Controller) Active() (*Gesture, bool) {
	return c.active, c.active != nil
}

// Invalidate makes every in flight update stale, used when the tasks are reloaded.
func (c *Controller) Invalidate() {
	for id := range c.pending {
		c.versions[id]++
	}
	clear(c.pending)
	c.active = nil
}

func (c *Controller) begin(kind chart.Gesture, taskID string) (*Gesture, *model.Task, error) {
	if c.active != nil {
		return nil, nil, fmt.Errorf("gesture on task %s already active: %w", c.active.TaskID, model.ErrNotValid)
	}
	if c.Pending(taskID) {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, model.ErrGesturePending)
	}
	t, ok := c.tasks.Task(taskID)
	if !ok {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
	}

	g := &Gesture{
		Kind:      kind,
		TaskID:    taskID,
		state:     StateDragging,
		origStart: t.Start,
		origEnd:   t.End,
		origWeek:  t.Week,
	}
	return g, t, nil
}

// BeginShift starts a Gantt drag of a whole task over a time scale.
func (c *Controller) BeginShift(taskID string, ts scale.Time) (*Gesture, error) {
	g, _, err := c.begin(chart.GestureShift, taskID)
	if err != nil {
		return nil, err
	}
	g.timeScale = ts
	c.active = g
	c.logger.Debugf("Shift gesture started on %s", taskID)
	return g, nil
}

// BeginMove starts a pull-planning board drag of a task card.
func (c *Controller) BeginMove(taskID string) (*Gesture, error) {
	g, _, err := c.begin(chart.GestureMoveWeek, taskID)
	if err != nil {
		return nil, err
	}
	c.active = g
	c.logger.Debugf("Move gesture started on %s", taskID)
	return g, nil
}

func (c *Controller) activeTask(kind chart.Gesture) (*Gesture, *model.Task, error) {
	g := c.active
	if g == nil {
		return nil, nil, model.ErrNoActiveGesture
	}
	if g.Kind != kind {
		return nil, nil, fmt.Errorf("active gesture is %s: %w", g.Kind, model.ErrNotValid)
	}
	t, ok := c.tasks.Task(g.TaskID)
	if !ok {
		c.active = nil
		g.state = StateCancelled
		return nil, nil, fmt.Errorf("task %s: %w", g.TaskID, model.ErrNotFound)
	}
	return g, t, nil
}

// DragBy moves the shifted task by a pixel delta from the gesture origin. Start and
// end move by the same calendar delta so the duration is kept.
func (c *Controller) DragBy(dx float64) error {
	g, t, err := c.activeTask(chart.GestureShift)
	if err != nil {
		return err
	}

	x0 := g.timeScale.Map(g.origStart)
	delta := g.timeScale.Invert(x0 + dx).Sub(g.origStart)
	if !c.exactShift {
		days := math.Round(delta.Hours() / 24)
		delta = time.Duration(days) * 24 * time.Hour
	}

	t.Start = g.origStart.Add(delta)
	t.End = g.origEnd.Add(delta)
	return nil
}

// DragToWeek moves the dragged card over a week column.
func (c *Controller) DragToWeek(week int) error {
	_, t, err := c.activeTask(chart.GestureMoveWeek)
	if err != nil {
		return err
	}
	if week < 1 {
		return fmt.Errorf("week must be 1 or greater: %w", model.ErrNotValid)
	}

	t.Week = week
	return nil
}

// Cancel aborts the active gesture restoring the task.
func (c *Controller) Cancel() error {
	g := c.active
	if g == nil {
		return model.ErrNoActiveGesture
	}
	if t, ok := c.tasks.Task(g.TaskID); ok {
		restore(t, g)
	}

	g.state = StateCancelled
	c.active = nil
	c.logger.Debugf("Gesture on %s cancelled", g.TaskID)
	return nil
}

// Drop ends the active gesture sending the changed fields through the updater. A
// gesture that didn't change anything is cancelled without calling the updater. It
// returns true when an update was sent, its resolution arrives on Results.
func (c *Controller) Drop(ctx context.Context) (bool, error) {
	g := c.active
	if g == nil {
		return false, model.ErrNoActiveGesture
	}
	t, ok := c.tasks.Task(g.TaskID)
	if !ok {
		c.active = nil
		g.state = StateCancelled
		return false, fmt.Errorf("task %s: %w", g.TaskID, model.ErrNotFound)
	}

	var upd model.TaskUpdate
	changed := false
	switch g.Kind {
	case chart.GestureShift:
		if !t.Start.Equal(g.origStart) || !t.End.Equal(g.origEnd) {
			start, end := t.Start, t.End
			upd.Start, upd.End = &start, &end
			changed = true
		}
	case chart.GestureMoveWeek:
		if t.Week != g.origWeek {
			week := t.Week
			upd.Week = &week
			changed = true
		}
	}

	c.active = nil
	if !changed {
		g.state = StateCancelled
		c.logger.Debugf("Gesture on %s dropped without changes", g.TaskID)
		return false, nil
	}

	c.versions[g.TaskID]++
	version := c.versions[g.TaskID]
	c.pending[g.TaskID] = version
	g.state = StatePending

	res := Resolution{TaskID: g.TaskID, Version: version, Update: upd, gesture: g}
	go func() {
		res.Err = c.updater.UpdateTask(ctx, res.TaskID, res.Update)
		select {
		case c.results <- res:
		case <-c.done:
		}
	}()

	c.logger.Debugf("Update %s sent for %s (version %d)", upd, g.TaskID, version)
	return true, nil
}

// Resolve applies an update resolution. Confirmed updates commit the gesture,
// rejected ones restore the task to its values before the gesture and push a
// notice. Resolutions of an outdated task version are discarded.
func (c *Controller) Resolve(res Resolution) (Outcome, error) {
	if pv, ok := c.pending[res.TaskID]; !ok || pv != res.Version || c.versions[res.TaskID] != res.Version {
		c.logger.Debugf("Discarding stale response for %s (version %d)", res.TaskID, res.Version)
		return OutcomeStale, fmt.Errorf("task %s version %d: %w", res.TaskID, res.Version, model.ErrStaleResponse)
	}
	delete(c.pending, res.TaskID)

	g := res.gesture
	if res.Err == nil {
		if g != nil {
			g.state = StateCommitted
		}
		c.logger.Debugf("Update of %s committed", res.TaskID)
		return OutcomeCommitted, nil
	}

	name := res.TaskID
	if t, ok := c.tasks.Task(res.TaskID); ok {
		name = t.Name
		if g != nil {
			restore(t, g)
		}
	}
	if g != nil {
		g.state = StateCancelled
	}

	c.notices.Push(NoticeLevelError, fmt.Sprintf("Could not update %q, changes were reverted: %s", name, res.Err))
	c.logger.Warningf("Update of %s rejected: %s", res.TaskID, res.Err)
	return OutcomeReverted, fmt.Errorf("task %s: %w: %w", res.TaskID, model.ErrUpdateRejected, res.Err)
}

// Await blocks until the next resolution arrives and applies it.
func (c *Controller) Await(ctx context.Context) (Resolution, Outcome, error) {
	select {
	case <-ctx.Done():
		return Resolution{}, "", ctx.Err()
	case res := <-c.results:
		out, err := c.Resolve(res)
		return res, out, err
	}
}

// AwaitUpdate applies resolutions until the one of the task version arrives and
// returns its outcome. Resolutions of other updates queued before it are applied too.
func (c *Controller) AwaitUpdate(ctx context.Context, taskID string, version uint64) (Outcome, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res := <-c.results:
			out, err := c.Resolve(res)
			if res.TaskID == taskID && res.Version == version {
				return out, err
			}
			c.logger.Debugf("Resolution of %s (version %d) applied while waiting for %s (version %d): %s", res.TaskID, res.Version, taskID, version, out)
		}
	}
}

func restore(t *model.Task, g *Gesture) {
	switch g.Kind {
	case chart.GestureShift:
		t.Start, t.End = g.origStart, g.origEnd
	case chart.GestureMoveWeek:
		t.Week = g.origWeek
	}
}
