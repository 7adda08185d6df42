package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/interaction"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	"github.com/slok/bbschedule/internal/scale"
	"github.com/slok/bbschedule/internal/storage"
)

// Config is the configuration of a session.
type Config struct {
	ProjectID  string
	Repository storage.Repository
	Style      *chart.Style
	// Clock returns the current time, used for the today marker and new tasks.
	Clock      func() time.Time
	ExactShift bool
	NoticeTTL  time.Duration
	Logger     log.Logger
}

func (c *Config) defaults() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project id is required")
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Style == nil {
		s := chart.DefaultStyle()
		c.Style = &s
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "session.Session", "project": c.ProjectID})
	return nil
}

// Session holds the tasks of a project being charted and manipulated. A session
// is owned by a single goroutine, it isn't safe for concurrent use.
type Session struct {
	projectID  string
	repo       storage.Repository
	normalizer *normalize.Normalizer
	renderer   *chart.Renderer
	controller *interaction.Controller
	clock      func() time.Time
	logger     log.Logger

	tasks   []model.Task
	dropped []normalize.DroppedRecord
}

// New returns a new session without tasks, use Load to read them.
func New(cfg Config) (*Session, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	normalizer, err := normalize.NewNormalizer(normalize.NormalizerConfig{Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create normalizer: %w", err)
	}

	renderer, err := chart.NewRenderer(chart.RendererConfig{Style: *cfg.Style, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create renderer: %w", err)
	}

	s := &Session{
		projectID:  cfg.ProjectID,
		repo:       cfg.Repository,
		normalizer: normalizer,
		renderer:   renderer,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
	}

	s.controller, err = interaction.NewController(interaction.ControllerConfig{
		Updater:    projectUpdater{repo: cfg.Repository, projectID: cfg.ProjectID},
		Tasks:      sessionTasks{s: s},
		Notices:    interaction.NewNotices(cfg.NoticeTTL, cfg.Clock),
		ExactShift: cfg.ExactShift,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create controller: %w", err)
	}

	return s, nil
}

// projectUpdater binds the repository updates to the session project.
type projectUpdater struct {
	repo      storage.Repository
	projectID string
}

func (p projectUpdater) UpdateTask(ctx context.Context, id string, upd model.TaskUpdate) error {
	return p.repo.UpdateTask(ctx, p.projectID, id, upd)
}

// sessionTasks gives the controller mutable access to the session tasks.
type sessionTasks struct{ s *Session }

func (st sessionTasks) Task(id string) (*model.Task, bool) {
	i := st.s.index(id)
	if i < 0 {
		return nil, false
	}
	return &st.s.tasks[i], true
}

func (s *Session) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

// Close stops the session controller.
func (s *Session) Close() { s.controller.Close() }

// ProjectID returns the session project.
func (s *Session) ProjectID() string { return s.projectID }

// Now returns the session clock time.
func (s *Session) Now() time.Time { return s.clock() }

// Load reads and normalizes the project tasks, replacing the current ones. Malformed
// records are dropped and available with Dropped. Responses of updates sent before
// the load are discarded when they arrive.
func (s *Session) Load(ctx context.Context) error {
	res, err := s.normalizer.Load(ctx, s.repo, s.projectID)
	if err != nil {
		return err
	}

	s.controller.Invalidate()
	s.tasks = res.Tasks
	s.dropped = res.Dropped

	s.logger.Debugf("Loaded %d tasks (%d dropped)", len(res.Tasks), len(res.Dropped))
	return nil
}

// Tasks returns a copy of the session tasks.
func (s *Session) Tasks() []model.Task {
	tasks := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Clone())
	}
	return tasks
}

// Task returns a copy of a task.
func (s *Session) Task(id string) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Dropped returns the records dropped on the last load.
func (s *Session) Dropped() []normalize.DroppedRecord { return slices.Clone(s.dropped) }

// Renderer returns the session chart renderer.
func (s *Session) Renderer() *chart.Renderer { return s.renderer }

// Controller returns the session interaction controller.
func (s *Session) Controller() *interaction.Controller { return s.controller }

// Scales returns the Gantt geometry of the current tasks.
func (s *Session) Scales() scale.Set { return s.renderer.Scales(s.tasks, s.clock()) }

// Board returns the pull-planning board window at the session time.
func (s *Session) Board() chart.Board { return s.renderer.Board(s.clock()) }

// Render renders a chart of the current tasks.
func (s *Session) Render(kind chart.Kind) (chart.Scene, error) {
	return s.renderer.Render(kind, s.tasks, s.clock())
}

// Notices returns the active notices.
func (s *Session) Notices() []interaction.Notice { return s.controller.Notices().Active() }

// AddTask creates a pull-planning task through the repository and adds it to the session.
func (s *Session) AddTask(ctx context.Context, n model.NewTask) (model.Task, error) {
	if err := n.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("invalid task: %w", err)
	}

	now := s.clock()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	t := n.Task(id, now)
	if err := s.repo.CreateTask(ctx, s.projectID, t); err != nil {
		return model.Task{}, fmt.Errorf("could not create task: %w", err)
	}

	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if t.Constraints == nil {
		t.Constraints = []string{}
	}
	s.tasks = append(s.tasks, t)
	s.logger.Infof("Task %q created on week %d", t.Name, t.Week)
	return t.Clone(), nil
}

// RemoveTask deletes a task through the repository and removes it from the session.
func (s *Session) RemoveTask(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}
	if s.controller.Pending(id) {
		return fmt.Errorf("task %s: %w", id, model.ErrGesturePending)
	}
	if g, ok := s.controller.Active(); ok && g.TaskID == id {
		if err := s.controller.Cancel(); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteTask(ctx, s.projectID, id); err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.logger.Infof("Task %s removed", id)
	return nil
}

// Shift drags a task on the Gantt time axis by a number of days and waits for the
// repository to resolve the update. It returns false when nothing changed.
func (s *Session) Shift(ctx context.Context, id string, days float64) (model.Task, bool, error) {
	t, ok := s.Task(id)
	if !ok {
		return model.Task{}, false, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	ts := s.Scales().Time
	delta := time.Duration(days * float64(24*time.Hour))
	dx := ts.Map(t.Start.Add(delta)) - ts.Map(t.Start)

	if _, err := s.controller.BeginShift(id, ts); err != nil {
		return model.Task{}, false, err
	}
	if err := s.controller.DragBy(dx); err != nil {
		_ = s.controller.Cancel()
		return model.Task{}, false, err
	}
	return s.drop(ctx, id)
}

// Move drags a task card to a pull-planning week and waits for the repository to
// resolve the update. It returns false when nothing changed.
func (s *Session) Move(ctx context.Context, id string, week int) (model.Task, bool, error) {
	if _, err := s.controller.BeginMove(id); err != nil {
		return model.Task{}, false, err
	}
	if err := s.controller.DragToWeek(week); err != nil {
		_ = s.controller.Cancel()
		return model.Task{}, false, err
	}
	return s.drop(ctx, id)
}

func (s *Session) drop(ctx context.Context, id string) (model.Task, bool, error) {
	sent, err := s.controller.Drop(ctx)
	if err != nil {
		return model.Task{}, false, err
	}
	if sent {
		version, _ := s.controller.PendingVersion(id)
		_, err = s.controller.AwaitUpdate(ctx, id, version)
	}

	t, _ := s.Task(id)
	return t, sent, err
}
