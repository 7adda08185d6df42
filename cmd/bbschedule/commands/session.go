package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/natefinch/atomic"
	"github.com/peterh/liner"

	"github.com/slok/bbschedule/internal/app/render"
	"github.com/slok/bbschedule/internal/app/taskmetrics"
	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/conventions"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/printer"
	"github.com/slok/bbschedule/internal/session"
)

type SessionCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	exact     bool
	noticeTTL time.Duration
}

// NewSessionCommand returns the interactive session command.
func NewSessionCommand(rootCmd *RootCommand, app *kingpin.Application) *SessionCommand {
	c := &SessionCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("session", "Start an interactive session on the project.")
	c.Cmd.Flag("exact", "Don't snap shifted dates to whole days.").BoolVar(&c.exact)
	c.Cmd.Flag("notice-ttl", "Time a notice stays active.").Default("10s").DurationVar(&c.noticeTTL)

	return c
}

func (c SessionCommand) Name() string { return c.Cmd.FullCommand() }

func (c SessionCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	style, err := c.rootCmd.Style(ctx)
	if err != nil {
		return err
	}

	sess, err := session.New(session.Config{
		ProjectID:  c.rootCmd.Project,
		Repository: repo,
		Style:      style,
		Clock:      c.rootCmd.Clock,
		ExactShift: c.exact,
		NoticeTTL:  c.noticeTTL,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}
	defer sess.Close()

	if err := sess.Load(ctx); err != nil {
		return err
	}

	r := newREPL(sess, c.rootCmd.Stdout, c.rootCmd.Clock)
	return r.run(ctx, conventions.HistoryPath(c.rootCmd.DataDir))
}

var replCommands = []string{
	"list", "ls", "show", "metrics", "dashboard",
	"shift", "move", "add", "rm",
	"render", "notices", "reload", "help", "exit", "quit", "q",
}

type repl struct {
	sess    *session.Session
	out     io.Writer
	printer printer.Printer
	clock   func() time.Time
}

func newREPL(sess *session.Session, out io.Writer, clock func() time.Time) *repl {
	return &repl{
		sess:    sess,
		out:     out,
		printer: printer.NewTablePrinter(out).WithClock(clock),
		clock:   clock,
	}
}

func (r *repl) run(ctx context.Context, historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, historyPath)

	fmt.Fprintf(r.out, "bbschedule session on project %q (%d tasks). Type 'help' for commands.\n", r.sess.ProjectID(), len(r.sess.Tasks()))

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := line.Prompt(r.sess.ProjectID() + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := r.exec(ctx, input)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %s\n", err)
		}
		if quit {
			return nil
		}
	}
}

func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	if f, err := os.Create(path); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func complete(line string) []string {
	var completions []string
	lower := strings.ToLower(line)
	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}
	return completions
}

// exec runs a single session command line, it returns true when the session ends.
func (r *repl) exec(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "exit", "quit", "q":
		return true, nil
	case "help", "?":
		return false, r.help()
	case "list", "ls":
		return false, r.printer.PrintTasks(r.sess.Tasks())
	case "show":
		return false, r.show(args)
	case "metrics":
		return false, r.metrics(args)
	case "dashboard":
		return false, r.printer.PrintDashboard(metrics.Dashboard(r.sess.Tasks(), r.clock()))
	case "shift":
		return false, r.shift(ctx, args)
	case "move":
		return false, r.move(ctx, args)
	case "add":
		return false, r.add(ctx, args)
	case "rm":
		return false, r.remove(ctx, args)
	case "render":
		return false, r.render(args)
	case "notices":
		return false, r.printer.PrintNotices(r.sess.Notices())
	case "reload":
		if err := r.sess.Load(ctx); err != nil {
			return false, err
		}
		return false, r.printer.PrintMessage(fmt.Sprintf("Loaded %d tasks (%d dropped)", len(r.sess.Tasks()), len(r.sess.Dropped())))
	}

	return false, fmt.Errorf("unknown command %q, type 'help' for commands", cmd)
}

func (r *repl) help() error {
	_, err := fmt.Fprint(r.out, `Commands:
  list                          List the tasks
  show <task>                   Show a task
  metrics [task]                Show the task metrics
  dashboard                     Show the project summary
  shift <task> <days>           Shift a task on the time axis
  move <task> <week>            Move a task card to a pull-planning week
  add <week> <days> <name...>   Add a task to the pull plan
  rm <task>                     Remove a task
  render <kind> <file>          Render a chart (gantt, linear, pullplan) as svg, png or json by extension
  notices                       Show the active notices
  reload                        Reload the tasks from storage
  quit                          End the session
`)
	return err
}

func argsN(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s: %w", usage, model.ErrNotValid)
	}
	return nil
}

func (r *repl) show(args []string) error {
	if err := argsN(args, 1, "show <task>"); err != nil {
		return err
	}
	t, ok := r.sess.Task(args[0])
	if !ok {
		return fmt.Errorf("task %s: %w", args[0], model.ErrNotFound)
	}
	return r.printer.PrintTask(t)
}

func (r *repl) metrics(args []string) error {
	now := r.clock()
	entries := []taskmetrics.Entry{}
	for _, t := range r.sess.Tasks() {
		if len(args) > 0 && t.ID != args[0] {
			continue
		}
		entries = append(entries, taskmetrics.Entry{Task: t, Metrics: metrics.ForTask(t, now)})
	}
	if len(args) > 0 && len(entries) == 0 {
		return fmt.Errorf("task %s: %w", args[0], model.ErrNotFound)
	}
	return r.printer.PrintMetrics(entries)
}

func (r *repl) shift(ctx context.Context, args []string) error {
	if err := argsN(args, 2, "shift <task> <days>"); err != nil {
		return err
	}
	days, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid days %q: %w", args[1], model.ErrNotValid)
	}

	t, changed, err := r.sess.Shift(ctx, args[0], days)
	if err != nil {
		return err
	}
	if !changed {
		return r.printer.PrintMessage(fmt.Sprintf("Task %s unchanged", args[0]))
	}
	return r.printer.PrintMessage(fmt.Sprintf("Task %s now %s - %s", t.Name, printer.FormatDate(t.Start), printer.FormatDate(t.End)))
}

func (r *repl) move(ctx context.Context, args []string) error {
	if err := argsN(args, 2, "move <task> <week>"); err != nil {
		return err
	}
	week, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid week %q: %w", args[1], model.ErrNotValid)
	}

	t, changed, err := r.sess.Move(ctx, args[0], week)
	if err != nil {
		return err
	}
	if !changed {
		return r.printer.PrintMessage(fmt.Sprintf("Task %s already on week %d", args[0], week))
	}
	return r.printer.PrintMessage(fmt.Sprintf("Moved task %s to week %d", t.Name, t.Week))
}

func (r *repl) add(ctx context.Context, args []string) error {
	const usage = "add <week> <days> <name...>"
	if err := argsN(args, 3, usage); err != nil {
		return err
	}
	week, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid week %q: %w", args[0], model.ErrNotValid)
	}
	days, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid days %q: %w", args[1], model.ErrNotValid)
	}

	t, err := r.sess.AddTask(ctx, model.NewTask{
		Name:         strings.Join(args[2:], " "),
		DurationDays: days,
		Week:         week,
	})
	if err != nil {
		return err
	}
	return r.printer.PrintMessage(fmt.Sprintf("Added task %s (%s) on week %d", t.Name, t.ID, t.Week))
}

func (r *repl) remove(ctx context.Context, args []string) error {
	if err := argsN(args, 1, "rm <task>"); err != nil {
		return err
	}
	t, ok := r.sess.Task(args[0])
	if !ok {
		return fmt.Errorf("task %s: %w", args[0], model.ErrNotFound)
	}
	if err := r.sess.RemoveTask(ctx, args[0]); err != nil {
		return err
	}
	return r.printer.PrintMessage(fmt.Sprintf("Removed task: %s", t.Name))
}

func (r *repl) render(args []string) error {
	if err := argsN(args, 2, "render <kind> <file>"); err != nil {
		return err
	}
	kind, err := chart.ParseKind(args[0])
	if err != nil {
		return err
	}
	path := args[1]
	format, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	scene, err := r.sess.Render(kind)
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	go func() { _ = pw.CloseWithError(render.Encode(pw, scene, format)) }()
	if err := atomic.WriteFile(path, pr); err != nil {
		_ = pr.Close()
		return fmt.Errorf("could not write chart: %w", err)
	}

	return r.printer.PrintMessage(fmt.Sprintf("%s chart written to %s", kind, path))
}
