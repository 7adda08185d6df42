package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/addtask"
	"github.com/slok/bbschedule/internal/model"
)

type AddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name        string
	duration    int
	week        int
	constraints []string
	format      string
}

// NewAddCommand returns the add command.
func NewAddCommand(rootCmd *RootCommand, app *kingpin.Application) *AddCommand {
	c := &AddCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("add", "Add a task to the pull plan.")
	c.Cmd.Arg("name", "Task name.").Required().StringVar(&c.name)
	c.Cmd.Flag("duration", "Duration in days.").Default("1").IntVar(&c.duration)
	c.Cmd.Flag("week", "Pull-planning week, 1 is the current week.").Default("1").IntVar(&c.week)
	c.Cmd.Flag("constraint", "Constraint label (repeatable).").StringsVar(&c.constraints)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c AddCommand) Name() string { return c.Cmd.FullCommand() }

func (c AddCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := addtask.NewService(addtask.ServiceConfig{
		Repository: repo,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, addtask.Request{
		ProjectID: c.rootCmd.Project,
		Task: model.NewTask{
			Name:         c.name,
			DurationDays: c.duration,
			Week:         c.week,
			Constraints:  c.constraints,
		},
	})
	if err != nil {
		return fmt.Errorf("could not add task: %w", err)
	}

	if err := c.rootCmd.Printer(c.format).PrintTask(*t); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
