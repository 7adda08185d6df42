package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/shift"
)

type ShiftCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	days   float64
	exact  bool
}

// NewShiftCommand returns the shift command.
func NewShiftCommand(rootCmd *RootCommand, app *kingpin.Application) *ShiftCommand {
	c := &ShiftCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("shift", "Shift a task on the time axis keeping its duration.")
	c.Cmd.Flag("task", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("days", "Days to shift, negative values shift backwards.").Required().Float64Var(&c.days)
	c.Cmd.Flag("exact", "Don't snap the shifted dates to whole days.").BoolVar(&c.exact)

	return c
}

func (c ShiftCommand) Name() string { return c.Cmd.FullCommand() }

func (c ShiftCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := shift.NewService(shift.ServiceConfig{
		Repository: repo,
		ExactShift: c.exact,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, shift.Request{
		ProjectID: c.rootCmd.Project,
		TaskID:    c.taskID,
		Days:      c.days,
	})
	if err != nil {
		return err
	}

	p := c.rootCmd.Printer(formatTable)
	if !res.Changed {
		return p.PrintMessage(fmt.Sprintf("Task %s unchanged", c.taskID))
	}
	return p.PrintTask(res.Task)
}
