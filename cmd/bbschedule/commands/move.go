package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/move"
)

type MoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	week   int
}

// NewMoveCommand returns the move command.
func NewMoveCommand(rootCmd *RootCommand, app *kingpin.Application) *MoveCommand {
	c := &MoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("move", "Move a task card to a pull-planning week.")
	c.Cmd.Flag("task", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("week", "Target week, 1 is the current week.").Required().IntVar(&c.week)

	return c
}

func (c MoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c MoveCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := move.NewService(move.ServiceConfig{
		Repository: repo,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, move.Request{
		ProjectID: c.rootCmd.Project,
		TaskID:    c.taskID,
		Week:      c.week,
	})
	if err != nil {
		return err
	}

	p := c.rootCmd.Printer(formatTable)
	if !res.Changed {
		return p.PrintMessage(fmt.Sprintf("Task %s already on week %d", c.taskID, c.week))
	}
	return p.PrintMessage(fmt.Sprintf("Moved task %s to week %d", res.Task.Name, res.Task.Week))
}
