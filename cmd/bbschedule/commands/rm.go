package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/remove"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
}

// NewRemoveCommand returns the remove command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("rm", "Remove a task.")
	c.Cmd.Arg("task", "Task ID.").Required().StringVar(&c.taskID)

	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := remove.NewService(remove.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, remove.Request{
		ProjectID: c.rootCmd.Project,
		TaskID:    c.taskID,
	})
	if err != nil {
		return fmt.Errorf("could not remove task: %w", err)
	}

	p := c.rootCmd.Printer(formatTable)
	if err := p.PrintMessage(fmt.Sprintf("Removed task: %s", t.Name)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
