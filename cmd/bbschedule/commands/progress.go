package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/progress"
)

type ProgressCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	value  int
}

// NewProgressCommand returns the progress command.
func NewProgressCommand(rootCmd *RootCommand, app *kingpin.Application) *ProgressCommand {
	c := &ProgressCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("progress", "Set the completion percentage of a task.")
	c.Cmd.Flag("task", "Task ID.").Required().StringVar(&c.taskID)
	c.Cmd.Flag("value", "Progress, 0 to 100.").Required().IntVar(&c.value)

	return c
}

func (c ProgressCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProgressCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := progress.NewService(progress.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	t, err := svc.Run(ctx, progress.Request{
		ProjectID: c.rootCmd.Project,
		TaskID:    c.taskID,
		Progress:  c.value,
	})
	if err != nil {
		return err
	}

	return c.rootCmd.Printer(formatTable).PrintTask(*t)
}
