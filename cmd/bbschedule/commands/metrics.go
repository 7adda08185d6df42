package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/taskmetrics"
)

type MetricsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskID string
	format string
}

// NewMetricsCommand returns the metrics command.
func NewMetricsCommand(rootCmd *RootCommand, app *kingpin.Application) *MetricsCommand {
	c := &MetricsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("metrics", "Show the derived metrics of the project tasks.")
	c.Cmd.Flag("task", "Show only the metrics of a task.").StringVar(&c.taskID)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c MetricsCommand) Name() string { return c.Cmd.FullCommand() }

func (c MetricsCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := taskmetrics.NewService(taskmetrics.ServiceConfig{
		Repository: repo,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	entries, err := svc.Run(ctx, taskmetrics.Request{
		ProjectID: c.rootCmd.Project,
		TaskID:    c.taskID,
	})
	if err != nil {
		return fmt.Errorf("could not compute metrics: %w", err)
	}

	if err := c.rootCmd.Printer(c.format).PrintMetrics(entries); err != nil {
		return fmt.Errorf("could not print metrics: %w", err)
	}

	return nil
}
