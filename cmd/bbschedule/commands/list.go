package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/list"
	"github.com/slok/bbschedule/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	statusFilter string
	weekFilter   int
	format       string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List the project tasks.")
	c.Cmd.Flag("status", "Filter by status (not_started, in_progress, completed, on_hold, cancelled).").StringVar(&c.statusFilter)
	c.Cmd.Flag("week", "Filter by pull-planning week, 0 for unplanned tasks.").Default("-1").IntVar(&c.weekFilter)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Parse status filter if provided.
	var statusFilter *model.TaskStatus
	if c.statusFilter != "" {
		status := model.TaskStatus(strings.ToLower(c.statusFilter))
		if !status.Valid() {
			return fmt.Errorf("invalid status filter: %s", c.statusFilter)
		}
		statusFilter = &status
	}

	var weekFilter *int
	if c.weekFilter >= 0 {
		weekFilter = &c.weekFilter
	}

	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, list.Request{
		ProjectID:    c.rootCmd.Project,
		StatusFilter: statusFilter,
		WeekFilter:   weekFilter,
	})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}
	if len(res.Dropped) > 0 {
		logger.Warningf("%d malformed records ignored", len(res.Dropped))
	}

	if err := c.rootCmd.Printer(c.format).PrintTasks(res.Tasks); err != nil {
		return fmt.Errorf("could not print tasks: %w", err)
	}

	return nil
}
