package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/dashboard"
)

type DashboardCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewDashboardCommand returns the dashboard command.
func NewDashboardCommand(rootCmd *RootCommand, app *kingpin.Application) *DashboardCommand {
	c := &DashboardCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("dashboard", "Show the project summary statistics.")
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c DashboardCommand) Name() string { return c.Cmd.FullCommand() }

func (c DashboardCommand) Run(ctx context.Context) error {
	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Repository: repo,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, dashboard.Request{ProjectID: c.rootCmd.Project})
	if err != nil {
		return fmt.Errorf("could not compute dashboard: %w", err)
	}
	if res.Dropped > 0 {
		c.rootCmd.Logger.Warningf("%d malformed records ignored", res.Dropped)
	}

	if err := c.rootCmd.Printer(c.format).PrintDashboard(res.Stats); err != nil {
		return fmt.Errorf("could not print dashboard: %w", err)
	}

	return nil
}
