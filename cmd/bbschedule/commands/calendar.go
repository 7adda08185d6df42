package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/calendarpublish"
	"github.com/slok/bbschedule/internal/calendar/google"
	"github.com/slok/bbschedule/internal/conventions"
)

// NewCalendarCommand returns the calendar parent command.
func NewCalendarCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("calendar", "Publish the schedule to external calendars.")
}

type CalendarPublishCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	calendarID      string
	credentialsPath string
	tokenPath       string
	plannedOnly     bool
}

// NewCalendarPublishCommand returns the calendar publish command.
func NewCalendarPublishCommand(rootCmd *RootCommand, calendarCmd *kingpin.CmdClause) *CalendarPublishCommand {
	c := &CalendarPublishCommand{rootCmd: rootCmd}

	c.Cmd = calendarCmd.Command("publish", "Create or update a Google Calendar event per task.")
	c.Cmd.Flag("calendar-id", "Google calendar ID.").Default(conventions.DefaultCalendarID).StringVar(&c.calendarID)
	c.Cmd.Flag("credentials", "OAuth client credentials JSON file.").Envar("BBSCHEDULE_GOOGLE_CREDENTIALS").Required().StringVar(&c.credentialsPath)
	c.Cmd.Flag("token", "OAuth token JSON file.").Envar("BBSCHEDULE_GOOGLE_TOKEN").Required().StringVar(&c.tokenPath)
	c.Cmd.Flag("planned-only", "Publish only the tasks assigned to a pull-planning week.").BoolVar(&c.plannedOnly)

	return c
}

func (c CalendarPublishCommand) Name() string { return c.Cmd.FullCommand() }

func (c CalendarPublishCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	creds, err := os.ReadFile(c.credentialsPath)
	if err != nil {
		return fmt.Errorf("could not read credentials: %w", err)
	}
	token, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return fmt.Errorf("could not read token: %w", err)
	}

	gsvc, err := google.NewService(ctx, creds, token)
	if err != nil {
		return fmt.Errorf("could not create calendar client: %w", err)
	}

	publisher, err := google.NewPublisher(google.PublisherConfig{
		Service:    gsvc,
		CalendarID: c.calendarID,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create publisher: %w", err)
	}

	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := calendarpublish.NewService(calendarpublish.ServiceConfig{
		Repository: repo,
		Publisher:  publisher,
		Clock:      c.rootCmd.Clock,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, calendarpublish.Request{
		ProjectID:   c.rootCmd.Project,
		PlannedOnly: c.plannedOnly,
	})
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Calendar %s: %d created, %d updated, %d unchanged", c.calendarID, res.Created, res.Updated, res.Unchanged)
	return c.rootCmd.Printer(formatTable).PrintMessage(msg)
}
