package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/bbschedule/cmd/bbschedule/commands"
	"github.com/slok/bbschedule/internal/log"
	loglogrus "github.com/slok/bbschedule/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("bbschedule", "Construction schedule charts, pull planning and progress metrics.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	importCmd := commands.NewImportCommand(rootCmd, app)
	listCmd := commands.NewListCommand(rootCmd, app)
	metricsCmd := commands.NewMetricsCommand(rootCmd, app)
	dashboardCmd := commands.NewDashboardCommand(rootCmd, app)
	renderCmd := commands.NewRenderCommand(rootCmd, app)
	shiftCmd := commands.NewShiftCommand(rootCmd, app)
	moveCmd := commands.NewMoveCommand(rootCmd, app)
	addCmd := commands.NewAddCommand(rootCmd, app)
	removeCmd := commands.NewRemoveCommand(rootCmd, app)
	progressCmd := commands.NewProgressCommand(rootCmd, app)
	exportCmd := commands.NewExportCommand(rootCmd, app)
	sessionCmd := commands.NewSessionCommand(rootCmd, app)

	// Calendar subcommands share a parent command.
	calendarCmd := commands.NewCalendarCommand(app)
	calendarPublishCmd := commands.NewCalendarPublishCommand(rootCmd, calendarCmd)

	cmds := map[string]commands.Command{
		importCmd.Name():          importCmd,
		listCmd.Name():            listCmd,
		metricsCmd.Name():         metricsCmd,
		dashboardCmd.Name():       dashboardCmd,
		renderCmd.Name():          renderCmd,
		shiftCmd.Name():           shiftCmd,
		moveCmd.Name():            moveCmd,
		addCmd.Name():             addCmd,
		removeCmd.Name():          removeCmd,
		progressCmd.Name():        progressCmd,
		exportCmd.Name():          exportCmd,
		sessionCmd.Name():         sessionCmd,
		calendarPublishCmd.Name(): calendarPublishCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Commands writing tables, charts or snapshots to stdout log only on --debug.
	printerCommands := map[string]bool{
		"list":      true,
		"metrics":   true,
		"dashboard": true,
		"render":    true,
		"export":    true,
		"session":   true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // By default logger goes to stderr (so it can split stdout prints).
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
