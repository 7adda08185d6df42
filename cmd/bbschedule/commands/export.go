package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/natefinch/atomic"

	appexport "github.com/slok/bbschedule/internal/app/export"
)

type ExportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
	out    string
}

// NewExportCommand returns the export command.
func NewExportCommand(rootCmd *RootCommand, app *kingpin.Application) *ExportCommand {
	c := &ExportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("export", "Export a snapshot of the project with its metrics.")
	c.Cmd.Flag("format", "Export format (json, xlsx).").Short('f').Default(string(appexport.FormatJSON)).StringVar(&c.format)
	c.Cmd.Flag("out", "Output file, standard output when missing.").Short('o').StringVar(&c.out)

	return c
}

func (c ExportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ExportCommand) Run(ctx context.Context) error {
	format, err := appexport.ParseFormat(c.format)
	if err != nil {
		return err
	}
	if format == appexport.FormatXLSX && c.out == "" {
		return fmt.Errorf("xlsx export requires --out")
	}

	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc, err := appexport.NewService(appexport.ServiceConfig{
		Repository: repo,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	req := appexport.Request{ProjectID: c.rootCmd.Project, Format: format}
	switch {
	case c.out == "":
		req.Out = c.rootCmd.Stdout
	case format == appexport.FormatJSON:
		req.Path = c.out
	default:
		return c.exportToFile(ctx, svc, req)
	}

	if _, err := svc.Run(ctx, req); err != nil {
		return fmt.Errorf("could not export project: %w", err)
	}
	return nil
}

func (c ExportCommand) exportToFile(ctx context.Context, svc *appexport.Service, req appexport.Request) error {
	pr, pw := io.Pipe()
	req.Out = pw
	go func() {
		_, err := svc.Run(ctx, req)
		_ = pw.CloseWithError(err)
	}()

	if err := atomic.WriteFile(c.out, pr); err != nil {
		_ = pr.Close()
		return fmt.Errorf("could not export project: %w", err)
	}

	c.rootCmd.Logger.Infof("Project %s exported to %s", req.ProjectID, c.out)
	return nil
}
