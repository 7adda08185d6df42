package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/natefinch/atomic"

	"github.com/slok/bbschedule/internal/app/render"
	"github.com/slok/bbschedule/internal/chart"
)

type RenderCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	kind   string
	format string
	out    string
}

// NewRenderCommand returns the render command.
func NewRenderCommand(rootCmd *RootCommand, app *kingpin.Application) *RenderCommand {
	c := &RenderCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("render", "Render a chart of the project.")
	c.Cmd.Arg("kind", "Chart kind (gantt, linear, pullplan).").Default(string(chart.KindGantt)).StringVar(&c.kind)
	c.Cmd.Flag("format", "Output format (svg, png, json).").Short('f').Default(string(render.FormatSVG)).StringVar(&c.format)
	c.Cmd.Flag("out", "Output file, standard output when missing.").Short('o').StringVar(&c.out)

	return c
}

func (c RenderCommand) Name() string { return c.Cmd.FullCommand() }

func (c RenderCommand) Run(ctx context.Context) error {
	kind, err := chart.ParseKind(c.kind)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(c.format)
	if err != nil {
		return err
	}
	if format == render.FormatPNG && c.out == "" {
		return fmt.Errorf("png output requires --out")
	}

	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	style, err := c.rootCmd.Style(ctx)
	if err != nil {
		return err
	}

	svc, err := render.NewService(render.ServiceConfig{
		Repository: repo,
		Style:      style,
		Clock:      c.rootCmd.Clock,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if c.out == "" {
		_, err := svc.Run(ctx, render.Request{
			ProjectID: c.rootCmd.Project,
			Kind:      kind,
			Format:    format,
			Out:       c.rootCmd.Stdout,
		})
		if err != nil {
			return fmt.Errorf("could not render chart: %w", err)
		}
		return nil
	}

	// The file is replaced only with a complete chart.
	pr, pw := io.Pipe()
	go func() {
		_, err := svc.Run(ctx, render.Request{
			ProjectID: c.rootCmd.Project,
			Kind:      kind,
			Format:    format,
			Out:       pw,
		})
		_ = pw.CloseWithError(err)
	}()

	if err := atomic.WriteFile(c.out, pr); err != nil {
		_ = pr.Close()
		return fmt.Errorf("could not render chart: %w", err)
	}

	c.rootCmd.Logger.Infof("%s chart written to %s", kind, c.out)
	return nil
}
