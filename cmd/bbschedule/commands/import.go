package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/bbschedule/internal/app/importtasks"
	storageio "github.com/slok/bbschedule/internal/storage/io"
)

type ImportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path   string
	strict bool
}

// NewImportCommand returns the import command.
func NewImportCommand(rootCmd *RootCommand, app *kingpin.Application) *ImportCommand {
	c := &ImportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("import", "Replace the project tasks with the records of a JSON or YAML file.")
	c.Cmd.Arg("file", "Records file (.json, .jsonc, .yaml, .yml).").Required().StringVar(&c.path)
	c.Cmd.Flag("strict", "Fail instead of dropping malformed records.").BoolVar(&c.strict)

	return c
}

func (c ImportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ImportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, closeRepo, err := c.rootCmd.Repository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	abs, err := filepath.Abs(c.path)
	if err != nil {
		return fmt.Errorf("invalid records path: %w", err)
	}

	svc, err := importtasks.NewService(importtasks.ServiceConfig{
		Records:    storageio.NewRecordsRepository(os.DirFS(filepath.Dir(abs))),
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, importtasks.Request{
		ProjectID: c.rootCmd.Project,
		Path:      filepath.Base(abs),
		Strict:    c.strict,
	})
	if err != nil {
		return fmt.Errorf("could not import tasks: %w", err)
	}

	for _, d := range res.Dropped {
		logger.Warningf("Record %d (%q) dropped: %s", d.Index, d.ID, d.Err)
	}

	p := c.rootCmd.Printer(formatTable)
	msg := fmt.Sprintf("Imported %d tasks into %s", res.Imported, c.rootCmd.Project)
	if len(res.Dropped) > 0 {
		msg += fmt.Sprintf(" (%d records dropped)", len(res.Dropped))
	}
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
