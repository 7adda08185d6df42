package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/conventions"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/printer"
	"github.com/slok/bbschedule/internal/storage"
	storageio "github.com/slok/bbschedule/internal/storage/io"
	"github.com/slok/bbschedule/internal/storage/memory"
	"github.com/slok/bbschedule/internal/storage/postgres"
	"github.com/slok/bbschedule/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	// StorageSQLite stores the projects on a local SQLite database.
	StorageSQLite = "sqlite"
	// StoragePostgres stores the projects on a Postgres database.
	StoragePostgres = "postgres"
	// StorageMemory keeps the projects in memory, they are lost on exit.
	StorageMemory = "memory"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug       bool
	NoLog       bool
	NoColor     bool
	LoggerType  string
	DataDir     string
	DBPath      string
	Storage     string
	PostgresDSN string
	ChartConfig string
	Project     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
	// Clock is the time source used for metrics, charts and new tasks.
	Clock func() time.Time
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{Clock: time.Now}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDataDir := conventions.DataDir(homedir.HomeDir())
	app.Flag("data-dir", "Directory for the database, history and chart configuration.").Envar("BBSCHEDULE_DATA_DIR").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("db-path", "Path to the SQLite database file (defaults inside the data dir).").Envar("BBSCHEDULE_DB_PATH").StringVar(&c.DBPath)
	app.Flag("storage", "Storage backend.").Envar("BBSCHEDULE_STORAGE").Default(StorageSQLite).EnumVar(&c.Storage, StorageSQLite, StoragePostgres, StorageMemory)
	app.Flag("postgres-dsn", "Postgres connection string, required by the postgres storage.").Envar("BBSCHEDULE_POSTGRES_DSN").StringVar(&c.PostgresDSN)
	app.Flag("chart-config", "Path to a YAML chart style file (defaults inside the data dir when present).").Envar("BBSCHEDULE_CHART_CONFIG").StringVar(&c.ChartConfig)
	app.Flag("project", "Project to work on.").Short('p').Envar("BBSCHEDULE_PROJECT").Default(conventions.DefaultProject).StringVar(&c.Project)

	return c
}

// Repository returns the repository of the selected storage and a function to release it.
func (r *RootCommand) Repository(ctx context.Context) (storage.Repository, func(), error) {
	switch r.Storage {
	case StorageMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: r.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, func() {}, nil

	case StoragePostgres:
		repo, err := postgres.NewRepository(ctx, postgres.RepositoryConfig{
			DSN:    r.PostgresDSN,
			Logger: r.Logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		dbPath := r.DBPath
		if dbPath == "" {
			dbPath = conventions.DBPath(r.DataDir)
		}
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: dbPath,
			Logger: r.Logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create repository: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	}
}

// Style returns the chart style. An explicit chart config must exist, the default
// one is only used when present. Nil means the default style.
func (r *RootCommand) Style(ctx context.Context) (*chart.Style, error) {
	path := r.ChartConfig
	explicit := path != ""
	if !explicit {
		path = conventions.ChartConfigPath(r.DataDir)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid chart config path: %w", err)
	}

	// Paths on fs.FS are unrooted.
	repo := storageio.NewChartConfigYAMLRepository(os.DirFS("/"))
	style, err := repo.GetStyle(ctx, filepath.ToSlash(abs)[1:])
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not load chart config: %w", err)
	}

	r.Logger.Debugf("Chart style loaded from %s", abs)
	return &style, nil
}

// Printer returns the printer of an output format.
func (r *RootCommand) Printer(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(r.Stdout)
	}
	return printer.NewTablePrinter(r.Stdout).WithClock(r.Clock)
}
