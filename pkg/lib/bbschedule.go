package lib

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/slok/bbschedule/internal/conventions"
	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/storage"
	"github.com/slok/bbschedule/internal/storage/memory"
	"github.com/slok/bbschedule/internal/storage/sqlite"
)

// StorageType identifies where the client keeps the projects.
type StorageType string

const (
	// StorageSQLite keeps the projects on a SQLite database file.
	StorageSQLite StorageType = "sqlite"
	// StorageMemory keeps the projects in memory, they are lost on Close.
	StorageMemory StorageType = "memory"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.bbschedule/bbschedule.db.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: <DataDir>/bbschedule.db.
	DBPath string

	// DataDir is the base directory for bbschedule data.
	// Default: ~/.bbschedule.
	DataDir string

	// Storage selects the storage backend.
	// Default: [StorageSQLite].
	Storage StorageType

	// Clock returns the current time used by metrics, charts and new tasks.
	// Default: time.Now.
	Clock func() time.Time

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = conventions.DataDir(home)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	switch c.Storage {
	case "":
		c.Storage = StorageSQLite
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unsupported storage %q: %w", c.Storage, ErrNotValid)
	}

	if c.Clock == nil {
		c.Clock = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for working with schedules programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use on different projects.
type Client struct {
	repo    storage.Repository
	clock   func() time.Time
	logger  log.Logger
	closeFn func() error
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done to release the database
// connection:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{clock: cfg.Clock, logger: cfg.Logger}
	switch cfg.Storage {
	case StorageMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
	default:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.DBPath,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
		c.closeFn = repo.Close
	}

	return c, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
