package bbschedule

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/bbschedule/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	// go test changes the CWD to the test package directory, relative paths would break.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("BBSCHEDULE_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("bbschedule binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "BBSCHEDULE_INTEGRATION"
		envBinary     = "BBSCHEDULE_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunCmd runs a bbschedule command on an isolated data dir and project.
func RunCmd(ctx context.Context, config Config, dataDir, project, cmdArgs string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("--no-log --data-dir %s --project %s %s", dataDir, project, cmdArgs)
	return testutils.RunBBSchedule(ctx, nil, config.Binary, args, true)
}

// RunImport imports a records file.
func RunImport(ctx context.Context, config Config, dataDir, project, path string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dataDir, project, "import "+path)
}

// RunList lists the project tasks in JSON format.
func RunList(ctx context.Context, config Config, dataDir, project string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dataDir, project, "list --format json")
}

// RunShift shifts a task by a number of days.
func RunShift(ctx context.Context, config Config, dataDir, project, taskID string, days float64) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dataDir, project, fmt.Sprintf("shift --task %s --days %g", taskID, days))
}

// RunMove moves a task to a pull-planning week.
func RunMove(ctx context.Context, config Config, dataDir, project, taskID string, week int) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dataDir, project, fmt.Sprintf("move --task %s --week %d", taskID, week))
}

// RunAdd adds a pull-planning task, the name is kept as a single argument.
func RunAdd(ctx context.Context, config Config, dataDir, project, name string, week, days int) (stdout, stderr []byte, err error) {
	args := []string{
		"--no-log", "--data-dir", dataDir, "--project", project,
		"add", name, "--week", fmt.Sprint(week), "--duration", fmt.Sprint(days), "--format", "json",
	}
	return testutils.RunBBScheduleArgs(ctx, nil, config.Binary, args, true)
}

// RunRender renders a chart into a file.
func RunRender(ctx context.Context, config Config, dataDir, project, kind, out string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dataDir, project, fmt.Sprintf("render %s --out %s", kind, out))
}

// RunExport exports the project snapshot into a file.
func RunExport(ctx context.Context, config Config, dataDir, project, format, out string) (stdout, stderr []byte, err error) {
	return RunCmd(ctx, config, dataDir, project, fmt.Sprintf("export --format %s --out %s", format, out))
}
