package bbschedule_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	intbb "github.com/slok/bbschedule/test/integration/bbschedule"
)

const schedule = `{
  "tasks": [
    // Earthworks.
    {"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11", "station_start": 0, "station_end": 100, "progress": 100, "status": "completed", "pull_plan_week": 1},
    {"id": "b", "name": "Foundation", "start_date": "2024-01-11", "end_date": "2024-01-21", "progress": 40, "status": "in_progress", "dependencies": ["a"], "pull_plan_week": 2},
    {"id": "c", "name": "Framing", "start_date": "2024-01-21", "end_date": "2024-01-23", "dependencies": ["b"]},
  ],
}`

// listItem matches the JSON output of `bbschedule list --format json`.
type listItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start_date"`
	End   string `json:"end_date"`
	Week  int    `json:"pull_plan_week"`
}

func parseList(t *testing.T, data []byte) []listItem {
	t.Helper()
	var items []listItem
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func findItem(items []listItem, id string) *listItem {
	for _, item := range items {
		if item.ID == id {
			return &item
		}
	}
	return nil
}

// newProject imports the schedule into an isolated data dir and returns it.
func newProject(t *testing.T, config intbb.Config) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dataDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "schedule.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(schedule), 0644))

	_, stderr, err := intbb.RunImport(ctx, config, dataDir, "tower", path)
	require.NoError(t, err, "stderr: %s", stderr)

	return dataDir
}

func TestIntegrationEditSchedule(t *testing.T) {
	config := intbb.NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dataDir := newProject(t, config)

	_, stderr, err := intbb.RunShift(ctx, config, dataDir, "tower", "b", 3)
	require.NoError(t, err, "stderr: %s", stderr)

	_, stderr, err = intbb.RunMove(ctx, config, dataDir, "tower", "c", 4)
	require.NoError(t, err, "stderr: %s", stderr)

	_, stderr, err = intbb.RunAdd(ctx, config, dataDir, "tower", "Roof trusses", 2, 3)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := intbb.RunList(ctx, config, dataDir, "tower")
	require.NoError(t, err, "stderr: %s", stderr)
	items := parseList(t, stdout)
	require.Len(t, items, 4)

	b := findItem(items, "b")
	require.NotNil(t, b)
	assert.Equal(t, "2024-01-14", b.Start)
	assert.Equal(t, "2024-01-24", b.End)

	c := findItem(items, "c")
	require.NotNil(t, c)
	assert.Equal(t, 4, c.Week)

	assert.Equal(t, "Roof trusses", items[3].Name)
	assert.Equal(t, 2, items[3].Week)

	// Other projects are isolated.
	stdout, _, err = intbb.RunList(ctx, config, dataDir, "other")
	require.NoError(t, err)
	assert.Empty(t, parseList(t, stdout))
}

func TestIntegrationMissingTask(t *testing.T) {
	config := intbb.NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dataDir := newProject(t, config)

	_, _, err := intbb.RunShift(ctx, config, dataDir, "tower", "missing", 1)
	assert.Error(t, err)
}

func TestIntegrationOutputs(t *testing.T) {
	config := intbb.NewConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dataDir := newProject(t, config)
	outDir := t.TempDir()

	for _, kind := range []string{"gantt", "linear", "pullplan"} {
		out := filepath.Join(outDir, kind+".svg")
		_, stderr, err := intbb.RunRender(ctx, config, dataDir, "tower", kind, out)
		require.NoError(t, err, "stderr: %s", stderr)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `class="chart chart-`+kind+`"`)
	}

	jsonOut := filepath.Join(outDir, "snapshot.json")
	_, stderr, err := intbb.RunExport(ctx, config, dataDir, "tower", "json", jsonOut)
	require.NoError(t, err, "stderr: %s", stderr)
	data, err := os.ReadFile(jsonOut)
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "tower", snap["project_id"])

	xlsxOut := filepath.Join(outDir, "snapshot.xlsx")
	_, stderr, err = intbb.RunExport(ctx, config, dataDir, "tower", "xlsx", xlsxOut)
	require.NoError(t, err, "stderr: %s", stderr)
	f, err := excelize.OpenFile(xlsxOut)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Tasks", "Pull Plan", "Summary"}, f.GetSheetList())
}
