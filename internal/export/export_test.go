package export_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/slok/bbschedule/internal/export"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagetest"
)

var now = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

func TestNewSnapshot(t *testing.T) {
	tests := map[string]struct {
		tasks    []model.Task
		expWeeks []int
		expTotal int
		expStart string
	}{
		"No tasks should have an empty snapshot.": {
			tasks:    nil,
			expWeeks: []int{},
		},
		"Tasks should be grouped by week with the unplanned ones last.": {
			tasks:    storagetest.Fixture(),
			expWeeks: []int{1, 2, 0},
			expTotal: 3,
			expStart: "2024-01-01",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			snap := export.NewSnapshot("p1", test.tasks, now)

			gotWeeks := []int{}
			for _, w := range snap.Weeks {
				gotWeeks = append(gotWeeks, w.Week)
			}
			assert.Equal(test.expWeeks, gotWeeks)
			assert.Equal(test.expTotal, snap.Summary.Total)
			assert.Equal(test.expStart, snap.Summary.Start)
			assert.Equal("p1", snap.ProjectID)
		})
	}
}

func TestNewSnapshotTaskMetrics(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	snap := export.NewSnapshot("p1", storagetest.Fixture(), now)
	require.Len(snap.Weeks, 3)

	w1 := snap.Weeks[0]
	assert.Equal("Week 1", w1.Label)
	assert.Equal("2024-01-05", w1.Start)
	assert.Equal("2024-01-12", w1.End)
	require.Len(w1.Tasks, 1)

	excavation := w1.Tasks[0]
	assert.Equal("Excavation", excavation.Name)
	assert.Equal(10.0, excavation.DurationDays)
	require.NotNil(excavation.Distance)
	assert.Equal(100.0, *excavation.Distance)
	require.NotNil(excavation.Rate)
	assert.Equal(10.0, *excavation.Rate)
	assert.Equal("low", excavation.Risk)

	unplanned := snap.Weeks[2]
	assert.Equal("Unplanned", unplanned.Label)
	assert.Empty(unplanned.Start)
	require.Len(unplanned.Tasks, 1)
	assert.Nil(unplanned.Tasks[0].Distance)
	assert.Equal(1.5, unplanned.Tasks[0].DurationDays)
	assert.Equal([]string{"2", "1"}, unplanned.Tasks[0].Dependencies)
}

func TestWriteJSON(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	snap := export.NewSnapshot("p1", storagetest.Fixture(), now)
	require.NoError(export.WriteJSON(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(err)

	var got export.Snapshot
	require.NoError(json.Unmarshal(data, &got))
	assert.Equal(snap, got)
	assert.Contains(string(data), "\n  \"project_id\": \"p1\"")
}

func TestWriteJSONMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "snapshot.json")
	err := export.WriteJSON(path, export.NewSnapshot("p1", nil, now))
	assert.Error(t, err)
}

func TestWriteXLSX(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var b bytes.Buffer
	require.NoError(export.WriteXLSX(&b, export.NewSnapshot("p1", storagetest.Fixture(), now)))

	f, err := excelize.OpenReader(&b)
	require.NoError(err)
	defer f.Close()

	assert.Equal([]string{export.SheetTasks, export.SheetPullPlan, export.SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetTasks)
	require.NoError(err)
	require.Len(rows, 4)
	assert.Equal("ID", rows[0][0])
	assert.Equal([]string{"1", "Excavation", "2024-01-01", "2024-01-11"}, rows[1][:4])
	assert.Equal("0", rows[3][4])

	plan, err := f.GetRows(export.SheetPullPlan)
	require.NoError(err)
	require.Len(plan, 4)
	assert.Equal([]string{"Week 1", "2024-01-05 / 2024-01-12", "Excavation"}, plan[1][:3])
	assert.Equal("Unplanned", plan[3][0])

	project, err := f.GetCellValue(export.SheetSummary, "B1")
	require.NoError(err)
	assert.Equal("p1", project)
}
