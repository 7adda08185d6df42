package normalize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeRecord(t *testing.T) {
	tests := map[string]struct {
		record  model.Record
		expTask model.Task
		expErr  bool
	}{
		"A complete record should be normalized.": {
			record: model.Record{
				"id":             "t1",
				"name":           "Excavation",
				"start_date":     "2024-01-01",
				"end_date":       "2024-01-11",
				"station_start":  0.0,
				"station_end":    100,
				"progress":       42.6,
				"status":         "In Progress",
				"dependencies":   []any{"t0", 7.0},
				"pull_plan_week": 3,
				"constraints":    []any{"permit", "crane"},
			},
			expTask: model.Task{
				ID:            "t1",
				Name:          "Excavation",
				Start:         date(2024, 1, 1),
				End:           date(2024, 1, 11),
				LocationStart: ptr(0.0),
				LocationEnd:   ptr(100.0),
				Progress:      43,
				Status:        model.TaskStatusInProgress,
				Dependencies:  []string{"t0", "7"},
				Week:          3,
				Constraints:   []string{"permit", "crane"},
			},
		},

		"A minimal record should get the defaults.": {
			record: model.Record{
				"id":    12,
				"start": "2024-01-01 08:00",
				"end":   time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
			},
			expTask: model.Task{
				ID:           "12",
				Name:         normalize.DefaultTaskName,
				Start:        time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
				End:          time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
				Status:       model.TaskStatusNotStarted,
				Dependencies: []string{},
				Constraints:  []string{},
			},
		},

		"Out of range progress should be clamped.": {
			record: model.Record{"id": "t1", "name": "A", "start_date": "2024-01-01", "end_date": "2024-01-02", "progress": 150},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 1), End: date(2024, 1, 2),
				Progress: 100, Status: model.TaskStatusNotStarted, Dependencies: []string{}, Constraints: []string{},
			},
		},

		"Huge progress and week should be clamped.": {
			record: model.Record{"id": "t1", "name": "A", "start_date": "2024-01-01", "end_date": "2024-01-02", "progress": 1e20, "pull_plan_week": 1e20},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 1), End: date(2024, 1, 2),
				Progress: 100, Week: 10000, Status: model.TaskStatusNotStarted, Dependencies: []string{}, Constraints: []string{},
			},
		},

		"Huge negative progress and week should be clamped to zero.": {
			record: model.Record{"id": "t1", "name": "A", "start_date": "2024-01-01", "end_date": "2024-01-02", "progress": -1e20, "pull_plan_week": -1e20},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 1), End: date(2024, 1, 2),
				Status: model.TaskStatusNotStarted, Dependencies: []string{}, Constraints: []string{},
			},
		},

		"Non numeric fields should fall back to zero.": {
			record: model.Record{
				"id": "t1", "name": "A", "start_date": "2024-01-01", "end_date": "2024-01-02",
				"progress": "lots", "pull_plan_week": "soon", "station_start": "km 4", "station_end": json.Number("12.5"),
			},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 1), End: date(2024, 1, 2),
				LocationStart: ptr(0.0), LocationEnd: ptr(12.5),
				Status: model.TaskStatusNotStarted, Dependencies: []string{}, Constraints: []string{},
			},
		},

		"Unknown status should fall back to not started.": {
			record: model.Record{"id": "t1", "name": "A", "start_date": "2024-01-01", "end_date": "2024-01-02", "status": "blocked"},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 1), End: date(2024, 1, 2),
				Status: model.TaskStatusNotStarted, Dependencies: []string{}, Constraints: []string{},
			},
		},

		"Comma separated dependencies should be split and self references removed.": {
			record: model.Record{"id": "t1", "name": "A", "start_date": "2024-01-01", "end_date": "2024-01-02", "dependencies": "t0, t1, t0 ,t2"},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 1), End: date(2024, 1, 2),
				Status: model.TaskStatusNotStarted, Dependencies: []string{"t0", "t2"}, Constraints: []string{},
			},
		},

		"A start after the end should be kept as is.": {
			record: model.Record{"id": "t1", "name": "A", "start_date": "2024-01-05", "end_date": "2024-01-02"},
			expTask: model.Task{
				ID: "t1", Name: "A", Start: date(2024, 1, 5), End: date(2024, 1, 2),
				Status: model.TaskStatusNotStarted, Dependencies: []string{}, Constraints: []string{},
			},
		},

		"An unparsable start date should fail.": {
			record: model.Record{"id": "t1", "start_date": "yesterday", "end_date": "2024-01-02"},
			expErr: true,
		},

		"A missing end date should fail.": {
			record: model.Record{"id": "t1", "start_date": "2024-01-01"},
			expErr: true,
		},

		"A non textual date should fail.": {
			record: model.Record{"id": "t1", "start_date": true, "end_date": "2024-01-02"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			n, err := normalize.NewNormalizer(normalize.NormalizerConfig{})
			require.NoError(err)

			got, err := n.NormalizeRecord(0, test.record)
			if test.expErr {
				assert.ErrorIs(err, model.ErrMalformedRecord)
				return
			}
			require.NoError(err)
			assert.Equal(test.expTask, got)
		})
	}
}

func TestNormalizeBatch(t *testing.T) {
	tests := map[string]struct {
		records    []model.Record
		expIDs     []string
		expDropped []int
	}{
		"An empty batch should return no tasks.": {
			records: nil,
			expIDs:  []string{},
		},

		"Malformed records should be dropped without aborting the batch.": {
			records: []model.Record{
				{"id": "a", "start_date": "2024-01-01", "end_date": "2024-01-02"},
				{"id": "b", "start_date": "not a date", "end_date": "2024-01-02"},
				{"id": "c", "start_date": "2024-01-03", "end_date": "2024-01-04"},
			},
			expIDs:     []string{"a", "c"},
			expDropped: []int{1},
		},

		"Duplicated ids should keep the first record.": {
			records: []model.Record{
				{"id": "a", "start_date": "2024-01-01", "end_date": "2024-01-02"},
				{"id": "a", "start_date": "2024-02-01", "end_date": "2024-02-02"},
			},
			expIDs:     []string{"a"},
			expDropped: []int{1},
		},

		"Records without id should get one derived from their position.": {
			records: []model.Record{
				{"start_date": "2024-01-01", "end_date": "2024-01-02"},
				{"start_date": "2024-01-01", "end_date": "2024-01-02"},
			},
			expIDs: []string{"record-0", "record-1"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			n, err := normalize.NewNormalizer(normalize.NormalizerConfig{})
			require.NoError(t, err)

			res := n.Normalize(test.records)

			gotIDs := []string{}
			for _, task := range res.Tasks {
				gotIDs = append(gotIDs, task.ID)
			}
			assert.Equal(test.expIDs, gotIDs)

			var gotDropped []int
			for _, d := range res.Dropped {
				gotDropped = append(gotDropped, d.Index)
				assert.ErrorIs(d.Err, model.ErrMalformedRecord)
			}
			assert.Equal(test.expDropped, gotDropped)
		})
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := map[string]struct {
		value   any
		expTime time.Time
	}{
		"RFC3339 with offset should be converted to UTC.": {
			value:   "2024-01-01T10:00:00+02:00",
			expTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		},
		"Plain ISO date.":       {value: "2024-01-01", expTime: date(2024, 1, 1)},
		"Slash separated date.": {value: "2024/03/05", expTime: date(2024, 3, 5)},
		"US date.":              {value: "03/05/2024", expTime: date(2024, 3, 5)},
		"Dotted european date.": {value: "05.03.2024", expTime: date(2024, 3, 5)},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalize.ParseDate(test.value)
			require.NoError(t, err)
			assert.Equal(t, test.expTime, got)
		})
	}
}
