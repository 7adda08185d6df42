package io_test

import (
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/normalize"
	storageio "github.com/slok/bbschedule/internal/storage/io"
)

func TestRecordsRepositoryListTaskRecords(t *testing.T) {
	tests := map[string]struct {
		fs      fstest.MapFS
		path    string
		expRecs []model.Record
		expErr  bool
	}{
		"JSON with comments and trailing commas should load.": {
			fs: fstest.MapFS{
				"tasks.json": &fstest.MapFile{Data: []byte(`[
  // Earthworks.
  {"id": 1, "name": "Excavation", "start_date": "2024-01-01", "progress": 20.5,},
]`)},
			},
			path: "tasks.json",
			expRecs: []model.Record{
				{"id": json.Number("1"), "name": "Excavation", "start_date": "2024-01-01", "progress": json.Number("20.5")},
			},
		},

		"An object with a tasks key should load.": {
			fs: fstest.MapFS{
				"tasks.jsonc": &fstest.MapFile{Data: []byte(`{"tasks": [{"id": "a"}, 42]}`)},
			},
			path:    "tasks.jsonc",
			expRecs: []model.Record{{"id": "a"}, nil},
		},

		"YAML should load.": {
			fs: fstest.MapFS{
				"tasks.yaml": &fstest.MapFile{Data: []byte(`
- id: a
  name: Framing
  dependencies: [b, c]
  pull_plan_week: 2
`)},
			},
			path: "tasks.yaml",
			expRecs: []model.Record{
				{"id": "a", "name": "Framing", "dependencies": []any{"b", "c"}, "pull_plan_week": 2},
			},
		},

		"An empty YAML file should have no records.": {
			fs:      fstest.MapFS{"tasks.yml": &fstest.MapFile{Data: []byte("")}},
			path:    "tasks.yml",
			expRecs: []model.Record{},
		},

		"An object without tasks should fail.": {
			fs:     fstest.MapFS{"tasks.json": &fstest.MapFile{Data: []byte(`{"items": []}`)}},
			path:   "tasks.json",
			expErr: true,
		},

		"Invalid JSON should fail.": {
			fs:     fstest.MapFS{"tasks.json": &fstest.MapFile{Data: []byte(`[{"id": }]`)}},
			path:   "tasks.json",
			expErr: true,
		},

		"Unknown extensions should fail.": {
			fs:     fstest.MapFS{"tasks.csv": &fstest.MapFile{Data: []byte(`id,name`)}},
			path:   "tasks.csv",
			expErr: true,
		},

		"Missing files should fail.": {
			fs:     fstest.MapFS{},
			path:   "tasks.json",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			repo := storageio.NewRecordsRepository(test.fs)
			recs, err := repo.ListTaskRecords(context.Background(), test.path)

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expRecs, recs)
			}
		})
	}
}

func TestRecordsRepositoryNormalizes(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	fs := fstest.MapFS{
		"tasks.json": &fstest.MapFile{Data: []byte(`{
  "tasks": [
    {"id": 1, "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11", "station_start": 0, "station_end": "100"},
    {"id": 2, "name": "Foundation", "start_date": "2024-01-11", "end_date": "not a date"},
    {"id": 3, "name": "Framing", "start_date": "2024-01-11", "end_date": "2024-01-21", "dependencies": "1, 2"},
  ],
}`)},
	}

	recs, err := storageio.NewRecordsRepository(fs).ListTaskRecords(context.Background(), "tasks.json")
	require.NoError(err)

	n, err := normalize.NewNormalizer(normalize.NormalizerConfig{})
	require.NoError(err)
	res := n.Normalize(recs)

	require.Len(res.Tasks, 2)
	require.Len(res.Dropped, 1)
	assert.Equal("2", res.Dropped[0].ID)
	assert.ErrorIs(res.Dropped[0].Err, model.ErrMalformedRecord)

	assert.Equal("1", res.Tasks[0].ID)
	assert.Equal(time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), res.Tasks[0].End)
	require.True(res.Tasks[0].HasLocation())
	assert.Equal(100.0, *res.Tasks[0].LocationEnd)
	assert.Equal([]string{"1", "2"}, res.Tasks[1].Dependencies)
}
