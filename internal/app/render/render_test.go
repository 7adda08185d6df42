package render_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/app/render"
	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    render.Format
		expErr bool
	}{
		"svg":              {in: "svg", exp: render.FormatSVG},
		"uppercase png":    {in: " PNG ", exp: render.FormatPNG},
		"json":             {in: "json", exp: render.FormatJSON},
		"unknown is wrong": {in: "pdf", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := render.ParseFormat(test.in)
			if test.expErr {
				assert.Error(t, err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, test.exp, got)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	recs := []model.Record{
		{"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11", "station_start": 0, "station_end": 100, "pull_plan_week": 1},
		{"id": "b", "name": "Foundation", "start_date": "2024-01-11", "end_date": "2024-01-21", "dependencies": "a", "pull_plan_week": 2},
	}

	tests := map[string]struct {
		kind   chart.Kind
		format render.Format
		check  func(t *testing.T, out []byte)
		expErr bool
	}{
		"gantt as svg": {
			kind:   chart.KindGantt,
			format: render.FormatSVG,
			check: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, []byte("<svg")))
				assert.Contains(t, string(out), "Excavation")
			},
		},
		"linear as png": {
			kind:   chart.KindLinear,
			format: render.FormatPNG,
			check: func(t *testing.T, out []byte) {
				assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")))
			},
		},
		"pull plan as json": {
			kind:   chart.KindPullPlan,
			format: render.FormatJSON,
			check: func(t *testing.T, out []byte) {
				var got map[string]any
				require.NoError(t, json.Unmarshal(out, &got))
				assert.Equal(t, "pullplan", got["kind"])
			},
		},
		"unknown kinds should fail": {
			kind:   chart.Kind("pie"),
			format: render.FormatSVG,
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			m := &storagemock.MockRepository{}
			m.On("ListTaskRecords", mock.Anything, "p1").Once().Return(recs, nil)

			svc, err := render.NewService(render.ServiceConfig{Repository: m, Clock: func() time.Time { return now }})
			require.NoError(err)

			var out bytes.Buffer
			scene, err := svc.Run(context.Background(), render.Request{ProjectID: "p1", Kind: test.kind, Format: test.format, Out: &out})
			if test.expErr {
				assert.Error(t, err)
			} else {
				require.NoError(err)
				assert.Equal(t, test.kind, scene.Kind)
				test.check(t, out.Bytes())
			}

			m.AssertExpectations(t)
		})
	}
}
