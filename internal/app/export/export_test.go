package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appexport "github.com/slok/bbschedule/internal/app/export"
	"github.com/slok/bbschedule/internal/export"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func TestService_Run(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	recs := []model.Record{
		{"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11", "pull_plan_week": 1},
		{"id": "b", "name": "Foundation", "start_date": "2024-01-11", "end_date": "2024-01-21"},
	}

	tests := map[string]struct {
		req    func(t *testing.T, out *bytes.Buffer) appexport.Request
		check  func(t *testing.T, out *bytes.Buffer, req appexport.Request)
		expErr bool
	}{
		"json to a writer": {
			req: func(t *testing.T, out *bytes.Buffer) appexport.Request {
				return appexport.Request{ProjectID: "p1", Format: appexport.FormatJSON, Out: out}
			},
			check: func(t *testing.T, out *bytes.Buffer, _ appexport.Request) {
				var snap export.Snapshot
				require.NoError(t, json.Unmarshal(out.Bytes(), &snap))
				assert.Equal(t, 2, snap.Summary.Total)
				assert.Len(t, snap.Weeks, 2)
			},
		},
		"json to a file": {
			req: func(t *testing.T, out *bytes.Buffer) appexport.Request {
				return appexport.Request{ProjectID: "p1", Format: appexport.FormatJSON, Path: filepath.Join(t.TempDir(), "out.json")}
			},
			check: func(t *testing.T, out *bytes.Buffer, req appexport.Request) {
				assert.Zero(t, out.Len())
				data, err := os.ReadFile(req.Path)
				require.NoError(t, err)
				assert.Contains(t, string(data), `"Excavation"`)
			},
		},
		"xlsx to a writer": {
			req: func(t *testing.T, out *bytes.Buffer) appexport.Request {
				return appexport.Request{ProjectID: "p1", Format: appexport.FormatXLSX, Out: out}
			},
			check: func(t *testing.T, out *bytes.Buffer, _ appexport.Request) {
				f, err := excelize.OpenReader(out)
				require.NoError(t, err)
				defer f.Close()
				rows, err := f.GetRows(export.SheetTasks)
				require.NoError(t, err)
				assert.Len(t, rows, 3)
			},
		},
		"missing output should fail": {
			req: func(t *testing.T, out *bytes.Buffer) appexport.Request {
				return appexport.Request{ProjectID: "p1", Format: appexport.FormatXLSX}
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			m := &storagemock.MockRepository{}
			m.On("ListTaskRecords", mock.Anything, "p1").Once().Return(recs, nil)

			svc, err := appexport.NewService(appexport.ServiceConfig{Repository: m, Clock: func() time.Time { return now }})
			require.NoError(err)

			var out bytes.Buffer
			req := test.req(t, &out)
			_, err = svc.Run(context.Background(), req)
			if test.expErr {
				assert.Error(t, err)
			} else {
				require.NoError(err)
				test.check(t, &out, req)
			}

			m.AssertExpectations(t)
		})
	}
}
