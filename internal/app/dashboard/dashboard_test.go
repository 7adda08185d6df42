package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/app/dashboard"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func TestService_Run(t *testing.T) {
	now := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		mock   func(m *storagemock.MockRepository)
		exp    func(t *testing.T, resp *dashboard.Response)
		expErr bool
	}{
		"stats should be aggregated over the valid tasks": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTaskRecords", mock.Anything, "p1").Once().Return([]model.Record{
					{"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-04", "progress": 100, "status": "completed"},
					{"id": "b", "name": "Foundation", "start_date": "2024-01-04", "end_date": "2024-01-05", "progress": 20, "status": "in_progress", "dependencies": "a"},
					{"id": "c", "name": "Framing", "start_date": "2024-01-05", "end_date": "2024-01-20", "dependencies": []any{"b"}},
					{"id": "d", "name": "Broken"},
				}, nil)
			},
			exp: func(t *testing.T, resp *dashboard.Response) {
				assert := assert.New(t)
				s := resp.Stats
				assert.Equal(1, resp.Dropped)
				assert.Equal(3, s.Total)
				assert.Equal(1, s.Active)
				assert.Equal(1, s.Completed)
				assert.Equal(1, s.Overdue)
				assert.Equal(40.0, s.OverallProgress)
				assert.InDelta(33.33, s.CompletionRate, 0.01)
				assert.Equal(1, s.StatusDistribution[model.TaskStatusNotStarted])
				assert.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.Start)
				assert.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), s.End)
				assert.Equal([]string{"a", "b", "c"}, s.CriticalPath)
			},
		},
		"empty projects should have zero stats": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTaskRecords", mock.Anything, "p1").Once().Return([]model.Record{}, nil)
			},
			exp: func(t *testing.T, resp *dashboard.Response) {
				assert.Equal(t, 0, resp.Stats.Total)
				assert.Equal(t, 0.0, resp.Stats.CompletionRate)
			},
		},
		"repository errors should fail": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTaskRecords", mock.Anything, "p1").Once().Return(nil, errors.New("boom"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			m := &storagemock.MockRepository{}
			test.mock(m)

			svc, err := dashboard.NewService(dashboard.ServiceConfig{Repository: m, Clock: func() time.Time { return now }})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), dashboard.Request{ProjectID: "p1"})
			if test.expErr {
				assert.Error(t, err)
			} else {
				require.NoError(err)
				test.exp(t, resp)
			}

			m.AssertExpectations(t)
		})
	}
}
