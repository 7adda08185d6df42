package taskmetrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/app/taskmetrics"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func TestService_Run(t *testing.T) {
	now := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	recs := []model.Record{
		{"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11", "progress": 50, "station_start": 0, "station_end": 200, "status": "in_progress"},
		{"id": "b", "name": "Framing", "start_date": "2024-01-01", "end_date": "2024-01-05", "progress": 20, "status": "in_progress"},
	}

	tests := map[string]struct {
		req    taskmetrics.Request
		exp    []metrics.TaskMetrics
		expErr error
	}{
		"all tasks should have metrics": {
			req: taskmetrics.Request{ProjectID: "p1"},
			exp: []metrics.TaskMetrics{
				{
					TaskID: "a", DurationDays: 10, Distance: 200, HasDistance: true, Rate: 20, HasRate: true,
					PercentComplete: 50, ExpectedProgress: 50, Variance: 0, Risk: metrics.RiskLevelLow,
				},
				{
					TaskID: "b", DurationDays: 4, PercentComplete: 20, ExpectedProgress: 100, Variance: -80,
					Overdue: true, Risk: metrics.RiskLevelHigh,
				},
			},
		},
		"a single task should be filtered": {
			req: taskmetrics.Request{ProjectID: "p1", TaskID: "b"},
			exp: []metrics.TaskMetrics{
				{
					TaskID: "b", DurationDays: 4, PercentComplete: 20, ExpectedProgress: 100, Variance: -80,
					Overdue: true, Risk: metrics.RiskLevelHigh,
				},
			},
		},
		"a missing task should fail": {
			req:    taskmetrics.Request{ProjectID: "p1", TaskID: "z"},
			expErr: model.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			m.On("ListTaskRecords", mock.Anything, "p1").Once().Return(recs, nil)

			svc, err := taskmetrics.NewService(taskmetrics.ServiceConfig{
				Repository: m,
				Clock:      func() time.Time { return now },
			})
			require.NoError(err)

			entries, err := svc.Run(context.Background(), test.req)
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				got := []metrics.TaskMetrics{}
				for _, e := range entries {
					got = append(got, e.Metrics)
				}
				assert.Equal(test.exp, got)
			}

			m.AssertExpectations(t)
		})
	}
}
