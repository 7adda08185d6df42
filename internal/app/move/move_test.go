package move_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/app/move"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func TestService_Run(t *testing.T) {
	week := func(w int) *int { return &w }
	recs := []model.Record{
		{"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11", "pull_plan_week": 2},
	}

	tests := map[string]struct {
		mock       func(m *storagemock.MockRepository)
		req        move.Request
		expWeek    int
		expChanged bool
		expErr     error
	}{
		"moving should persist only the week": {
			mock: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, "p1", "a", model.TaskUpdate{Week: week(4)}).Once().Return(nil)
			},
			req:        move.Request{ProjectID: "p1", TaskID: "a", Week: 4},
			expWeek:    4,
			expChanged: true,
		},
		"moving to the same week should not update anything": {
			mock:    func(m *storagemock.MockRepository) {},
			req:     move.Request{ProjectID: "p1", TaskID: "a", Week: 2},
			expWeek: 2,
		},
		"moving to week zero should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    move.Request{ProjectID: "p1", TaskID: "a", Week: 0},
			expErr: model.ErrNotValid,
		},
		"rejected moves should fail": {
			mock: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, "p1", "a", mock.Anything).Once().Return(model.ErrNotFound)
			},
			req:    move.Request{ProjectID: "p1", TaskID: "a", Week: 3},
			expErr: model.ErrUpdateRejected,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			m.On("ListTaskRecords", mock.Anything, "p1").Once().Return(recs, nil)
			test.mock(m)

			svc, err := move.NewService(move.ServiceConfig{Repository: m, Clock: func() time.Time { return time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) }})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), test.req)
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expWeek, resp.Task.Week)
				assert.Equal(test.expChanged, resp.Changed)
			}

			m.AssertExpectations(t)
		})
	}
}
