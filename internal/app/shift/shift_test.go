package shift_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/app/shift"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func records() []model.Record {
	return []model.Record{
		{"id": "a", "name": "Excavation", "start_date": "2024-01-01", "end_date": "2024-01-11"},
		{"id": "b", "name": "Foundation", "start_date": "2024-01-11", "end_date": "2024-01-21"},
	}
}

func TestNewService(t *testing.T) {
	_, err := shift.NewService(shift.ServiceConfig{})
	assert.Error(t, err)

	svc, err := shift.NewService(shift.ServiceConfig{Repository: &storagemock.MockRepository{}})
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestService_Run(t *testing.T) {
	ptr := func(t time.Time) *time.Time { return &t }

	tests := map[string]struct {
		mock       func(m *storagemock.MockRepository)
		exact      bool
		req        shift.Request
		expStart   time.Time
		expEnd     time.Time
		expChanged bool
		expErr     error
	}{
		"shifting should persist the new window": {
			mock: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, "p1", "b", model.TaskUpdate{Start: ptr(day(14)), End: ptr(day(24))}).Once().Return(nil)
			},
			req:        shift.Request{ProjectID: "p1", TaskID: "b", Days: 3},
			expStart:   day(14),
			expEnd:     day(24),
			expChanged: true,
		},
		"fractional days should snap to whole days": {
			mock: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, "p1", "a", model.TaskUpdate{Start: ptr(day(3)), End: ptr(day(13))}).Once().Return(nil)
			},
			req:        shift.Request{ProjectID: "p1", TaskID: "a", Days: 1.7},
			expStart:   day(3),
			expEnd:     day(13),
			expChanged: true,
		},
		"exact shifts should keep the hours": {
			mock: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, "p1", "a", mock.Anything).Once().Return(nil)
			},
			exact:      true,
			req:        shift.Request{ProjectID: "p1", TaskID: "a", Days: 0.5},
			expStart:   day(1).Add(12 * time.Hour),
			expEnd:     day(11).Add(12 * time.Hour),
			expChanged: true,
		},
		"tiny shifts should not update anything": {
			mock:     func(m *storagemock.MockRepository) {},
			req:      shift.Request{ProjectID: "p1", TaskID: "a", Days: 0.1},
			expStart: day(1),
			expEnd:   day(11),
		},
		"rejected updates should fail": {
			mock: func(m *storagemock.MockRepository) {
				m.On("UpdateTask", mock.Anything, "p1", "a", mock.Anything).Once().Return(errors.New("locked"))
			},
			req:    shift.Request{ProjectID: "p1", TaskID: "a", Days: 2},
			expErr: model.ErrUpdateRejected,
		},
		"missing tasks should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    shift.Request{ProjectID: "p1", TaskID: "z", Days: 2},
			expErr: model.ErrNotFound,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			m.On("ListTaskRecords", mock.Anything, "p1").Once().Return(records(), nil)
			test.mock(m)

			svc, err := shift.NewService(shift.ServiceConfig{
				Repository: m,
				ExactShift: test.exact,
				Clock:      func() time.Time { return day(5) },
			})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), test.req)
			if test.expErr != nil {
				assert.ErrorIs(err, test.expErr)
			} else if assert.NoError(err) {
				assert.Equal(test.expChanged, resp.Changed)
				assert.WithinDuration(test.expStart, resp.Task.Start, time.Millisecond)
				assert.WithinDuration(test.expEnd, resp.Task.End, time.Millisecond)
			}

			m.AssertExpectations(t)
		})
	}
}
