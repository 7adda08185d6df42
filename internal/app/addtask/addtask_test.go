package addtask_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/app/addtask"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/storage/storagemock"
)

func TestService_Run(t *testing.T) {
	now := time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		mock   func(m *storagemock.MockRepository)
		req    addtask.Request
		exp    model.Task
		expErr error
	}{
		"a task should be scheduled at the start of its week": {
			mock: func(m *storagemock.MockRepository) {
				m.On("CreateTask", mock.Anything, "p1", mock.MatchedBy(func(t model.Task) bool {
					return t.Name == "Roofing" && t.Week == 3
				})).Once().Return(nil)
			},
			req: addtask.Request{ProjectID: "p1", Task: model.NewTask{Name: " Roofing ", DurationDays: 4, Week: 3, Constraints: []string{"crane"}}},
			exp: model.Task{
				Name:         "Roofing",
				Start:        time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC),
				End:          time.Date(2024, 1, 23, 0, 0, 0, 0, time.UTC),
				Status:       model.TaskStatusNotStarted,
				Week:         3,
				Dependencies: []string{},
				Constraints:  []string{"crane"},
			},
		},
		"a task without week should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    addtask.Request{ProjectID: "p1", Task: model.NewTask{Name: "Roofing"}},
			expErr: model.ErrNotValid,
		},
		"a task without name should fail": {
			mock:   func(m *storagemock.MockRepository) {},
			req:    addtask.Request{ProjectID: "p1", Task: model.NewTask{Week: 1}},
			expErr: model.ErrNotValid,
		},
		"repository errors should fail": {
			mock: func(m *storagemock.MockRepository) {
				m.On("CreateTask", mock.Anything, "p1", mock.Anything).Once().Return(errors.New("boom"))
			},
			req:    addtask.Request{ProjectID: "p1", Task: model.NewTask{Name: "Roofing", Week: 1}},
			expErr: errors.New("boom"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := &storagemock.MockRepository{}
			test.mock(m)

			svc, err := addtask.NewService(addtask.ServiceConfig{Repository: m, Clock: func() time.Time { return now }})
			require.NoError(err)

			got, err := svc.Run(context.Background(), test.req)
			switch {
			case test.expErr == nil:
				require.NoError(err)
				assert.Len(got.ID, 26)
				got.ID = ""
				assert.Equal(test.exp, *got)
			case errors.Is(test.expErr, model.ErrNotValid):
				assert.ErrorIs(err, model.ErrNotValid)
			default:
				assert.Error(err)
			}

			m.AssertExpectations(t)
		})
	}
}
