package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/slok/bbschedule/internal/calendar/google"
	"github.com/slok/bbschedule/internal/model"
)

// fakeCalendar is an in memory Calendar API events endpoint.
type fakeCalendar struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	inserts int
	patches int
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const prefix = "/calendars/primary/events"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	eventID := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")

	switch {
	case r.Method == http.MethodGet && eventID == "":
		items := []*calendar.Event{}
		props := r.URL.Query()["privateExtendedProperty"]
		for _, ev := range f.events {
			if matches(ev, props) {
				items = append(items, ev)
			}
		}
		_ = json.NewEncoder(w).Encode(calendar.Events{Items: items})

	case r.Method == http.MethodPost && eventID == "":
		ev := &calendar.Event{}
		_ = json.NewDecoder(r.Body).Decode(ev)
		priv := ev.ExtendedProperties.Private
		ev.Id = "ev-" + priv[google.PropertyProjectID] + "-" + priv[google.PropertyTaskID]
		f.events[ev.Id] = ev
		f.inserts++
		_ = json.NewEncoder(w).Encode(ev)

	case r.Method == http.MethodPatch && eventID != "":
		ev, ok := f.events[eventID]
		if !ok {
			http.NotFound(w, r)
			return
		}
		patch := &calendar.Event{}
		_ = json.NewDecoder(r.Body).Decode(patch)
		if patch.Summary != "" {
			ev.Summary = patch.Summary
		}
		if patch.Start != nil {
			ev.Start, ev.End = patch.Start, patch.End
		}
		f.patches++
		_ = json.NewEncoder(w).Encode(ev)

	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func matches(ev *calendar.Event, props []string) bool {
	for _, p := range props {
		k, v, _ := strings.Cut(p, "=")
		if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private[k] != v {
			return false
		}
	}
	return true
}

func newPublisher(t *testing.T, fake *fakeCalendar) *google.Publisher {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	p, err := google.NewPublisher(google.PublisherConfig{Service: svc})
	require.NoError(t, err)
	return p
}

func TestPublisherPublish(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	fake := &fakeCalendar{events: map[string]*calendar.Event{}}
	p := newPublisher(t, fake)

	tasks := []model.Task{
		{ID: "1", Name: "Excavation", Start: date(1), End: date(11), Progress: 100, Status: model.TaskStatusCompleted},
		{ID: "2", Name: "Foundation", Start: date(11), End: date(21), Progress: 40, Status: model.TaskStatusInProgress},
	}

	res, err := p.Publish(ctx, "p1", tasks, now)
	require.NoError(err)
	assert.Equal(google.PublishResult{Created: 2}, res)

	// Republishing the same tasks does nothing.
	res, err = p.Publish(ctx, "p1", tasks, now)
	require.NoError(err)
	assert.Equal(google.PublishResult{Unchanged: 2}, res)

	// A shifted task is patched.
	tasks[1].Start, tasks[1].End = date(13), date(23)
	res, err = p.Publish(ctx, "p1", tasks, now)
	require.NoError(err)
	assert.Equal(google.PublishResult{Updated: 1, Unchanged: 1}, res)
	assert.Equal("2024-01-13", fake.events["ev-p1-2"].Start.Date)

	// Same task ids on another project are other events.
	res, err = p.Publish(ctx, "p2", tasks[:1], now)
	require.NoError(err)
	assert.Equal(google.PublishResult{Created: 1}, res)
	assert.Equal(3, fake.inserts)
	assert.Equal(1, fake.patches)
}

func TestPublisherPublishError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, err := calendar.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	p, err := google.NewPublisher(google.PublisherConfig{Service: svc})
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), "p1", []model.Task{{ID: "1", Name: "A", Start: date(1), End: date(2)}}, now)
	assert.Error(t, err)
}

func TestNewPublisherInvalidConfig(t *testing.T) {
	_, err := google.NewPublisher(google.PublisherConfig{})
	assert.Error(t, err)
}
