package google

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/slok/bbschedule/internal/log"
	"github.com/slok/bbschedule/internal/model"
)

// NewService returns a Calendar API service authorized with an OAuth client
// credentials file and a previously obtained user token, both JSON encoded.
func NewService(ctx context.Context, credentialsJSON, tokenJSON []byte) (*calendar.Service, error) {
	cfg, err := googleoauth.ConfigFromJSON(credentialsJSON, calendar.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client credentials: %w", err)
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(tokenJSON, tok); err != nil {
		return nil, fmt.Errorf("unable to decode token: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}
	return srv, nil
}

// PublisherConfig is the configuration of the Publisher.
type PublisherConfig struct {
	Service    *calendar.Service
	CalendarID string
	Logger     log.Logger
}

func (c *PublisherConfig) defaults() error {
	if c.Service == nil {
		return fmt.Errorf("calendar service is required")
	}
	if c.CalendarID == "" {
		c.CalendarID = "primary"
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "google.Publisher"})
	return nil
}

// Publisher publishes project tasks as calendar events, one event per task.
type Publisher struct {
	srv        *calendar.Service
	calendarID string
	logger     log.Logger
}

// NewPublisher returns a new Publisher.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Publisher{
		srv:        cfg.Service,
		calendarID: cfg.CalendarID,
		logger:     cfg.Logger,
	}, nil
}

// PublishResult counts what a publication did.
type PublishResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// Publish creates the events of new tasks and patches the events of changed
// ones. Events are found by their task and project extended properties.
func (p *Publisher) Publish(ctx context.Context, projectID string, tasks []model.Task, now time.Time) (PublishResult, error) {
	var res PublishResult
	for _, t := range tasks {
		target := EventFromTask(projectID, t, now)

		existing, err := p.find(ctx, projectID, t.ID)
		if err != nil {
			return res, fmt.Errorf("task %s: could not search event: %w", t.ID, err)
		}

		if existing == nil {
			if _, err := p.srv.Events.Insert(p.calendarID, target).Context(ctx).Do(); err != nil {
				return res, fmt.Errorf("task %s: could not create event: %w", t.ID, err)
			}
			res.Created++
			continue
		}

		patch := EventPatch(existing, target)
		if patch == nil {
			res.Unchanged++
			continue
		}
		if _, err := p.srv.Events.Patch(p.calendarID, existing.Id, patch).Context(ctx).Do(); err != nil {
			return res, fmt.Errorf("task %s: could not patch event: %w", t.ID, err)
		}
		res.Updated++
	}

	p.logger.Infof("Published %d tasks: %d created, %d updated, %d unchanged", len(tasks), res.Created, res.Updated, res.Unchanged)
	return res, nil
}

func (p *Publisher) find(ctx context.Context, projectID, taskID string) (*calendar.Event, error) {
	events, err := p.srv.Events.List(p.calendarID).
		PrivateExtendedProperty(
			fmt.Sprintf("%s=%s", PropertyTaskID, taskID),
			fmt.Sprintf("%s=%s", PropertyProjectID, projectID),
		).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) == 0 {
		return nil, nil
	}
	return events.Items[0], nil
}
