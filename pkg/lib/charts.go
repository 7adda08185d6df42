package lib

import (
	"context"
	"fmt"
	"io"

	"github.com/slok/bbschedule/internal/app/dashboard"
	appexport "github.com/slok/bbschedule/internal/app/export"
	"github.com/slok/bbschedule/internal/app/render"
	"github.com/slok/bbschedule/internal/app/taskmetrics"
	"github.com/slok/bbschedule/internal/chart"
)

// Metrics returns the derived metrics of the project tasks in project order.
func (c *Client) Metrics(ctx context.Context, projectID string) ([]TaskMetrics, error) {
	svc, err := taskmetrics.NewService(taskmetrics.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	entries, err := svc.Run(ctx, taskmetrics.Request{ProjectID: projectID})
	if err != nil {
		return nil, mapError(err)
	}

	result := make([]TaskMetrics, len(entries))
	for i, e := range entries {
		result[i] = fromInternalMetrics(e.Metrics)
	}
	return result, nil
}

// Dashboard returns the project summary statistics.
func (c *Client) Dashboard(ctx context.Context, projectID string) (*DashboardStats, error) {
	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, dashboard.Request{ProjectID: projectID})
	if err != nil {
		return nil, mapError(err)
	}

	stats := fromInternalDashboard(res.Stats)
	return &stats, nil
}

// Render writes a chart of the project tasks with the default style.
func (c *Client) Render(ctx context.Context, projectID string, kind ChartKind, format ChartFormat, w io.Writer) error {
	k, err := chart.ParseKind(string(kind))
	if err != nil {
		return fmt.Errorf("%w: %w", err, ErrNotValid)
	}
	f, err := render.ParseFormat(string(format))
	if err != nil {
		return fmt.Errorf("%w: %w", err, ErrNotValid)
	}

	svc, err := render.NewService(render.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, render.Request{ProjectID: projectID, Kind: k, Format: f, Out: w})
	return mapError(err)
}

// Export writes a snapshot of the project tasks grouped by pull-planning week
// with their metrics.
func (c *Client) Export(ctx context.Context, projectID string, format ExportFormat, w io.Writer) error {
	f, err := appexport.ParseFormat(string(format))
	if err != nil {
		return fmt.Errorf("%w: %w", err, ErrNotValid)
	}

	svc, err := appexport.NewService(appexport.ServiceConfig{
		Repository: c.repo,
		Clock:      c.clock,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, appexport.Request{ProjectID: projectID, Format: f, Out: w})
	return mapError(err)
}
