package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/bbschedule/internal/app/taskmetrics"
	"github.com/slok/bbschedule/internal/interaction"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

// JSONPrinter prints schedule information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// metricsOutput represents the metrics of a task.
type metricsOutput struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	DurationDays     float64  `json:"duration_days"`
	Distance         *float64 `json:"distance"`
	Rate             *float64 `json:"rate"`
	PercentComplete  int      `json:"percent_complete"`
	ExpectedProgress int      `json:"expected_progress"`
	Variance         int      `json:"progress_variance"`
	Overdue          bool     `json:"overdue"`
	Risk             string   `json:"risk"`
}

// dashboardOutput represents the aggregated project statistics.
type dashboardOutput struct {
	Total              int            `json:"total"`
	Active             int            `json:"active"`
	Completed          int            `json:"completed"`
	Overdue            int            `json:"overdue"`
	HighRisk           int            `json:"high_risk"`
	StatusDistribution map[string]int `json:"status_distribution"`
	OverallProgress    float64        `json:"overall_progress"`
	CompletionRate     float64        `json:"completion_rate"`
	Start              *time.Time     `json:"start"`
	End                *time.Time     `json:"end"`
	CriticalPath       []string       `json:"critical_path"`
}

// noticeOutput represents a user notice.
type noticeOutput struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTasks prints tasks in JSON format, shaped as task records.
func (j *JSONPrinter) PrintTasks(tasks []model.Task) error {
	recs := make([]model.Record, len(tasks))
	for i, t := range tasks {
		recs[i] = model.RecordFromTask(t)
	}
	return j.encode(recs)
}

// PrintTask prints a task record in JSON format.
func (j *JSONPrinter) PrintTask(task model.Task) error {
	return j.encode(model.RecordFromTask(task))
}

// PrintMetrics prints task metrics in JSON format. Not applicable values are null.
func (j *JSONPrinter) PrintMetrics(entries []taskmetrics.Entry) error {
	items := make([]metricsOutput, len(entries))
	for i, e := range entries {
		m := e.Metrics
		items[i] = metricsOutput{
			ID:               e.Task.ID,
			Name:             e.Task.Name,
			DurationDays:     m.DurationDays,
			PercentComplete:  m.PercentComplete,
			ExpectedProgress: m.ExpectedProgress,
			Variance:         m.Variance,
			Overdue:          m.Overdue,
			Risk:             string(m.Risk),
		}
		if m.HasDistance {
			items[i].Distance = &m.Distance
		}
		if m.HasRate {
			items[i].Rate = &m.Rate
		}
	}
	return j.encode(items)
}

// PrintDashboard prints the aggregated project statistics in JSON format.
func (j *JSONPrinter) PrintDashboard(stats metrics.DashboardStats) error {
	output := dashboardOutput{
		Total:              stats.Total,
		Active:             stats.Active,
		Completed:          stats.Completed,
		Overdue:            stats.Overdue,
		HighRisk:           stats.HighRisk,
		StatusDistribution: make(map[string]int, len(stats.StatusDistribution)),
		OverallProgress:    stats.OverallProgress,
		CompletionRate:     stats.CompletionRate,
		CriticalPath:       stats.CriticalPath,
	}
	for s, n := range stats.StatusDistribution {
		output.StatusDistribution[string(s)] = n
	}
	if output.CriticalPath == nil {
		output.CriticalPath = []string{}
	}
	if stats.Total > 0 {
		start, end := stats.Start.UTC(), stats.End.UTC()
		output.Start, output.End = &start, &end
	}

	return j.encode(output)
}

// PrintNotices prints the active notices in JSON format.
func (j *JSONPrinter) PrintNotices(notices []interaction.Notice) error {
	items := make([]noticeOutput, len(notices))
	for i, n := range notices {
		items[i] = noticeOutput{ID: n.ID, Level: string(n.Level), Message: n.Message, CreatedAt: n.CreatedAt.UTC()}
	}
	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}
