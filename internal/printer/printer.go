package printer

import (
	"github.com/slok/bbschedule/internal/app/taskmetrics"
	"github.com/slok/bbschedule/internal/interaction"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

// Printer knows how to print schedule information in different formats.
type Printer interface {
	PrintTasks(tasks []model.Task) error
	PrintTask(task model.Task) error
	PrintMetrics(entries []taskmetrics.Entry) error
	PrintDashboard(stats metrics.DashboardStats) error
	PrintNotices(notices []interaction.Notice) error
	PrintMessage(msg string) error
}
