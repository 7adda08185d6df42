package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/slok/bbschedule/internal/app/taskmetrics"
	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/interaction"
	"github.com/slok/bbschedule/internal/metrics"
	"github.com/slok/bbschedule/internal/model"
)

// TablePrinter prints schedule information in a table format.
type TablePrinter struct {
	writer io.Writer
	clock  func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, clock: time.Now}
}

// WithClock sets the clock used for relative dates.
func (t *TablePrinter) WithClock(clock func() time.Time) *TablePrinter {
	t.clock = clock
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func week(w int) string {
	if w == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", w)
}

// PrintTasks prints tasks in a table format.
func (t *TablePrinter) PrintTasks(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tDURATION\tPROGRESS\tSTATUS\tWEEK\tDEPENDS ON")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\t%s\t%s\n",
			task.ID,
			task.Name,
			FormatDate(task.Start),
			FormatDate(task.End),
			chart.FormatDays(metrics.Duration(task)),
			task.Progress,
			task.Status,
			week(task.Week),
			orDash(strings.Join(task.Dependencies, ",")),
		)
	}

	return nil
}

// PrintTask prints a detailed task.
func (t *TablePrinter) PrintTask(task model.Task) error {
	now := t.clock()
	fmt.Fprintf(t.writer, "ID:          %s\n", task.ID)
	fmt.Fprintf(t.writer, "Name:        %s\n", task.Name)
	fmt.Fprintf(t.writer, "Status:      %s\n", task.Status)
	fmt.Fprintf(t.writer, "Start:       %s (%s)\n", FormatDate(task.Start), RelativeDays(task.Start, now))
	fmt.Fprintf(t.writer, "End:         %s (%s)\n", FormatDate(task.End), RelativeDays(task.End, now))
	fmt.Fprintf(t.writer, "Progress:    %d%%\n", task.Progress)

	if task.HasLocation() {
		fmt.Fprintf(t.writer, "Location:    %s - %s\n", chart.FormatNumber(*task.LocationStart, 1), chart.FormatNumber(*task.LocationEnd, 1))
	}
	if task.Week > 0 {
		fmt.Fprintf(t.writer, "Week:        %d\n", task.Week)
	}
	if len(task.Dependencies) > 0 {
		fmt.Fprintf(t.writer, "Depends on:  %s\n", strings.Join(task.Dependencies, ", "))
	}
	if len(task.Constraints) > 0 {
		fmt.Fprintf(t.writer, "Constraints: %s\n", strings.Join(task.Constraints, ", "))
	}

	return nil
}

// PrintMetrics prints task metrics in a table format.
func (t *TablePrinter) PrintMetrics(entries []taskmetrics.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tDURATION\tDISTANCE\tRATE\tPROGRESS\tEXPECTED\tVARIANCE\tOVERDUE\tRISK")
	for _, e := range entries {
		m := e.Metrics
		distance := ""
		if m.HasDistance {
			distance = chart.FormatNumber(m.Distance, 1)
		}
		overdue := "no"
		if m.Overdue {
			overdue = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%d%%\t%+d\t%s\t%s\n",
			e.Task.ID,
			e.Task.Name,
			chart.FormatDays(m.DurationDays),
			orDash(distance),
			orDash(chart.FormatRate(m.Rate, m.HasRate)),
			m.PercentComplete,
			m.ExpectedProgress,
			m.Variance,
			overdue,
			m.Risk,
		)
	}

	return nil
}

// PrintDashboard prints the aggregated project statistics.
func (t *TablePrinter) PrintDashboard(stats metrics.DashboardStats) error {
	fmt.Fprintf(t.writer, "Tasks:            %d\n", stats.Total)
	fmt.Fprintf(t.writer, "Active:           %d\n", stats.Active)
	fmt.Fprintf(t.writer, "Completed:        %d\n", stats.Completed)
	fmt.Fprintf(t.writer, "Overdue:          %d\n", stats.Overdue)
	fmt.Fprintf(t.writer, "High risk:        %d\n", stats.HighRisk)
	fmt.Fprintf(t.writer, "Overall progress: %s%%\n", chart.FormatNumber(stats.OverallProgress, 1))
	fmt.Fprintf(t.writer, "Completion rate:  %s%%\n", chart.FormatNumber(stats.CompletionRate, 1))

	if stats.Total > 0 {
		fmt.Fprintf(t.writer, "Window:           %s - %s\n", FormatDate(stats.Start), FormatDate(stats.End))
	}

	fmt.Fprintln(t.writer, "\nStatus:")
	for _, s := range model.TaskStatuses {
		fmt.Fprintf(t.writer, "  %-12s %d\n", s, stats.StatusDistribution[s])
	}

	if len(stats.CriticalPath) > 0 {
		fmt.Fprintf(t.writer, "\nCritical path:    %s\n", strings.Join(stats.CriticalPath, " > "))
	}

	return nil
}

// PrintNotices prints the active notices, one per line.
func (t *TablePrinter) PrintNotices(notices []interaction.Notice) error {
	for _, n := range notices {
		fmt.Fprintf(t.writer, "[%s] %s\n", n.Level, n.Message)
	}
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
