package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetTasks    = "Tasks"
	SheetPullPlan = "Pull Plan"
	SheetSummary  = "Summary"
)

var taskHeader = []any{
	"ID", "Name", "Start", "End", "Week", "Status", "Progress",
	"Expected", "Variance", "Duration (days)", "Distance", "Rate", "Overdue", "Risk",
	"Dependencies", "Constraints",
}

// WriteXLSX writes the snapshot as a spreadsheet workbook with a sheet for the
// task table, one for the pull-planning weeks and one for the summary.
func WriteXLSX(w io.Writer, s Snapshot) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetTasks); err != nil {
		return fmt.Errorf("could not rename sheet: %w", err)
	}
	for _, name := range []string{SheetPullPlan, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("could not create %q sheet: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create style: %w", err)
	}

	if err := writeTasks(f, s, bold); err != nil {
		return err
	}
	if err := writePullPlan(f, s, bold); err != nil {
		return err
	}
	if err := writeSummary(f, s, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("could not write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeTasks(f *excelize.File, s Snapshot, header int) error {
	if err := setRow(f, SheetTasks, 1, taskHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetTasks, 1, 1, header); err != nil {
		return err
	}

	row := 2
	for _, w := range s.Weeks {
		for _, t := range w.Tasks {
			values := []any{
				t.ID, t.Name, t.Start, t.End, w.Week, t.Status, t.Progress,
				t.ExpectedProgress, t.Variance, t.DurationDays, optional(t.Distance), optional(t.Rate),
				t.Overdue, t.Risk,
				strings.Join(t.Dependencies, ", "), strings.Join(t.Constraints, ", "),
			}
			if err := setRow(f, SheetTasks, row, values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(SheetTasks, "B", "B", 32)
}

func writePullPlan(f *excelize.File, s Snapshot, header int) error {
	if err := setRow(f, SheetPullPlan, 1, []any{"Week", "Window", "Task", "Status", "Constraints"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetPullPlan, 1, 1, header); err != nil {
		return err
	}

	row := 2
	for _, w := range s.Weeks {
		window := ""
		if w.Start != "" {
			window = w.Start + " / " + w.End
		}
		for _, t := range w.Tasks {
			if err := setRow(f, SheetPullPlan, row, []any{w.Label, window, t.Name, t.Status, strings.Join(t.Constraints, ", ")}); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(SheetPullPlan, "B", "C", 28)
}

func writeSummary(f *excelize.File, s Snapshot, header int) error {
	sum := s.Summary
	rows := [][]any{
		{"Project", s.ProjectID},
		{"Generated at", s.GeneratedAt.Format(time.RFC3339)},
		{"Total", sum.Total},
		{"Active", sum.Active},
		{"Completed", sum.Completed},
		{"Overdue", sum.Overdue},
		{"High risk", sum.HighRisk},
		{"Overall progress", sum.OverallProgress},
		{"Completion rate", sum.CompletionRate},
		{"Start", sum.Start},
		{"End", sum.End},
		{"Critical path", strings.Join(sum.CriticalPath, " > ")},
	}
	for i, r := range rows {
		if err := setRow(f, SheetSummary, i+1, r); err != nil {
			return err
		}
	}

	return f.SetColStyle(SheetSummary, "A", header)
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
