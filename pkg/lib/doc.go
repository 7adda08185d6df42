// Package lib provides a Go SDK for bbschedule construction schedules.
//
// It lets applications import tasks, compute progress metrics, render charts
// and edit the schedule without shelling out to the bbschedule CLI.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Load a schedule and look at it.
//	client.ImportFile(ctx, "tower-a", "schedule.yaml", false)
//	tasks, _ := client.ListTasks(ctx, "tower-a", nil)
//	stats, _ := client.Dashboard(ctx, "tower-a")
//
//	// Edit it.
//	client.ShiftTask(ctx, "tower-a", tasks[0].ID, 2)
//	client.MoveTask(ctx, "tower-a", tasks[0].ID, 3)
//
//	// Render a Gantt chart.
//	client.Render(ctx, "tower-a", lib.ChartGantt, lib.ChartFormatSVG, os.Stdout)
//
// # Storage
//
// Projects are stored on a SQLite database, by default ~/.bbschedule/bbschedule.db.
// Set [Config].Storage to [StorageMemory] for tests and throwaway schedules.
//
// # Errors
//
// Errors can be checked with [errors.Is]:
//
//   - [ErrNotFound]: The task does not exist.
//   - [ErrAlreadyExists]: A task with the same ID exists.
//   - [ErrNotValid]: Invalid input, like an empty name, a week below 1 or a
//     malformed record on a strict import.
//   - [ErrRejected]: The storage rejected a schedule change.
package lib
