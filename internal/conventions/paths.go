package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default bbschedule data directory name (relative to home).
	DefaultDataDir = ".bbschedule"
	// DBFile is the SQLite database filename.
	DBFile = "bbschedule.db"
	// HistoryFile is the interactive session history filename.
	HistoryFile = "session_history"
	// ChartConfigFile is the optional chart style filename.
	ChartConfigFile = "chart.yaml"

	// DefaultProject is the project used when none is selected.
	DefaultProject = "default"
	// DefaultCalendarID is the Google calendar used when none is selected.
	DefaultCalendarID = "primary"
)

// DataDir returns the bbschedule data directory inside a home directory.
func DataDir(home string) string {
	return filepath.Join(home, DefaultDataDir)
}

// DBPath returns the database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// HistoryPath returns the session history path inside a data directory.
func HistoryPath(dataDir string) string {
	return filepath.Join(dataDir, HistoryFile)
}

// ChartConfigPath returns the chart style path inside a data directory.
func ChartConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ChartConfigFile)
}
