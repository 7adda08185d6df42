package printer

import (
	"fmt"
	"time"

	"github.com/slok/bbschedule/internal/model"
)

// RelativeDays returns a human-readable distance in calendar days from now.
// Examples: "today", "in 1 day", "3 days ago".
func RelativeDays(t, now time.Time) string {
	days := int(model.Day(t).Sub(model.Day(now)).Hours() / 24)

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "in 1 day"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

// FormatDate returns a task date in UTC, with the time only when it isn't midnight.
// Format: "2006-01-02" or "2006-01-02 15:04 UTC".
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Equal(model.Day(t)) {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04 UTC")
}

// FormatTimestamp returns a formatted timestamp string in UTC.
// Format: "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
