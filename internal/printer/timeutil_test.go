package printer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bbschedule/internal/printer"
)

func TestRelativeDays(t *testing.T) {
	now := time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		time     time.Time
		expected string
	}{
		"same day": {
			time:     time.Date(2024, 1, 5, 1, 0, 0, 0, time.UTC),
			expected: "today",
		},
		"next day even if less than 24h": {
			time:     time.Date(2024, 1, 6, 1, 0, 0, 0, time.UTC),
			expected: "in 1 day",
		},
		"some days later": {
			time:     time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			expected: "in 7 days",
		},
		"previous day": {
			time:     time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
			expected: "1 day ago",
		},
		"some days before": {
			time:     time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			expected: "5 days ago",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, printer.RelativeDays(test.time, now))
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := map[string]struct {
		time     time.Time
		expected string
	}{
		"midnight is a date": {
			time:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			expected: "2024-01-05",
		},
		"hours are kept": {
			time:     time.Date(2024, 1, 5, 13, 30, 0, 0, time.UTC),
			expected: "2024-01-05 13:30 UTC",
		},
		"other zones are converted to UTC": {
			time:     time.Date(2024, 1, 5, 1, 0, 0, 0, time.FixedZone("CET", 3600)),
			expected: "2024-01-05",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, printer.FormatDate(test.time))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-30 10:00:00 UTC", printer.FormatTimestamp(ts))
}
