package chart

import (
	"math"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// FormatNumber formats a number with grouped thousands and the given decimals.
func FormatNumber(v float64, decimals int) string {
	switch decimals {
	case 0:
		return numbers.Sprintf("%.0f", v)
	case 1:
		return numbers.Sprintf("%.1f", v)
	default:
		return numbers.Sprintf("%.2f", v)
	}
}

// FormatRate formats a production rate. Not applicable rates are formatted as an
// empty string so callers omit the label.
func FormatRate(rate float64, ok bool) string {
	if !ok || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ""
	}
	return FormatNumber(rate, 1) + "/day"
}

// FormatDays formats a duration in days.
func FormatDays(days float64) string {
	if days == math.Trunc(days) {
		return FormatNumber(days, 0) + "d"
	}
	return FormatNumber(days, 1) + "d"
}

func formatTick(t time.Time) string {
	return t.Format("Jan 02")
}

// textWidth estimates the rendered width of a text.
func textWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * 0.6
}

// fitText truncates a text so it fits a width.
func fitText(s string, width, size float64) string {
	if textWidth(s, size) <= width {
		return s
	}

	const ellipsis = "..."
	maxRunes := int(width/(size*0.6)) - len(ellipsis)
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if maxRunes >= len(runes) {
		return s
	}
	return string(runes[:maxRunes]) + ellipsis
}
