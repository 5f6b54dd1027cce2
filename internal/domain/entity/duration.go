package entity

import (
	"fmt"
	"strings"
	"time"
)

// DurationMillis converts an hours/minutes pair to the numeric duration
// backing the due-date computation
func DurationMillis(hours, minutes int) int64 {
	return (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute).Milliseconds()
}

// FormatDurationMillis renders a duration as the human-readable display
// string stored alongside the numeric value, e.g. "2 hours 30 minutes"
func FormatDurationMillis(millis int64) string {
	d := time.Duration(millis) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural(hours, "hour")))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, plural(minutes, "minute")))
	}
	if len(parts) == 0 {
		return "0 minutes"
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
