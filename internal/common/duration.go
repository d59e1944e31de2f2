package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatDurationSince formats how long ago a timestamp was, in a human
// readable way (e.g. "2 hours, 5 minutes ago").
func FormatDurationSince(t time.Time) string {
	d := time.Since(t)
	if d < time.Second {
		return "just now"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	appendPart := func(n int, unit string) {
		if n == 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", unit))
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
		}
	}

	appendPart(days, "day")
	appendPart(hours, "hour")
	if days == 0 {
		appendPart(minutes, "minute")
	}
	if days == 0 && hours == 0 {
		appendPart(seconds, "second")
	}

	return strings.Join(parts, ", ") + " ago"
}
