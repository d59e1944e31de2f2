package common

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDurationSince(t *testing.T) {
	tests := []struct {
		name   string
		since  time.Duration
		expect string
	}{
		{name: "sub-second", since: 200 * time.Millisecond, expect: "just now"},
		{name: "seconds", since: 42 * time.Second, expect: "42 seconds ago"},
		{name: "singular minute", since: time.Minute + time.Second, expect: "1 minute"},
		{name: "hours and minutes", since: 2*time.Hour + 5*time.Minute, expect: "2 hours, 5 minutes ago"},
		{name: "days", since: 49 * time.Hour, expect: "2 days, 1 hour ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatDurationSince(time.Now().Add(-tt.since))
			if !strings.Contains(result, strings.TrimSuffix(tt.expect, " ago")) {
				t.Errorf("FormatDurationSince(%v) = %q, want it to contain %q", tt.since, result, tt.expect)
			}
		})
	}
}
