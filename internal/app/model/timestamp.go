package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timestampPattern = regexp.MustCompile(`^(?:(\d{1,2}):)?([0-5]?\d):([0-5]\d)$`)

// FormatTimestamp renders seconds as "MM:SS", or "H:MM:SS" past one hour.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseTimestamp converts "MM:SS" or "HH:MM:SS" to seconds. A topic at
// "00:08:03" yields exactly 483.
func ParseTimestamp(ts string) (float64, error) {
	m := timestampPattern.FindStringSubmatch(strings.TrimSpace(ts))
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}
	var hours int
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return float64(hours*3600 + minutes*60 + seconds), nil
}
