package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration is shown when a feed gives no usable duration.
const DefaultDuration = "02:00"

var leadingDigits = regexp.MustCompile(`^\d+`)

// FormatDuration normalizes a feed duration for display.
//
// Values containing a colon are kept as they are, except that an H:MM:SS
// value with a zero hour collapses to MM:SS. Anything else is read as a count
// of seconds and rendered as MM:SS, or H:MM:SS from one hour upwards.
func FormatDuration(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "undefined" || raw == "null" {
		return DefaultDuration
	}

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 {
			return raw
		}
		hours, errH := strconv.Atoi(parts[0])
		minutes, errM := strconv.Atoi(parts[1])
		seconds, errS := strconv.Atoi(parts[2])
		if errH != nil || errM != nil || errS != nil || hours != 0 {
			return raw
		}
		return fmt.Sprintf("%02d:%02d", minutes, seconds)
	}

	digits := leadingDigits.FindString(raw)
	if digits == "" {
		return DefaultDuration
	}
	total, err := strconv.Atoi(digits)
	if err != nil {
		return DefaultDuration
	}
	return FormatSeconds(total)
}

// FormatSeconds renders a second count as MM:SS or H:MM:SS.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	minutes := total / 60
	seconds := total % 60
	if minutes >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", minutes/60, minutes%60, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatClock is FormatSeconds for a time.Duration, truncated to the second.
func FormatClock(d time.Duration) string {
	return FormatSeconds(int(d / time.Second))
}

// ParseDuration converts a display duration ("MM:SS", "H:MM:SS" or plain
// seconds) back into a time.Duration. Unparseable input yields zero.
func ParseDuration(display string) time.Duration {
	display = strings.TrimSpace(display)
	if display == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(display); err == nil {
		return time.Duration(seconds) * time.Second
	}

	parts := strings.Split(display, ":")
	var hours, minutes, seconds int
	var err error

	switch len(parts) {
	case 2:
		if minutes, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if seconds, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0
		}
		if minutes, err = strconv.Atoi(parts[1]); err != nil {
			return 0
		}
		if seconds, err = strconv.Atoi(parts[2]); err != nil {
			return 0
		}
	default:
		return 0
	}

	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
}
