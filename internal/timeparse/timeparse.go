// Package timeparse converts spoken temporal fragments ("tomorrow",
// "2:30 PM", "2024-12-31") into absolute timestamps.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// formats is the fixed ladder tried after ISO-8601, most specific first.
var formats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04",
	"3:04 PM",
	"3:04PM",
}

// Resolve parses an explicit date/time string. The second return value is
// false when no format matched; callers must treat that as "could not
// understand time", never as the zero time.
func Resolve(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	// ISO-8601 first
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if ts, err := time.Parse(layout, text); err == nil {
			return ts, true
		}
	}

	for _, layout := range formats {
		if ts, err := time.Parse(layout, strings.ToUpper(text)); err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

var (
	timeOfDayRe = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`)
	monthDayRe  = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})\b`)

	weekdays = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}

	months = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}
)

// ResolveNatural parses free-form date phrases relative to now: "tomorrow",
// "next tuesday at 3 pm", "june 5". Returns false when the phrase is not
// understood.
func ResolveNatural(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return time.Time{}, false
	}

	// Explicit formats still win inside a phrase like "on 2024-12-31".
	// A bare clock reading carries no date and is anchored to today.
	if ts, ok := Resolve(text); ok {
		if ts.Year() == 0 {
			ts = time.Date(now.Year(), now.Month(), now.Day(),
				ts.Hour(), ts.Minute(), ts.Second(), 0, now.Location())
		}
		return ts, true
	}

	day := now
	haveDay := false

	switch {
	case strings.Contains(lower, "today"):
		haveDay = true
	case strings.Contains(lower, "tomorrow"):
		day = now.AddDate(0, 0, 1)
		haveDay = true
	default:
		for name, wd := range weekdays {
			if strings.Contains(lower, name) {
				days := (int(wd) - int(now.Weekday()) + 7) % 7
				if days == 0 {
					days = 7 // "tuesday" on a Tuesday means next week
				}
				day = now.AddDate(0, 0, days)
				haveDay = true
				break
			}
		}
		if !haveDay {
			if m := monthDayRe.FindStringSubmatch(lower); m != nil {
				dom, _ := strconv.Atoi(m[2])
				month := months[m[1]]
				year := now.Year()
				candidate := time.Date(year, month, dom, 0, 0, 0, 0, now.Location())
				if candidate.Before(now.Truncate(24 * time.Hour)) {
					candidate = candidate.AddDate(1, 0, 0)
				}
				day = candidate
				haveDay = true
			}
		}
	}

	hour, minute, haveTime := timeOfDay(lower)
	if !haveDay && !haveTime {
		return time.Time{}, false
	}
	if !haveTime {
		hour, minute = day.Hour(), day.Minute()
		if !strings.Contains(lower, "today") && day != now {
			hour, minute = 0, 0
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), true
}

// timeOfDay extracts an "at H[:MM] [am|pm]" clause
func timeOfDay(lower string) (hour, minute int, ok bool) {
	m := timeOfDayRe.FindStringSubmatch(lower)
	if m == nil {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return 0, 0, false
	}
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	return To24Hour(hour, m[3]), minute, true
}

// To24Hour converts a 12-hour clock reading to 24-hour: 12 PM stays 12,
// 12 AM becomes 0, other PM hours gain 12. An empty meridiem leaves the
// hour untouched.
func To24Hour(hour int, meridiem string) int {
	switch strings.ToLower(strings.TrimSpace(meridiem)) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}
