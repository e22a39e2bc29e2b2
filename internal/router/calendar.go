package router

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jarvis/internal/extract"
	"jarvis/internal/intent"
	"jarvis/internal/timeparse"
)

var (
	queryVerbs    = []string{"check", "show", "list", "what", "when", "see", "view", "display"}
	creationVerbs = []string{"schedule", "create", "add", "set up", "book"}
	deletionVerbs = []string{"delete", "remove", "cancel"}

	datePhraseRe = regexp.MustCompile(`(?:on|for|at)\s+([^,]+)`)
	timePhraseRe = regexp.MustCompile(`at\s+(\d{1,2})(?::(\d{2}))?\s*(AM|PM|am|pm)?`)
)

// handleCalendar routes a calendar-flagged utterance to a query,
// creation, or deletion path.
func (d *Dispatcher) handleCalendar(ctx context.Context, command string) string {
	switch {
	case intent.ContainsAny(command, queryVerbs):
		return d.listEvents(ctx, command)
	case intent.ContainsAny(command, creationVerbs):
		return d.createEvent(ctx, command)
	case intent.ContainsAny(command, deletionVerbs):
		return d.deleteEvent(ctx, command)
	}
	return "I can help you check your calendar, schedule events, or delete events. What would you like to do?"
}

// listEvents picks a time window from the phrasing and renders an empty
// listing as a window-specific sentence.
func (d *Dispatcher) listEvents(ctx context.Context, command string) string {
	type window struct {
		word  string
		max   int
		label string
		fetch func(context.Context, int) (string, error)
	}

	windows := []window{
		{"tomorrow", 10, "tomorrow", d.calendar.EventsForTomorrow},
		{"today", 10, "today", d.calendar.EventsForToday},
		{"week", 30, "this week", d.calendar.EventsForWeek},
		{"month", 100, "this month", d.calendar.EventsForMonth},
	}

	for _, w := range windows {
		if !strings.Contains(command, w.word) {
			continue
		}
		events, err := w.fetch(ctx, w.max)
		if err != nil {
			return fmt.Sprintf("Error fetching events: %v", err)
		}
		if strings.Contains(events, "No events found") {
			return fmt.Sprintf("You have no events scheduled for %s.", w.label)
		}
		return fmt.Sprintf("Here are your events for %s:\n%s", w.label, events)
	}

	events, err := d.calendar.UpcomingEvents(ctx, 5)
	if err != nil {
		return fmt.Sprintf("Error fetching events: %v", err)
	}
	if strings.Contains(events, "No upcoming events found") {
		return "You have no upcoming events scheduled."
	}
	return fmt.Sprintf("Here are your upcoming events:\n%s", events)
}

// createEvent extracts title, date, time, and attendees from the
// phrasing. An unparsable date falls back to now + 1 day; the end time
// is always start + 1 hour.
func (d *Dispatcher) createEvent(ctx context.Context, command string) string {
	now := time.Now()
	start := now.AddDate(0, 0, 1)

	if m := datePhraseRe.FindStringSubmatch(command); m != nil {
		if ts, ok := timeparse.ResolveNatural(m[1], now); ok {
			start = ts
		}
	}

	if m := timePhraseRe.FindStringSubmatch(command); m != nil {
		hour, err := strconv.Atoi(m[1])
		if err == nil && hour <= 23 {
			minute := 0
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			hour = timeparse.To24Hour(hour, m[3])
			start = time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, start.Location())
		}
	}

	params := intent.EventParams{
		Summary:     extract.Title(command, creationVerbs),
		Start:       start,
		End:         start.Add(time.Hour),
		Description: "Created by Jarvis",
		Attendees:   extract.Emails(command),
	}

	msg, err := d.calendar.CreateEvent(ctx, params)
	if err != nil {
		return fmt.Sprintf("Error creating event: %v", err)
	}
	return msg
}

// deleteEvent asks for clarification when no title follows the verb
func (d *Dispatcher) deleteEvent(ctx context.Context, command string) string {
	title, ok := extract.TitleAfter(command, deletionVerbs)
	if !ok {
		return "Please specify which event to delete."
	}

	msg, err := d.calendar.DeleteEvent(ctx, title)
	if err != nil {
		return fmt.Sprintf("Error deleting event: %v", err)
	}
	return msg
}
