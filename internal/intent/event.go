package intent

import (
	"errors"
	"time"
)

// Validation errors for calendar event parameters. The message text is
// part of the user-facing contract: it is spoken back verbatim.
var (
	ErrNoTitle     = errors.New("No event title provided")
	ErrNoStartTime = errors.New("Could not understand the start time. Please specify when the event should start.")
	ErrEndNotAfter = errors.New("End time must be after start time")
)

// EventParams are the resolved parameters for one calendar event
type EventParams struct {
	Summary     string
	Start       time.Time
	End         time.Time
	Description string
	Attendees   []string
}

// Validate checks required fields and fills defaults: a missing end time
// becomes start + 1 hour. An end at or before the start is rejected, not
// silently corrected.
func (p *EventParams) Validate() error {
	if p.Summary == "" {
		return ErrNoTitle
	}
	if p.Start.IsZero() {
		return ErrNoStartTime
	}
	if p.End.IsZero() {
		p.End = p.Start.Add(time.Hour)
	}
	if !p.End.After(p.Start) {
		return ErrEndNotAfter
	}
	return nil
}
