package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"jarvis/internal/intent"
	"jarvis/internal/journal"
)

type scriptedParser struct {
	desc intent.Descriptor
}

func (p *scriptedParser) Parse(_ context.Context, _ string) intent.Descriptor {
	return p.desc
}

type recordingRouter struct {
	commands []string
	reply    string
}

func (r *recordingRouter) Handle(_ context.Context, command string) string {
	r.commands = append(r.commands, command)
	if r.reply != "" {
		return r.reply
	}
	return "Sorry, I didn't understand that command."
}

type recordingCalendar struct {
	created []intent.EventParams
	err     error
}

func (c *recordingCalendar) CreateEvent(_ context.Context, p intent.EventParams) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.created = append(c.created, p)
	return "The event '" + p.Summary + "' has been created", nil
}

type recordingJournal struct {
	entries []journal.Entry
}

func (j *recordingJournal) Record(_ context.Context, e journal.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

func newTestEngine(desc intent.Descriptor) (*Engine, *recordingRouter, *recordingCalendar, *recordingJournal) {
	router := &recordingRouter{}
	cal := &recordingCalendar{}
	jr := &recordingJournal{}
	e := NewEngine(&scriptedParser{desc: desc}, router, cal, jr)
	e.now = func() time.Time { return time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC) }
	return e, router, cal, jr
}

func calendarCreate(params map[string]any) intent.Descriptor {
	desc := intent.NewDescriptor()
	desc.Action = intent.ActionCalendar
	desc.Intent = intent.IntentCreate
	desc.Parameters = params
	return desc
}

func TestHandleTurnDirectCreate(t *testing.T) {
	desc := calendarCreate(map[string]any{
		"summary":    "Design sync",
		"start_time": "2025-06-05T14:00:00",
		"attendees":  []any{"bob@example.com"},
	})
	e, router, cal, _ := newTestEngine(desc)

	got := e.HandleTurn(context.Background(), "Schedule a design sync")

	if len(cal.created) != 1 {
		t.Fatalf("created = %d events", len(cal.created))
	}
	p := cal.created[0]
	if p.Summary != "Design sync" {
		t.Errorf("summary = %q", p.Summary)
	}
	if !p.End.Equal(p.Start.Add(time.Hour)) {
		t.Errorf("end = %v, want start + 1h", p.End)
	}
	if len(p.Attendees) != 1 || p.Attendees[0] != "bob@example.com" {
		t.Errorf("attendees = %v", p.Attendees)
	}
	if len(router.commands) != 0 {
		t.Errorf("router should not run when the create path succeeds")
	}
	if got != "The event 'Design sync' has been created" {
		t.Errorf("reply = %q", got)
	}
}

func TestHandleTurnResolvesRelativeStart(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		wantDay  int
		wantHour int
	}{
		{"tomorrow", "tomorrow", 5, 0},
		{"bare clock", "14:00", 4, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := calendarCreate(map[string]any{
				"summary":    "Meeting",
				"start_time": tt.start,
			})
			e, _, cal, _ := newTestEngine(desc)

			e.HandleTurn(context.Background(), "schedule a meeting")
			if len(cal.created) != 1 {
				t.Fatalf("created = %d events", len(cal.created))
			}
			start := cal.created[0].Start
			if start.Day() != tt.wantDay || start.Hour() != tt.wantHour {
				t.Errorf("start = %v, want day %d hour %d", start, tt.wantDay, tt.wantHour)
			}
		})
	}
}

func TestHandleTurnRejectsEndBeforeStart(t *testing.T) {
	desc := calendarCreate(map[string]any{
		"summary":    "Meeting",
		"start_time": "2025-06-05T14:00:00",
		"end_time":   "2025-06-05T14:00:00",
	})
	e, router, cal, _ := newTestEngine(desc)

	got := e.HandleTurn(context.Background(), "schedule a meeting")
	if got != "End time must be after start time" {
		t.Errorf("reply = %q", got)
	}
	if len(cal.created) != 0 {
		t.Error("event must not be created")
	}
	if len(router.commands) != 0 {
		t.Error("contradictory times must not fall through to the router")
	}
}

func TestHandleTurnFallsThroughWhenIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
	}{
		{"no summary", map[string]any{"start_time": "tomorrow"}},
		{"no start", map[string]any{"summary": "Meeting"}},
		{"unresolvable start", map[string]any{"summary": "Meeting", "start_time": "whenever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, router, cal, _ := newTestEngine(calendarCreate(tt.params))

			e.HandleTurn(context.Background(), "schedule a meeting")
			if len(router.commands) != 1 {
				t.Fatalf("router commands = %v, want one", router.commands)
			}
			if len(cal.created) != 0 {
				t.Error("direct create must not run")
			}
		})
	}
}

func TestHandleTurnSpeaksApology(t *testing.T) {
	desc := intent.NewDescriptor()
	desc.Intent = intent.IntentError
	desc.Response = "I'm having trouble connecting to my brain. Please try again."
	e, router, _, _ := newTestEngine(desc)

	got := e.HandleTurn(context.Background(), "schedule a meeting")
	if got != desc.Response {
		t.Errorf("reply = %q", got)
	}
	if len(router.commands) != 0 {
		t.Error("apologies short-circuit the router")
	}
}

func TestHandleTurnRoutesNonCalendar(t *testing.T) {
	desc := intent.NewDescriptor()
	desc.Action = intent.ActionNotion
	e, router, _, _ := newTestEngine(desc)

	e.HandleTurn(context.Background(), "Take A Note")
	if len(router.commands) != 1 || router.commands[0] != "take a note" {
		t.Errorf("router commands = %v", router.commands)
	}
}

func TestHandleTurnCreateError(t *testing.T) {
	desc := calendarCreate(map[string]any{
		"summary":    "Meeting",
		"start_time": "tomorrow",
	})
	e, _, cal, _ := newTestEngine(desc)
	cal.err = fmt.Errorf("calendar API error (403): forbidden")

	got := e.HandleTurn(context.Background(), "schedule a meeting")
	if got != "Error creating event: calendar API error (403): forbidden" {
		t.Errorf("reply = %q", got)
	}
}

func TestHandleTurnJournalsEveryTurn(t *testing.T) {
	desc := intent.NewDescriptor()
	e, _, _, jr := newTestEngine(desc)

	e.HandleTurn(context.Background(), "tell me a joke")
	if len(jr.entries) != 1 {
		t.Fatalf("journal entries = %d", len(jr.entries))
	}
	entry := jr.entries[0]
	if entry.Utterance != "tell me a joke" {
		t.Errorf("utterance = %q", entry.Utterance)
	}
	if entry.Action != "general" || entry.Intent != "create" {
		t.Errorf("action/intent = %s/%s", entry.Action, entry.Intent)
	}
	if entry.Response == "" {
		t.Error("response must be recorded")
	}
}

func TestStopRequested(t *testing.T) {
	tests := []struct {
		utterance string
		want      bool
	}{
		{"goodbye jarvis", true},
		{"shut down", true},
		{"STOP", true},
		{"go to sleep", true},
		{"schedule a meeting", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := StopRequested(tt.utterance); got != tt.want {
			t.Errorf("StopRequested(%q) = %v, want %v", tt.utterance, got, tt.want)
		}
	}
}
