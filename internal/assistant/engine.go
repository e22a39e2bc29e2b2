// Package assistant runs one conversational turn end to end: parse the
// transcript, act on the resulting descriptor, and hand back the sentence
// to speak.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jarvis/internal/intent"
	"jarvis/internal/journal"
	"jarvis/internal/logging"
	"jarvis/internal/timeparse"
)

// Parser produces a command descriptor for one utterance
type Parser interface {
	Parse(ctx context.Context, utterance string) intent.Descriptor
}

// Router handles an utterance the keyword way
type Router interface {
	Handle(ctx context.Context, command string) string
}

// Calendar is the direct-create path used when the parser extracts a
// complete event.
type Calendar interface {
	CreateEvent(ctx context.Context, p intent.EventParams) (string, error)
}

// Recorder journals completed turns
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// stopPhrases end the session when present anywhere in the utterance
var stopPhrases = []string{"sleep", "shut down", "shutdown", "stop", "goodbye", "bye"}

// Goodbye is spoken before shutdown
const Goodbye = "Goodbye! Shutting down."

// StopRequested reports whether the utterance asks the assistant to stop
func StopRequested(utterance string) bool {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	for _, phrase := range stopPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Engine is the per-turn control flow. It holds no state across turns.
type Engine struct {
	parser   Parser
	router   Router
	calendar Calendar
	recorder Recorder // optional
	now      func() time.Time
}

// NewEngine wires the engine. recorder may be nil.
func NewEngine(parser Parser, router Router, calendar Calendar, recorder Recorder) *Engine {
	return &Engine{
		parser:   parser,
		router:   router,
		calendar: calendar,
		recorder: recorder,
		now:      time.Now,
	}
}

// HandleTurn processes one transcript and returns the reply to speak.
// It never returns an error; every failure becomes a sentence.
func (e *Engine) HandleTurn(ctx context.Context, transcript string) string {
	command := strings.ToLower(strings.TrimSpace(transcript))

	desc := e.parser.Parse(ctx, command)
	logging.Debug("assistant", "parsed action=%s intent=%s", desc.Action, desc.Intent)

	reply := e.act(ctx, command, desc)

	if e.recorder != nil {
		err := e.recorder.Record(ctx, journal.Entry{
			Utterance: command,
			Action:    string(desc.Action),
			Intent:    string(desc.Intent),
			Response:  reply,
		})
		if err != nil {
			logging.Warn("assistant", "journal: %v", err)
		}
	}

	return reply
}

func (e *Engine) act(ctx context.Context, command string, desc intent.Descriptor) string {
	if desc.Intent == intent.IntentError && desc.Response != "" {
		return desc.Response
	}

	if desc.Action == intent.ActionCalendar && desc.Intent == intent.IntentCreate {
		params, problem, ok := e.eventParams(desc.Parameters)
		if ok {
			msg, err := e.calendar.CreateEvent(ctx, params)
			if err != nil {
				return fmt.Sprintf("Error creating event: %v", err)
			}
			return msg
		}
		if problem != "" {
			return problem
		}
		// Incomplete extraction: the keyword path gets a second look at
		// the raw utterance.
	}

	return e.router.Handle(ctx, command)
}

// eventParams turns the parser's loose parameter map into validated event
// params. problem is a user-facing sentence for contradictions the keyword
// path cannot recover from; ok=false with an empty problem means fall
// through.
func (e *Engine) eventParams(parameters map[string]any) (params intent.EventParams, problem string, ok bool) {
	now := e.now()

	params.Summary = stringParam(parameters, "summary")
	if params.Summary == "" {
		return params, "", false
	}

	start, found := e.resolveParam(parameters, "start_time", now)
	if !found {
		return params, "", false
	}
	params.Start = start

	if raw := stringParam(parameters, "end_time"); raw != "" {
		end, found := e.resolveParam(parameters, "end_time", now)
		if !found {
			return params, "", false
		}
		params.End = end
	}

	params.Description = stringParam(parameters, "description")
	params.Attendees = stringSliceParam(parameters, "attendees")

	if err := params.Validate(); err != nil {
		// End not after start is a contradiction in what the user said,
		// not something heuristics can repair.
		return params, err.Error(), false
	}
	return params, "", true
}

// resolveParam resolves a temporal parameter, accepting relative forms
// ("tomorrow") and bare clock readings ("14:00").
func (e *Engine) resolveParam(parameters map[string]any, key string, now time.Time) (time.Time, bool) {
	raw := stringParam(parameters, key)
	if raw == "" {
		return time.Time{}, false
	}
	return timeparse.ResolveNatural(raw, now)
}

func stringParam(parameters map[string]any, key string) string {
	if v, ok := parameters[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func stringSliceParam(parameters map[string]any, key string) []string {
	switch v := parameters[key].(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
