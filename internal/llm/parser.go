package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"jarvis/internal/intent"
	"jarvis/internal/logging"
)

const (
	apologyTransport  = "I'm having trouble connecting to my brain. Please try again."
	apologyProcessing = "I'm having trouble processing your request. Please try again."
)

// Parser converts an utterance into a command descriptor by way of the
// completion server, with a keyword fallback when the model does not
// produce usable JSON.
type Parser struct {
	client *Client
	table  *intent.Table
}

// NewParser creates an intent parser sharing the router's keyword table
func NewParser(client *Client, table *intent.Table) *Parser {
	return &Parser{client: client, table: table}
}

// buildPrompt embeds the keyword vocabulary and the target JSON schema
func (p *Parser) buildPrompt(userInput string) string {
	return fmt.Sprintf(`You are Jarvis, a privacy-focused voice assistant. Analyze the following user input and determine the appropriate action.
Available commands:
- Calendar (for scheduling meetings and events): %s
- Notion (for creating notes and tasks): %s
- Email (for managing emails): %s

User input: %s

Respond in JSON format with the following structure:
{
    "action": "calendar|notion|email|general",
    "intent": "create|read|update|delete",
    "parameters": {
        "summary": "Event title",
        "start_time": "Event start time",
        "end_time": "Event end time",
        "description": "Event description",
        "attendees": ["email1", "email2"]
    },
    "response": "Your natural language response to the user"
}

Only include parameters that are relevant to the action.
`,
		strings.Join(p.table.Keywords(intent.ActionCalendar), ", "),
		strings.Join(p.table.Keywords(intent.ActionNotion), ", "),
		strings.Join(p.table.Keywords(intent.ActionEmail), ", "),
		userInput)
}

// Parse processes one utterance. It never fails: transport and parse
// problems degrade to a general/error descriptor with an apology, and
// malformed model output falls back to keyword scanning.
func (p *Parser) Parse(ctx context.Context, userInput string) intent.Descriptor {
	content, err := p.client.Complete(ctx, p.buildPrompt(userInput))
	if err != nil {
		logging.Warn("llm", "completion failed: %v", err)
		desc := intent.NewDescriptor()
		desc.Intent = intent.IntentError
		if errors.Is(err, ErrBadStatus) {
			desc.Response = apologyProcessing
		} else {
			desc.Response = apologyTransport
		}
		return desc
	}

	desc := intent.NewDescriptor()
	desc.Response = content

	if parsed, ok := decodeSpan(content); ok {
		merge(&desc, parsed)
		return desc
	}

	p.keywordFallback(&desc, content)
	return desc
}

// partial mirrors the descriptor with optional fields so that missing
// keys keep their defaults during the merge.
type partial struct {
	Action     *string        `json:"action"`
	Intent     *string        `json:"intent"`
	Parameters map[string]any `json:"parameters"`
	Response   *string        `json:"response"`
}

// decodeSpan extracts the first balanced-looking {...} span and decodes
// it, attempting a JSON repair pass before giving up.
func decodeSpan(content string) (*partial, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	span := content[start : end+1]

	var parsed partial
	if err := json.Unmarshal([]byte(span), &parsed); err == nil {
		return &parsed, true
	}

	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		logging.Debug("llm", "JSON repair failed: %v", err)
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, false
	}
	return &parsed, true
}

// merge overlays parsed fields onto the default descriptor, validating
// each field's shape before acceptance.
func merge(desc *intent.Descriptor, parsed *partial) {
	if parsed.Action != nil && intent.ValidAction(*parsed.Action) {
		desc.Action = intent.Action(*parsed.Action)
	}
	if parsed.Intent != nil && intent.ValidIntent(*parsed.Intent) {
		desc.Intent = intent.Intent(*parsed.Intent)
	}
	if parsed.Parameters != nil {
		desc.Parameters = parsed.Parameters
	}
	if parsed.Response != nil {
		desc.Response = *parsed.Response
	}
}

// keywordFallback scans the raw model output against the shared keyword
// table. The time heuristics are deliberately narrow: "tomorrow" and the
// literal "2 pm" are the only phrasings recognized.
func (p *Parser) keywordFallback(desc *intent.Descriptor, content string) {
	lower := strings.ToLower(content)

	switch {
	case p.table.Matches(lower, intent.ActionCalendar):
		desc.Action = intent.ActionCalendar
		desc.Intent = intent.IntentCreate
		desc.Parameters = map[string]any{
			"summary":    "Meeting",
			"start_time": nil,
			"end_time":   nil,
		}
		if strings.Contains(lower, "tomorrow") {
			desc.Parameters["start_time"] = "tomorrow"
		}
		if strings.Contains(lower, "2:00 p.m.") || strings.Contains(lower, "2 pm") {
			desc.Parameters["start_time"] = "14:00"
		}

	case p.table.Matches(lower, intent.ActionNotion):
		desc.Action = intent.ActionNotion
		desc.Intent = intent.IntentCreate
		desc.Parameters = map[string]any{
			"title": "New Task",
			"type":  "todo",
		}

	case p.table.Matches(lower, intent.ActionEmail):
		desc.Action = intent.ActionEmail
		desc.Intent = intent.IntentCreate
	}
}
