package intent

import "strings"

// Table maps each action to its trigger substrings. It is built once at
// startup and read-only afterwards; the classifier and the LLM parser's
// fallback path share the same table.
type Table struct {
	keywords map[Action][]string
}

// classifyOrder is the fixed priority when an utterance matches more
// than one domain: calendar wins over notion, notion over email.
var classifyOrder = []Action{ActionCalendar, ActionNotion, ActionEmail}

// DefaultKeywords are the built-in trigger words per action. The calendar
// list includes the relative-time words so that phrases like "what's on
// tomorrow" route to the calendar even without the word "calendar".
func DefaultKeywords() map[Action][]string {
	return map[Action][]string{
		ActionCalendar: {"calendar", "schedule", "event", "events", "meeting", "appointment", "tomorrow", "today", "week", "month"},
		ActionNotion:   {"note", "todo", "task", "reminder", "notion"},
		ActionEmail:    {"email", "mail", "gmail", "inbox", "unread"},
	}
}

// NewTable builds a keyword table. A nil map selects the defaults.
func NewTable(keywords map[Action][]string) *Table {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Table{keywords: keywords}
}

// Keywords returns the trigger words for an action
func (t *Table) Keywords(a Action) []string {
	return t.keywords[a]
}

// Classify buckets an utterance into a domain by substring membership.
// Deterministic and side-effect free: the first matching action in
// priority order wins, ActionGeneral when nothing matches.
func (t *Table) Classify(utterance string) Action {
	lower := strings.ToLower(utterance)
	for _, action := range classifyOrder {
		for _, kw := range t.keywords[action] {
			if strings.Contains(lower, kw) {
				return action
			}
		}
	}
	return ActionGeneral
}

// Matches reports whether the utterance contains any trigger word of the
// given action
func (t *Table) Matches(utterance string, a Action) bool {
	lower := strings.ToLower(utterance)
	for _, kw := range t.keywords[a] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of the given words appears in the text
func ContainsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
