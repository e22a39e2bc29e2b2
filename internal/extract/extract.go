// Package extract pulls entities out of raw command text: email
// addresses, event titles, and mentioned people.
package extract

import (
	"regexp"
	"strings"

	"github.com/tsawler/prose/v3"
)

// DefaultTitle is returned when no event title can be extracted
const DefaultTitle = "New Event"

var emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+`)

// Emails returns all email addresses in the text, in order of first
// appearance. Duplicates are retained.
func Emails(text string) []string {
	return emailRe.FindAllString(text, -1)
}

// Title returns the text following the first trigger verb, up to the next
// comma. Falls back to DefaultTitle when no verb matches.
func Title(text string, verbs []string) string {
	lower := strings.ToLower(text)
	pattern := `(?:` + strings.Join(escapeAll(verbs), "|") + `)\s+(?:(?:an|a|the)\s+)?([^,]+)`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return DefaultTitle
	}
	m := re.FindStringSubmatch(lower)
	if m == nil {
		return DefaultTitle
	}
	title := strings.TrimSpace(m[1])
	if title == "" {
		return DefaultTitle
	}
	return title
}

// TitleAfter is like Title but returns ok=false instead of a placeholder,
// for callers that need to ask a clarifying question.
func TitleAfter(text string, verbs []string) (string, bool) {
	title := Title(text, verbs)
	if title == DefaultTitle {
		return "", false
	}
	return title, true
}

func escapeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}

// People returns PERSON entities found by the prose NER model, in order
// of appearance. Used to tag notes with the people they mention. Returns
// nil when the text yields no entities.
func People(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, ent := range doc.Entities() {
		if strings.ToUpper(ent.Label) != "PERSON" {
			continue
		}
		key := strings.ToLower(ent.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, ent.Text)
	}
	return names
}
