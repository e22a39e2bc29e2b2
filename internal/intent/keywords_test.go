package intent

import "testing"

func TestClassify(t *testing.T) {
	table := NewTable(nil)

	tests := []struct {
		name      string
		utterance string
		want      Action
	}{
		{
			name:      "calendar keyword",
			utterance: "schedule a meeting with the team",
			want:      ActionCalendar,
		},
		{
			name:      "relative day routes to calendar",
			utterance: "what do I have tomorrow",
			want:      ActionCalendar,
		},
		{
			name:      "notion keyword",
			utterance: "create a note about the design review",
			want:      ActionNotion,
		},
		{
			name:      "email keyword",
			utterance: "check my inbox",
			want:      ActionEmail,
		},
		{
			name:      "no match",
			utterance: "tell me a joke",
			want:      ActionGeneral,
		},
		{
			name:      "empty",
			utterance: "",
			want:      ActionGeneral,
		},
		{
			name:      "upper case input",
			utterance: "SCHEDULE A MEETING",
			want:      ActionCalendar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Classify(tt.utterance)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.utterance, got, tt.want)
			}
		})
	}
}

// Calendar keywords must win over notion/email on overlapping utterances.
func TestClassifyPriority(t *testing.T) {
	table := NewTable(nil)

	overlapping := []string{
		"schedule a meeting and take a note",
		"add a calendar reminder",
		"email me about tomorrow's appointment",
	}
	for _, utterance := range overlapping {
		if got := table.Classify(utterance); got != ActionCalendar {
			t.Errorf("Classify(%q) = %v, want calendar", utterance, got)
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	table := NewTable(nil)
	utterance := "schedule a sync with bob@example.com tomorrow"

	first := table.Classify(utterance)
	second := table.Classify(utterance)
	if first != second {
		t.Errorf("Classify not idempotent: %v then %v", first, second)
	}
}

func TestMatches(t *testing.T) {
	table := NewTable(nil)

	if !table.Matches("set up an appointment", ActionCalendar) {
		t.Error("expected calendar match")
	}
	if table.Matches("hello there", ActionEmail) {
		t.Error("expected no email match")
	}
}
