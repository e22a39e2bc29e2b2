package intent

// Action identifies which integration a command is routed to
type Action string

const (
	ActionCalendar Action = "calendar"
	ActionNotion   Action = "notion"
	ActionEmail    Action = "email"
	ActionGeneral  Action = "general"
)

// Intent identifies the operation within an action
type Intent string

const (
	IntentCreate Intent = "create"
	IntentRead   Intent = "read"
	IntentUpdate Intent = "update"
	IntentDelete Intent = "delete"
	IntentError  Intent = "error"
)

// Descriptor is the structured form of one spoken command.
// It is built fresh for each utterance and never persisted.
type Descriptor struct {
	Action     Action         `json:"action"`
	Intent     Intent         `json:"intent"`
	Parameters map[string]any `json:"parameters"`
	Response   string         `json:"response"`
}

// NewDescriptor returns a descriptor with default fields
func NewDescriptor() Descriptor {
	return Descriptor{
		Action:     ActionGeneral,
		Intent:     IntentCreate,
		Parameters: make(map[string]any),
	}
}

// ValidAction reports whether s names a known action
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionCalendar, ActionNotion, ActionEmail, ActionGeneral:
		return true
	}
	return false
}

// ValidIntent reports whether s names a known intent
func ValidIntent(s string) bool {
	switch Intent(s) {
	case IntentCreate, IntentRead, IntentUpdate, IntentDelete, IntentError:
		return true
	}
	return false
}
