package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jarvis/internal/intent"
)

// completionServer returns a test server that always replies with the
// given content field.
func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Temperature != 0.7 || req.MaxTokens != 500 {
			t.Errorf("unexpected sampling params: %+v", req)
		}
		json.NewEncoder(w).Encode(completionResponse{Content: content})
	}))
}

func newTestParser(serverURL string) *Parser {
	return NewParser(NewClient(serverURL), intent.NewTable(nil))
}

func TestParseValidJSON(t *testing.T) {
	content := `Here is the plan:
{"action": "calendar", "intent": "create", "parameters": {"summary": "Standup", "start_time": "2024-12-31 09:00"}, "response": "Scheduling your standup."}`
	srv := completionServer(t, content)
	defer srv.Close()

	desc := newTestParser(srv.URL).Parse(context.Background(), "schedule a standup")

	if desc.Action != intent.ActionCalendar {
		t.Errorf("action = %v, want calendar", desc.Action)
	}
	if desc.Intent != intent.IntentCreate {
		t.Errorf("intent = %v, want create", desc.Intent)
	}
	if desc.Parameters["summary"] != "Standup" {
		t.Errorf("summary = %v, want Standup", desc.Parameters["summary"])
	}
	if desc.Response != "Scheduling your standup." {
		t.Errorf("response = %q", desc.Response)
	}
}

func TestParseInvalidFieldsKeepDefaults(t *testing.T) {
	content := `{"action": "spaceship", "intent": "launch", "response": "ok"}`
	srv := completionServer(t, content)
	defer srv.Close()

	desc := newTestParser(srv.URL).Parse(context.Background(), "do something")

	if desc.Action != intent.ActionGeneral {
		t.Errorf("unknown action should keep default, got %v", desc.Action)
	}
	if desc.Intent != intent.IntentCreate {
		t.Errorf("unknown intent should keep default, got %v", desc.Intent)
	}
	if desc.Response != "ok" {
		t.Errorf("response = %q, want ok", desc.Response)
	}
}

func TestParseRepairsMalformedJSON(t *testing.T) {
	// Trailing comma fails strict decoding but survives repair
	content := `{"action": "notion", "intent": "create", "parameters": {"title": "Groceries"},}`
	srv := completionServer(t, content)
	defer srv.Close()

	desc := newTestParser(srv.URL).Parse(context.Background(), "make a note")

	if desc.Action != intent.ActionNotion {
		t.Errorf("action = %v, want notion", desc.Action)
	}
	if desc.Parameters["title"] != "Groceries" {
		t.Errorf("title = %v, want Groceries", desc.Parameters["title"])
	}
}

func TestParseFallbackNoJSON(t *testing.T) {
	content := "Sure, I will schedule a meeting for tomorrow at 2 pm."
	srv := completionServer(t, content)
	defer srv.Close()

	desc := newTestParser(srv.URL).Parse(context.Background(), "schedule a meeting")

	if desc.Action != intent.ActionCalendar {
		t.Fatalf("action = %v, want calendar", desc.Action)
	}
	if desc.Intent != intent.IntentCreate {
		t.Errorf("intent = %v, want create", desc.Intent)
	}
	if desc.Parameters["summary"] != "Meeting" {
		t.Errorf("summary = %v, want Meeting", desc.Parameters["summary"])
	}
	// "2 pm" literal wins over "tomorrow"
	if desc.Parameters["start_time"] != "14:00" {
		t.Errorf("start_time = %v, want 14:00", desc.Parameters["start_time"])
	}
	if desc.Response != content {
		t.Errorf("fallback should keep raw content as response")
	}
}

func TestParseFallbackNotion(t *testing.T) {
	srv := completionServer(t, "you should write that down as a todo item")
	defer srv.Close()

	desc := newTestParser(srv.URL).Parse(context.Background(), "remember this")

	if desc.Action != intent.ActionNotion {
		t.Fatalf("action = %v, want notion", desc.Action)
	}
	if desc.Parameters["title"] != "New Task" || desc.Parameters["type"] != "todo" {
		t.Errorf("parameters = %v", desc.Parameters)
	}
}

func TestParseServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	desc := newTestParser(srv.URL).Parse(context.Background(), "schedule a meeting")

	if desc.Action != intent.ActionGeneral || desc.Intent != intent.IntentError {
		t.Errorf("descriptor = %+v, want general/error", desc)
	}
	if desc.Response != apologyProcessing {
		t.Errorf("response = %q, want processing apology", desc.Response)
	}
}

func TestParseTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the request fails to connect

	desc := newTestParser(srv.URL).Parse(context.Background(), "schedule a meeting")

	if desc.Action != intent.ActionGeneral || desc.Intent != intent.IntentError {
		t.Errorf("descriptor = %+v, want general/error", desc)
	}
	if desc.Response != apologyTransport {
		t.Errorf("response = %q, want transport apology", desc.Response)
	}
}
