// Package calendar is a Google Calendar v3 client for the assistant's
// event operations. Listing and mutation results are rendered as the
// sentences the assistant speaks back.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"jarvis/internal/integrations/google"
	"jarvis/internal/intent"
)

const baseURL = "https://www.googleapis.com/calendar/v3"

// Scopes required for the assistant's calendar operations
var Scopes = []string{
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/calendar.events",
}

// Client is a Google Calendar API client
type Client struct {
	httpClient *http.Client
	tokens     *google.TokenSource
	calendarID string
}

// Config holds calendar client configuration
type Config struct {
	CredentialsFile string // path to service account JSON file
	CalendarID      string // calendar to access (usually an email address)
}

// NewClient creates a client from GOOGLE_CALENDAR_CREDENTIALS_FILE and
// GOOGLE_CALENDAR_ID environment variables.
func NewClient() (*Client, error) {
	credsFile := os.Getenv("GOOGLE_CALENDAR_CREDENTIALS_FILE")
	if credsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CALENDAR_CREDENTIALS_FILE not set")
	}

	calendarID := os.Getenv("GOOGLE_CALENDAR_ID")
	if calendarID == "" {
		return nil, fmt.Errorf("GOOGLE_CALENDAR_ID not set")
	}

	return NewClientWithConfig(Config{
		CredentialsFile: credsFile,
		CalendarID:      calendarID,
	})
}

// NewClientWithConfig creates a new client with explicit configuration
func NewClientWithConfig(cfg Config) (*Client, error) {
	tokens, err := google.NewTokenSource(cfg.CredentialsFile, Scopes...)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens:     tokens,
		calendarID: cfg.CalendarID,
	}, nil
}

// request makes an authenticated request to the Calendar API
func (c *Client) request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get access token: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("calendar API error (%d): %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("calendar API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// googleEvent is the Google Calendar API event format
type googleEvent struct {
	ID          string           `json:"id,omitempty"`
	Summary     string           `json:"summary"`
	Description string           `json:"description,omitempty"`
	Start       *googleDateTime  `json:"start,omitempty"`
	End         *googleDateTime  `json:"end,omitempty"`
	Attendees   []googleAttendee `json:"attendees,omitempty"`
}

type googleDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type googleAttendee struct {
	Email string `json:"email"`
}

type eventsResponse struct {
	Items []googleEvent `json:"items"`
}

// CreateEvent inserts an event and returns the confirmation sentence
func (c *Client) CreateEvent(ctx context.Context, p intent.EventParams) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	event := googleEvent{
		Summary:     p.Summary,
		Description: p.Description,
		Start: &googleDateTime{
			DateTime: p.Start.Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &googleDateTime{
			DateTime: p.End.Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}
	for _, email := range p.Attendees {
		event.Attendees = append(event.Attendees, googleAttendee{Email: email})
	}

	path := fmt.Sprintf("/calendars/%s/events", url.PathEscape(c.calendarID))
	if _, err := c.request(ctx, "POST", path, event); err != nil {
		return "", err
	}

	message := fmt.Sprintf("The event '%s' has been created for %s at %s",
		p.Summary, p.Start.Format("January 02"), p.Start.Format("03:04 PM"))
	if len(p.Attendees) > 0 {
		message += " with " + strings.Join(p.Attendees, ", ")
	}
	message += "."

	return message, nil
}

// listEvents queries events ordered by start time. A zero timeMax means
// no upper bound.
func (c *Client) listEvents(ctx context.Context, timeMin, timeMax time.Time, maxResults int) ([]googleEvent, error) {
	params := url.Values{}
	params.Set("timeMin", timeMin.Format(time.RFC3339))
	if !timeMax.IsZero() {
		params.Set("timeMax", timeMax.Format(time.RFC3339))
	}
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	path := fmt.Sprintf("/calendars/%s/events?%s", url.PathEscape(c.calendarID), params.Encode())
	data, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp eventsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse events response: %w", err)
	}

	return resp.Items, nil
}

// formatListing renders events as "<start>: <summary>" lines
func formatListing(events []googleEvent) string {
	lines := make([]string, 0, len(events))
	for _, event := range events {
		start := ""
		if event.Start != nil {
			if event.Start.DateTime != "" {
				if ts, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
					start = ts.Format("2006-01-02 15:04")
				} else {
					start = event.Start.DateTime
				}
			} else {
				start = event.Start.Date
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", start, event.Summary))
	}
	return strings.Join(lines, "\n")
}

// UpcomingEvents lists events from now onwards. An empty calendar yields
// the "No upcoming events found." sentinel.
func (c *Client) UpcomingEvents(ctx context.Context, maxResults int) (string, error) {
	if maxResults == 0 {
		maxResults = 10
	}

	events, err := c.listEvents(ctx, time.Now(), time.Time{}, maxResults)
	if err != nil {
		return "", err
	}
	if len(events) == 0 {
		return "No upcoming events found.", nil
	}
	return formatListing(events), nil
}

// eventsBetween lists events for [start, end) day boundaries with a
// window-specific "No events found" sentinel.
func (c *Client) eventsBetween(ctx context.Context, start, end time.Time, maxResults int) (string, error) {
	timeMin := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	timeMax := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	events, err := c.listEvents(ctx, timeMin, timeMax, maxResults)
	if err != nil {
		return "", err
	}

	if len(events) == 0 {
		lastDay := timeMax.AddDate(0, 0, -1)
		if timeMin.Equal(lastDay) {
			return fmt.Sprintf("No events found for %s.", timeMin.Format("January 02")), nil
		}
		return fmt.Sprintf("No events found between %s and %s.",
			timeMin.Format("January 02"), lastDay.Format("January 02")), nil
	}

	return formatListing(events), nil
}

// EventsForToday lists today's events
func (c *Client) EventsForToday(ctx context.Context, maxResults int) (string, error) {
	today := time.Now()
	return c.eventsBetween(ctx, today, today.AddDate(0, 0, 1), maxResults)
}

// EventsForTomorrow lists tomorrow's events
func (c *Client) EventsForTomorrow(ctx context.Context, maxResults int) (string, error) {
	tomorrow := time.Now().AddDate(0, 0, 1)
	return c.eventsBetween(ctx, tomorrow, tomorrow.AddDate(0, 0, 1), maxResults)
}

// EventsForWeek lists events for the next 7 days
func (c *Client) EventsForWeek(ctx context.Context, maxResults int) (string, error) {
	today := time.Now()
	return c.eventsBetween(ctx, today, today.AddDate(0, 0, 7), maxResults)
}

// EventsForMonth lists events for the next 30 days
func (c *Client) EventsForMonth(ctx context.Context, maxResults int) (string, error) {
	today := time.Now()
	return c.eventsBetween(ctx, today, today.AddDate(0, 0, 30), maxResults)
}

// findByTitle returns the next upcoming event whose summary matches the
// title, ignoring case.
func (c *Client) findByTitle(ctx context.Context, title string) (*googleEvent, error) {
	events, err := c.listEvents(ctx, time.Now(), time.Time{}, 10)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if strings.EqualFold(events[i].Summary, title) {
			return &events[i], nil
		}
	}
	return nil, nil
}

// DeleteEvent removes the next upcoming event with the given title
func (c *Client) DeleteEvent(ctx context.Context, title string) (string, error) {
	event, err := c.findByTitle(ctx, title)
	if err != nil {
		return "", err
	}
	if event == nil {
		return fmt.Sprintf("No event found with title: %s", title), nil
	}

	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(c.calendarID), url.PathEscape(event.ID))
	if _, err := c.request(ctx, "DELETE", path, nil); err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully deleted event: %s", title), nil
}

// EventUpdate holds the optional fields of an update; zero values leave
// the event untouched.
type EventUpdate struct {
	Summary     string
	Start       time.Time
	End         time.Time
	Description string
}

// UpdateEvent patches the next upcoming event with the given title
func (c *Client) UpdateEvent(ctx context.Context, title string, update EventUpdate) (string, error) {
	event, err := c.findByTitle(ctx, title)
	if err != nil {
		return "", err
	}
	if event == nil {
		return fmt.Sprintf("No event found with title: %s", title), nil
	}

	if update.Summary != "" {
		event.Summary = update.Summary
	}
	if !update.Start.IsZero() {
		event.Start = &googleDateTime{DateTime: update.Start.Format(time.RFC3339), TimeZone: "UTC"}
	}
	if !update.End.IsZero() {
		event.End = &googleDateTime{DateTime: update.End.Format(time.RFC3339), TimeZone: "UTC"}
	}
	if update.Description != "" {
		event.Description = update.Description
	}

	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(c.calendarID), url.PathEscape(event.ID))
	if _, err := c.request(ctx, "PUT", path, event); err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully updated event: %s", event.Summary), nil
}
