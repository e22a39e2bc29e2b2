// Package gmail is a Gmail v1 client for the assistant's email
// operations.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"jarvis/internal/integrations/google"
)

const baseURL = "https://gmail.googleapis.com/gmail/v1"

// Scopes required for the assistant's email operations
var Scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.modify",
}

// Client is a Gmail API client
type Client struct {
	httpClient *http.Client
	tokens     *google.TokenSource
}

// NewClient creates a client from the GOOGLE_CALENDAR_CREDENTIALS_FILE
// environment variable (the same service account serves both Google
// integrations).
func NewClient() (*Client, error) {
	credsFile := os.Getenv("GOOGLE_CALENDAR_CREDENTIALS_FILE")
	if credsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CALENDAR_CREDENTIALS_FILE not set")
	}
	return NewClientWithCredentials(credsFile)
}

// NewClientWithCredentials creates a client from a service account key file
func NewClientWithCredentials(credentialsFile string) (*Client, error) {
	tokens, err := google.NewTokenSource(credentialsFile, Scopes...)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}, nil
}

// request makes an authenticated request to the Gmail API
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
			return nil, fmt.Errorf("gmail API error (%d): %s", errResp.Error.Code, errResp.Error.Message)
		}
		return nil, fmt.Errorf("gmail API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// buildRawMessage assembles an RFC 2822 text message in the base64url
// form the API expects.
func buildRawMessage(to, subject, body string) string {
	var msg strings.Builder
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(msg.String()))
}

// SendEmail sends a plain-text email and returns the confirmation sentence
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	payload := map[string]string{
		"raw": buildRawMessage(to, subject, body),
	}

	if _, err := c.request(ctx, "POST", "/users/me/messages/send", payload); err != nil {
		return "", err
	}

	return fmt.Sprintf("Email sent successfully to %s", to), nil
}

type messageList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type message struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

func (m *message) header(name string) string {
	for _, h := range m.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// UnreadEmails lists unread messages as "From/Subject/snippet" blocks
func (c *Client) UnreadEmails(ctx context.Context, maxResults int) (string, error) {
	if maxResults == 0 {
		maxResults = 5
	}

	path := fmt.Sprintf("/users/me/messages?labelIds=UNREAD&maxResults=%d", maxResults)
	data, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return "", err
	}

	var list messageList
	if err := json.Unmarshal(data, &list); err != nil {
		return "", fmt.Errorf("parse message list: %w", err)
	}
	if len(list.Messages) == 0 {
		return "No unread emails found.", nil
	}

	var blocks []string
	for _, ref := range list.Messages {
		data, err := c.request(ctx, "GET", "/users/me/messages/"+ref.ID+"?format=full", nil)
		if err != nil {
			return "", err
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			return "", fmt.Errorf("parse message: %w", err)
		}
		blocks = append(blocks, fmt.Sprintf("From: %s\nSubject: %s\n\n%s...",
			msg.header("From"), msg.header("Subject"), msg.Snippet))
	}

	return strings.Join(blocks, "\n\n"), nil
}

// MarkRead removes the UNREAD label from a message
func (c *Client) MarkRead(ctx context.Context, messageID string) (string, error) {
	payload := map[string][]string{
		"removeLabelIds": {"UNREAD"},
	}
	if _, err := c.request(ctx, "POST", "/users/me/messages/"+messageID+"/modify", payload); err != nil {
		return "", err
	}
	return "Email marked as read", nil
}
