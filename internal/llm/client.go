// Package llm talks to a local llama.cpp completion server and turns its
// free-text output into structured command descriptors.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBadStatus marks a non-2xx reply from the completion server, as
// opposed to a transport failure.
var ErrBadStatus = errors.New("completion server returned an error status")

// Client handles text completion via a local llama.cpp server
type Client struct {
	serverURL  string
	httpClient *http.Client
}

// NewClient creates a completion client. An empty URL selects the default
// llama.cpp endpoint.
func NewClient(serverURL string) *Client {
	if serverURL == "" {
		serverURL = "http://localhost:8080/completion"
	}
	return &Client{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // generation can take longer
		},
	}
}

// completionRequest is the llama.cpp API request format
type completionRequest struct {
	Prompt      string   `json:"prompt"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// completionResponse is the llama.cpp API response format
type completionResponse struct {
	Content string `json:"content"`
}

// Complete sends one prompt and returns the raw completion text. A non-2xx
// status maps to ErrBadStatus.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}

	reqBody := completionRequest{
		Prompt:      prompt,
		Temperature: 0.7,
		MaxTokens:   500,
		Stop:        []string{"User input:", "\n\n"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.serverURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w (%d): %s", ErrBadStatus, resp.StatusCode, string(body))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return result.Content, nil
}
