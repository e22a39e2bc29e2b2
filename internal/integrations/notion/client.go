// Package notion is a Notion API client backing the assistant's notes
// and tasks databases.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL       = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"
)

// Client is a Notion API client
type Client struct {
	token      string
	httpClient *http.Client
}

// NewClient creates a new Notion client from NOTION_API_KEY env var
func NewClient() (*Client, error) {
	token := os.Getenv("NOTION_API_KEY")
	if token == "" {
		return nil, fmt.Errorf("NOTION_API_KEY not set")
	}
	return NewClientWithToken(token), nil
}

// NewClientWithToken creates a client with explicit token
func NewClientWithToken(token string) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// request makes an authenticated request to the Notion API
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
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

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
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
		var errResp ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("notion API error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("notion API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// ErrorResponse is a Notion API error
type ErrorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RichText is a Notion rich text object
type RichText struct {
	Type      string   `json:"type,omitempty"`
	PlainText string   `json:"plain_text,omitempty"`
	Text      *TextObj `json:"text,omitempty"`
}

type TextObj struct {
	Content string `json:"content"`
}

// text builds the rich text array for a plain string
func text(content string) []RichText {
	return []RichText{{Text: &TextObj{Content: content}}}
}

// Parent describes the parent of an object
type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// Property is a Notion page property (the subset the assistant uses)
type Property struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateProperty  `json:"date,omitempty"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type DateProperty struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Page is a Notion page object
type Page struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// GetTitle extracts the plain text title from a page
func (p *Page) GetTitle() string {
	for _, prop := range p.Properties {
		if prop.Type == "title" && len(prop.Title) > 0 {
			if prop.Title[0].PlainText != "" {
				return prop.Title[0].PlainText
			}
			if prop.Title[0].Text != nil {
				return prop.Title[0].Text.Content
			}
		}
	}
	return ""
}

// GetPropertyText gets the text value of a property
func (p *Page) GetPropertyText(name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}

	switch prop.Type {
	case "title":
		if len(prop.Title) > 0 {
			return prop.Title[0].PlainText
		}
	case "rich_text":
		if len(prop.RichText) > 0 {
			return prop.RichText[0].PlainText
		}
	case "select":
		if prop.Select != nil {
			return prop.Select.Name
		}
	case "date":
		if prop.Date != nil {
			return prop.Date.Start
		}
	case "multi_select":
		var names []string
		for _, opt := range prop.MultiSelect {
			names = append(names, opt.Name)
		}
		if len(names) > 0 {
			return fmt.Sprintf("%v", names)
		}
	}

	return ""
}

// Block is a Notion content block (paragraphs only, for note bodies)
type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
}

type Paragraph struct {
	RichText []RichText `json:"rich_text"`
}

// paragraph builds a paragraph block for a plain string
func paragraph(content string) Block {
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &Paragraph{RichText: text(content)},
	}
}

// createPageParams is the pages.create request body
type createPageParams struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Children   []Block             `json:"children,omitempty"`
}

// CreatePage creates a page in a database
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property, children []Block) (*Page, error) {
	params := createPageParams{
		Parent:     Parent{DatabaseID: databaseID},
		Properties: properties,
		Children:   children,
	}

	data, err := c.request(ctx, "POST", "/pages", params)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal page: %w", err)
	}

	return &page, nil
}

// AppendBlocks appends content blocks to a page
func (c *Client) AppendBlocks(ctx context.Context, pageID string, children []Block) error {
	params := map[string]any{"children": children}
	_, err := c.request(ctx, "PATCH", "/blocks/"+pageID+"/children", params)
	return err
}

// QueryParams for querying a database
type QueryParams struct {
	Filter   any    `json:"filter,omitempty"`
	Sorts    []Sort `json:"sorts,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"` // "created_time" or "last_edited_time"
	Direction string `json:"direction"`           // "ascending" or "descending"
}

// QueryResult is the response from querying a database
type QueryResult struct {
	Object  string `json:"object"`
	Results []Page `json:"results"`
	HasMore bool   `json:"has_more"`
}

// QueryDatabase queries a database with optional filter and sort
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, params QueryParams) (*QueryResult, error) {
	if params.PageSize == 0 {
		params.PageSize = 100
	}

	data, err := c.request(ctx, "POST", "/databases/"+databaseID+"/query", params)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal query result: %w", err)
	}

	return &result, nil
}
