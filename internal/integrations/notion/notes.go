package notion

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Notes wraps a Notion database used as the assistant's notebook
type Notes struct {
	client     *Client
	databaseID string
}

// NewNotes creates a notes store over the given database
func NewNotes(client *Client, databaseID string) *Notes {
	return &Notes{client: client, databaseID: databaseID}
}

// CreateNote creates a note page with an optional tag list and returns
// the confirmation sentence.
func (n *Notes) CreateNote(ctx context.Context, title, content string, tags []string) (string, error) {
	properties := map[string]Property{
		"Name": {Title: text(title)},
		"Date": {Date: &DateProperty{Start: time.Now().Format(time.RFC3339)}},
	}

	if len(tags) > 0 {
		options := make([]SelectOption, len(tags))
		for i, tag := range tags {
			options[i] = SelectOption{Name: tag}
		}
		properties["Tags"] = Property{MultiSelect: options}
	}

	page, err := n.client.CreatePage(ctx, n.databaseID, properties, []Block{paragraph(content)})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Note created successfully: %s", page.URL), nil
}

// CreateTodo creates a todo page with optional due date and priority
func (n *Notes) CreateTodo(ctx context.Context, title, dueDate, priority string) (string, error) {
	properties := map[string]Property{
		"Name":   {Title: text(title)},
		"Status": {Select: &SelectOption{Name: "To Do"}},
	}
	if dueDate != "" {
		properties["Due Date"] = Property{Date: &DateProperty{Start: dueDate}}
	}
	if priority != "" {
		properties["Priority"] = Property{Select: &SelectOption{Name: priority}}
	}

	page, err := n.client.CreatePage(ctx, n.databaseID, properties, nil)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Todo created successfully: %s", page.URL), nil
}

// RecentNotes lists the latest notes as "<date>: <title>" lines
func (n *Notes) RecentNotes(ctx context.Context, limit int) (string, error) {
	if limit == 0 {
		limit = 5
	}

	result, err := n.client.QueryDatabase(ctx, n.databaseID, QueryParams{
		PageSize: limit,
		Sorts: []Sort{
			{Property: "Date", Direction: "descending"},
		},
	})
	if err != nil {
		return "", err
	}

	var lines []string
	for _, page := range result.Results {
		lines = append(lines, fmt.Sprintf("%s: %s", page.GetPropertyText("Date"), page.GetTitle()))
	}
	if len(lines) == 0 {
		return "No recent notes found.", nil
	}

	return strings.Join(lines, "\n"), nil
}
