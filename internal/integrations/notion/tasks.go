package notion

import (
	"context"
	"fmt"
	"strings"
)

// Tasks wraps a Notion database used as the assistant's task list
type Tasks struct {
	client     *Client
	databaseID string
}

// NewTasks creates a task store over the given database
func NewTasks(client *Client, databaseID string) *Tasks {
	return &Tasks{client: client, databaseID: databaseID}
}

// CreateTask creates a task page. The description, when present, becomes
// the page body.
func (t *Tasks) CreateTask(ctx context.Context, title, description, priority string) (string, error) {
	properties := map[string]Property{
		"Name": {Title: text(title)},
	}
	if priority != "" {
		properties["Priority"] = Property{Select: &SelectOption{Name: priority}}
	}

	page, err := t.client.CreatePage(ctx, t.databaseID, properties, nil)
	if err != nil {
		return "", err
	}

	if description != "" {
		if err := t.client.AppendBlocks(ctx, page.ID, []Block{paragraph(description)}); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("Task created successfully: %s", page.URL), nil
}

// List returns tasks ordered by due date, optionally filtered by status
func (t *Tasks) List(ctx context.Context, filterStatus string) (string, error) {
	params := QueryParams{
		Sorts: []Sort{
			{Property: "Due Date", Direction: "ascending"},
		},
	}
	if filterStatus != "" {
		params.Filter = map[string]any{
			"property": "Status",
			"select":   map[string]string{"equals": filterStatus},
		}
	}

	result, err := t.client.QueryDatabase(ctx, t.databaseID, params)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, page := range result.Results {
		line := page.GetTitle()
		if due := page.GetPropertyText("Due Date"); due != "" {
			line = fmt.Sprintf("%s (due %s)", line, due)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "No tasks found.", nil
	}

	return strings.Join(lines, "\n"), nil
}
