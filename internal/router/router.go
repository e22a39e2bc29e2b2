// Package router maps a classified utterance to an integration call and
// renders the result as the sentence the assistant speaks back. Adapters
// are injected once at startup; every branch returns a string, never an
// error.
package router

import (
	"context"
	"fmt"
	"strings"

	"jarvis/internal/extract"
	"jarvis/internal/intent"
	"jarvis/internal/logging"
)

// Calendar is the calendar adapter contract
type Calendar interface {
	CreateEvent(ctx context.Context, p intent.EventParams) (string, error)
	UpcomingEvents(ctx context.Context, maxResults int) (string, error)
	EventsForToday(ctx context.Context, maxResults int) (string, error)
	EventsForTomorrow(ctx context.Context, maxResults int) (string, error)
	EventsForWeek(ctx context.Context, maxResults int) (string, error)
	EventsForMonth(ctx context.Context, maxResults int) (string, error)
	DeleteEvent(ctx context.Context, title string) (string, error)
}

// Email is the email adapter contract
type Email interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// Notes is the notes adapter contract
type Notes interface {
	CreateNote(ctx context.Context, title, content string, tags []string) (string, error)
	RecentNotes(ctx context.Context, limit int) (string, error)
}

// Tasks is the tasks adapter contract
type Tasks interface {
	CreateTask(ctx context.Context, title, description, priority string) (string, error)
	List(ctx context.Context, filterStatus string) (string, error)
}

// Dispatcher routes one utterance per turn. It holds no per-turn state.
type Dispatcher struct {
	table    *intent.Table
	calendar Calendar
	email    Email
	notes    Notes
	tasks    Tasks
}

// NewDispatcher wires the dispatcher with its adapters
func NewDispatcher(table *intent.Table, calendar Calendar, email Email, notes Notes, tasks Tasks) *Dispatcher {
	return &Dispatcher{
		table:    table,
		calendar: calendar,
		email:    email,
		notes:    notes,
		tasks:    tasks,
	}
}

const didNotUnderstand = "Sorry, I didn't understand that command."

// Handle processes one user command and returns the spoken reply.
// Calendar keywords take priority over every other branch.
func (d *Dispatcher) Handle(ctx context.Context, command string) string {
	command = strings.ToLower(command)
	logging.Debug("router", "handling: %s", logging.Truncate(command, 80))

	switch {
	case d.table.Matches(command, intent.ActionCalendar):
		return d.handleCalendar(ctx, command)

	case strings.Contains(command, "email") || strings.Contains(command, "gmail"):
		// Canned demonstration action; a richer email intent parser is
		// a deliberate non-feature for now.
		msg, err := d.email.SendEmail(ctx, "bob@example.com", "Quick check-in",
			"Hey Bob, are you free to sync up tomorrow?")
		if err != nil {
			return fmt.Sprintf("Error sending email: %v", err)
		}
		return msg

	case strings.Contains(command, "note"):
		msg, err := d.notes.CreateNote(ctx, "Project Summary",
			"Discussed architecture and tasks.", extract.People(command))
		if err != nil {
			return fmt.Sprintf("Error creating note: %v", err)
		}
		return msg

	case strings.Contains(command, "task"):
		msg, err := d.tasks.CreateTask(ctx, "New Task", "Task description", "High")
		if err != nil {
			return fmt.Sprintf("Error creating task: %v", err)
		}
		return msg

	case strings.Contains(command, "notion"):
		return d.handleNotion(ctx, command)
	}

	return didNotUnderstand
}

// handleNotion sub-dispatches general Notion commands on list/create
func (d *Dispatcher) handleNotion(ctx context.Context, command string) string {
	switch {
	case strings.Contains(command, "list"):
		if strings.Contains(command, "tasks") {
			msg, err := d.tasks.List(ctx, "")
			if err != nil {
				return fmt.Sprintf("Error getting tasks: %v", err)
			}
			return msg
		}
		msg, err := d.notes.RecentNotes(ctx, 5)
		if err != nil {
			return fmt.Sprintf("Error fetching notes: %v", err)
		}
		return msg

	case strings.Contains(command, "create"):
		if strings.Contains(command, "task") {
			msg, err := d.tasks.CreateTask(ctx, "New Task", "Task description", "High")
			if err != nil {
				return fmt.Sprintf("Error creating task: %v", err)
			}
			return msg
		}
		msg, err := d.notes.CreateNote(ctx, "New Note", "Note content", extract.People(command))
		if err != nil {
			return fmt.Sprintf("Error creating note: %v", err)
		}
		return msg
	}

	return didNotUnderstand
}
