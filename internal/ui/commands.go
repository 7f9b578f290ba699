// Package ui provides terminal user interface components for notiftest.
// This file contains tea.Cmd factories that wrap registration, scheduling
// and platform events. Each command returns a message type defined in
// messages.go.
package ui

import (
	"context"

	"notiftest/internal/notify"
	"notiftest/internal/scheduler"

	tea "github.com/charmbracelet/bubbletea"
)

// registerCmd runs the registration sequence once.
func registerCmd(ctx context.Context, r Registrar) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		return registeredMsg{result: r.Register(ctx)}
	}
}

// rescheduleCmd replaces whatever is scheduled with one reminder.
func rescheduleCmd(ctx context.Context, c *scheduler.Controller) tea.Cmd {
	return func() tea.Msg {
		id, err := c.Reschedule(ctx)
		return rescheduledMsg{id: id, err: err}
	}
}

// respondCmd opens the delivered notification id with the default action.
func respondCmd(svc *notify.Service, id string) tea.Cmd {
	return func() tea.Msg {
		err := svc.Respond(id, notify.DefaultActionIdentifier)
		return respondedMsg{err: err}
	}
}

// waitForEvent blocks until a platform listener posts a message.
// Returns nil once done is closed.
func waitForEvent(events <-chan tea.Msg, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-done:
			return nil
		}
	}
}

// waitForAlert blocks until the registrar raises an alert.
func waitForAlert(q *AlertQueue, done <-chan struct{}) tea.Cmd {
	if q == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case text := <-q.ch:
			return alertMsg{text: text}
		case <-done:
			return nil
		}
	}
}
