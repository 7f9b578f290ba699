// Package ui provides terminal user interface components for notiftest.
// This file defines message types for async operations using the Bubble Tea
// command pattern. Registration, scheduling and platform events all arrive
// as these messages to keep the event loop non-blocking.
package ui

import (
	"notiftest/internal/notify"
	"notiftest/internal/registrar"
)

// =============================================================================
// Registration Messages
// =============================================================================

// registeredMsg is sent when the startup registration sequence finishes.
type registeredMsg struct {
	result registrar.Result
}

// alertMsg carries a blocking alert raised during registration.
type alertMsg struct {
	text string
}

// =============================================================================
// Schedule Messages
// =============================================================================

// rescheduledMsg is sent when cancel-then-schedule completes.
type rescheduledMsg struct {
	id  string
	err error
}

// =============================================================================
// Platform Event Messages
// =============================================================================

// notificationReceivedMsg is sent for every delivered notification.
type notificationReceivedMsg struct {
	notification notify.Notification
}

// responseMsg is sent when the user acts on a delivered notification.
type responseMsg struct {
	response notify.Response
}

// respondedMsg reports the outcome of opening the last notification.
type respondedMsg struct {
	err error
}
