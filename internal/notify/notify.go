// Package notify is the notification platform used by notiftest.
// It owns permissions, the delivery channel, the foreground presentation
// handler, scheduled local notifications and their subscriptions, and it
// delivers through native desktop mechanisms (osascript on macOS,
// notify-send on Linux, beeep elsewhere).
package notify

// Urgency is the desktop urgency hint derived from a channel's importance.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// String returns the notify-send spelling of the urgency.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Alert is what a Notifier puts on screen.
type Alert struct {
	Title   string
	Message string
	Sound   bool
	Urgency Urgency
}

// Notifier defines the interface for showing desktop notifications.
type Notifier interface {
	// Send shows the alert.
	Send(a Alert) error

	// IsSupported returns true if notifications can be shown on this host.
	IsSupported() bool
}

type noopNotifier struct{}

func (n *noopNotifier) Send(Alert) error {
	return nil
}

func (n *noopNotifier) IsSupported() bool {
	return false
}

// Noop returns a notifier that drops every alert and reports itself unsupported.
func Noop() Notifier {
	return &noopNotifier{}
}

// NewNotifier creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func NewNotifier() Notifier {
	n := newPlatformNotifier()
	if n != nil && n.IsSupported() {
		return n
	}
	if fb := newFallbackNotifier(); fb.IsSupported() {
		return fb
	}
	return Noop()
}
