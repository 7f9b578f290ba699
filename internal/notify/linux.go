//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier implements notifications for Linux using notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

// IsSupported returns true if notify-send is available.
func (n *linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Send shows the alert via notify-send.
// Sound support depends on the notification daemon configuration.
func (n *linuxNotifier) Send(a Alert) error {
	cmd := exec.Command("notify-send", notifySendArgs(a)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}

func notifySendArgs(a Alert) []string {
	args := []string{
		"--app-name=notiftest",
		"--urgency=" + a.Urgency.String(),
	}
	if a.Sound {
		args = append(args, "--hint=string:sound-name:message-new-instant")
	}
	return append(args, a.Title, a.Message)
}

// requiresChannel reports whether channels must be configured before
// delivery. notify-send urgency comes from the channel's importance.
func requiresChannel() bool {
	return true
}
