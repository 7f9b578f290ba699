//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// darwinNotifier implements notifications for macOS using osascript.
type darwinNotifier struct{}

func newPlatformNotifier() Notifier {
	return &darwinNotifier{}
}

// IsSupported returns true if osascript is available.
func (n *darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

// Send shows the alert via osascript. Urgency has no macOS equivalent.
func (n *darwinNotifier) Send(a Alert) error {
	cmd := exec.Command("osascript", "-e", appleScript(a))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

func appleScript(a Alert) string {
	title := escapeAppleScript(a.Title)
	message := escapeAppleScript(a.Message)
	if a.Sound {
		return fmt.Sprintf(`display notification "%s" with title "%s" sound name "default"`, message, title)
	}
	return fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
}

// escapeAppleScript escapes backslashes and quotes for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

func requiresChannel() bool {
	return false
}
