package notify

import (
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
)

// beeepNotifier implements Notifier using the cross-platform beeep library.
// On Linux it talks to the notification daemon over D-Bus, so it works
// where notify-send is not installed.
type beeepNotifier struct{}

func newFallbackNotifier() Notifier {
	return &beeepNotifier{}
}

// Send shows the alert; Alert plays the system sound in addition.
func (n *beeepNotifier) Send(a Alert) error {
	if a.Sound {
		return beeep.Alert(a.Title, a.Message, "")
	}
	return beeep.Notify(a.Title, a.Message, "")
}

// IsSupported requires a session bus on Linux; other platforms are handled by beeep.
func (n *beeepNotifier) IsSupported() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "netbsd", "openbsd":
		return os.Getenv("DBUS_SESSION_BUS_ADDRESS") != ""
	case "windows", "darwin":
		return true
	default:
		return false
	}
}
