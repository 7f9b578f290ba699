//go:build !darwin && !linux

package notify

// On other platforms beeep is the platform notifier.
func newPlatformNotifier() Notifier {
	return newFallbackNotifier()
}

func requiresChannel() bool {
	return false
}
