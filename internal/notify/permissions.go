package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// PermissionStatus is the user's answer to the notification permission prompt.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// ParsePermission maps a config value to a status. Unknown values are undetermined.
func ParsePermission(s string) PermissionStatus {
	switch PermissionStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionUndetermined
	}
}

// GetPermissions returns the current permission status without prompting.
func (s *Service) GetPermissions(ctx context.Context) (PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission, nil
}

// RequestPermissions resolves an undetermined status. The desktop has no
// prompt of its own: permission is granted when the host can show
// notifications at all. A status that is already decided is returned as is.
func (s *Service) RequestPermissions(ctx context.Context) (PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permission == PermissionUndetermined {
		if s.notifier.IsSupported() {
			s.permission = PermissionGranted
		} else {
			s.permission = PermissionDenied
		}
		s.log.Info("notification permission requested", zap.String("status", string(s.permission)))
	}
	return s.permission, nil
}
