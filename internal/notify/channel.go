package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultChannelID is the channel used when a request names none.
const DefaultChannelID = "default"

// Importance ranks a channel; higher values interrupt more.
type Importance int

const (
	ImportanceUnspecified Importance = iota
	ImportanceNone
	ImportanceMin
	ImportanceLow
	ImportanceDefault
	ImportanceHigh
	ImportanceMax
)

// Channel groups notifications that share delivery behavior.
type Channel struct {
	Name             string
	Importance       Importance
	VibrationPattern []int
	LightColor       string
}

func (c Channel) urgency() Urgency {
	switch {
	case c.Importance >= ImportanceHigh:
		return UrgencyCritical
	case c.Importance == ImportanceUnspecified || c.Importance >= ImportanceDefault:
		return UrgencyNormal
	default:
		return UrgencyLow
	}
}

// RequiresChannel reports whether this platform needs a channel configured
// before notifications are delivered.
func (s *Service) RequiresChannel() bool {
	return s.requiresChannel
}

// SetNotificationChannel creates or replaces the channel with the given id.
func (s *Service) SetNotificationChannel(ctx context.Context, id string, ch Channel) (Channel, error) {
	if err := ctx.Err(); err != nil {
		return Channel{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Channel{}, fmt.Errorf("channel id is empty")
	}
	if ch.Importance < ImportanceUnspecified || ch.Importance > ImportanceMax {
		return Channel{}, fmt.Errorf("channel %q: importance %d out of range", id, ch.Importance)
	}

	s.mu.Lock()
	s.channels[id] = ch
	s.mu.Unlock()

	s.log.Debug("notification channel set", zap.String("channel", id), zap.Stringer("urgency", ch.urgency()))
	return ch, nil
}

// Channel returns the channel with the given id.
func (s *Service) Channel(id string) (Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	return ch, ok
}
