// Package scheduler holds the schedule controls and the single action they
// drive: replace whatever is scheduled with one reminder.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"notiftest/internal/notify"

	"go.uber.org/zap"
)

// Title is the fixed title of the scheduled reminder.
const Title = "Don't forget!"

var (
	// ErrBusy is returned while a previous Reschedule is still running.
	ErrBusy = errors.New("reschedule already in progress")

	// ErrNegativeInterval rejects a negative delay.
	ErrNegativeInterval = errors.New("interval must be >= 0 seconds")
)

// Settings parameterize the next Reschedule.
type Settings struct {
	IntervalSeconds int
	Repeats         bool
}

// DefaultSettings returns the startup values: five seconds, no repeat.
func DefaultSettings() Settings {
	return Settings{IntervalSeconds: 5, Repeats: false}
}

// Body is the reminder text for the given repeat flag.
func Body(repeats bool) string {
	return fmt.Sprintf("This is your scheduled notification! %t 🚀", repeats)
}

// Request builds the notification request for s.
func (s Settings) Request() notify.Request {
	return notify.Request{
		Content: notify.Content{
			Title: Title,
			Body:  Body(s.Repeats),
		},
		Trigger: notify.Trigger{
			Seconds: s.IntervalSeconds,
			Repeats: s.Repeats,
		},
	}
}

// Platform is what the controller needs from the notification platform.
type Platform interface {
	CancelAllScheduled(ctx context.Context) error
	Schedule(ctx context.Context, req notify.Request) (string, error)
}

// Controller owns the settings and serializes Reschedule calls.
type Controller struct {
	platform Platform
	log      *zap.Logger

	mu       sync.Mutex
	settings Settings
	inFlight bool
}

// NewController creates a Controller starting from initial.
func NewController(p Platform, initial Settings, log *zap.Logger) (*Controller, error) {
	if initial.IntervalSeconds < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeInterval, initial.IntervalSeconds)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{platform: p, settings: initial, log: log.Named("scheduler")}, nil
}

// Settings returns a copy of the current settings.
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// ToggleRepeats flips the repeat flag and returns the new value.
func (c *Controller) ToggleRepeats() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings.Repeats = !c.settings.Repeats
	return c.settings.Repeats
}

// SetInterval sets the delay in seconds.
func (c *Controller) SetInterval(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeInterval, seconds)
	}
	c.mu.Lock()
	c.settings.IntervalSeconds = seconds
	c.mu.Unlock()
	return nil
}

// Busy reports whether a Reschedule is running.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Reschedule cancels every scheduled notification, then schedules one
// reminder with the current settings. A call made while another is running
// fails with ErrBusy. If cancelling fails nothing is scheduled; if
// scheduling fails the earlier cancellation stands.
func (c *Controller) Reschedule(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.inFlight = true
	settings := c.settings
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if err := c.platform.CancelAllScheduled(ctx); err != nil {
		return "", fmt.Errorf("cancel scheduled notifications: %w", err)
	}

	id, err := c.platform.Schedule(ctx, settings.Request())
	if err != nil {
		return "", fmt.Errorf("schedule notification: %w", err)
	}

	c.log.Info("reminder rescheduled",
		zap.String("id", id),
		zap.Int("seconds", settings.IntervalSeconds),
		zap.Bool("repeats", settings.Repeats),
	)
	return id, nil
}
