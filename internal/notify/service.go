package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidTrigger is returned for negative delays.
	ErrInvalidTrigger = errors.New("invalid notification trigger")

	// ErrUnknownNotification is returned when responding to a notification
	// that was never delivered.
	ErrUnknownNotification = errors.New("unknown notification")
)

// DefaultActionIdentifier is the action reported when the user opens a notification.
const DefaultActionIdentifier = "default"

// Handler decides how a notification is presented while the app is running.
type Handler struct {
	ShowAlert bool
	PlaySound bool
	SetBadge  bool
}

// DefaultHandler shows the alert and plays a sound without touching the badge.
func DefaultHandler() Handler {
	return Handler{ShowAlert: true, PlaySound: true, SetBadge: false}
}

// Content is what a notification says.
type Content struct {
	Title string
	Body  string
	Data  map[string]any
}

// Trigger fires a notification Seconds after scheduling, and every Seconds
// thereafter when Repeats is set.
type Trigger struct {
	Seconds int
	Repeats bool
}

// Request is a scheduled local notification.
type Request struct {
	ID        string
	ChannelID string
	Content   Content
	Trigger   Trigger
}

// Notification is a delivered request.
type Notification struct {
	Request Request
	Date    time.Time
}

// Response is the user's interaction with a delivered notification.
type Response struct {
	Notification     Notification
	ActionIdentifier string
}

// Options configures a Service.
type Options struct {
	// Handler is fixed for the lifetime of the Service.
	Handler Handler

	// Permission is the initial permission status.
	Permission PermissionStatus

	// TimeUnit is the length of one trigger second. Zero means time.Second.
	TimeUnit time.Duration

	Logger *zap.Logger
}

type pendingRequest struct {
	req   Request
	timer *time.Timer
}

// Service schedules local notifications and delivers them through a Notifier.
// It is safe for concurrent use.
type Service struct {
	notifier        Notifier
	handler         Handler
	unit            time.Duration
	requiresChannel bool
	log             *zap.Logger

	mu         sync.Mutex
	permission PermissionStatus
	channels   map[string]Channel
	pending    map[string]*pendingRequest
	delivered  map[string]Notification
	last       *Notification
	badge      int

	nextSub   uint64
	received  map[uint64]func(Notification)
	responses map[uint64]func(Response)
}

// NewService creates the notification platform. The presentation handler is
// set here, once, and applies to every delivery.
func NewService(n Notifier, opts Options) *Service {
	if n == nil {
		n = Noop()
	}
	unit := opts.TimeUnit
	if unit <= 0 {
		unit = time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	perm := opts.Permission
	if perm == "" {
		perm = PermissionUndetermined
	}
	return &Service{
		notifier:        n,
		handler:         opts.Handler,
		unit:            unit,
		requiresChannel: requiresChannel(),
		log:             log.Named("notify"),
		permission:      perm,
		channels:        make(map[string]Channel),
		pending:         make(map[string]*pendingRequest),
		delivered:       make(map[string]Notification),
		received:        make(map[uint64]func(Notification)),
		responses:       make(map[uint64]func(Response)),
	}
}

// Handler returns the presentation handler configured at construction.
func (s *Service) Handler() Handler {
	return s.handler
}

// Schedule arms req and returns its identifier. A missing ID is generated.
func (s *Service) Schedule(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateTrigger(req.Trigger); err != nil {
		return "", err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.ChannelID == "" {
		req.ChannelID = DefaultChannelID
	}

	s.mu.Lock()
	if old, ok := s.pending[req.ID]; ok {
		old.timer.Stop()
	}
	p := &pendingRequest{req: req}
	s.pending[req.ID] = p
	p.timer = time.AfterFunc(s.delay(req.Trigger), func() { s.fire(p) })
	s.mu.Unlock()

	s.log.Info("notification scheduled",
		zap.String("id", req.ID),
		zap.Int("seconds", req.Trigger.Seconds),
		zap.Bool("repeats", req.Trigger.Repeats),
	)
	return req.ID, nil
}

func validateTrigger(t Trigger) error {
	if t.Seconds < 0 {
		return fmt.Errorf("%w: seconds must be >= 0, got %d", ErrInvalidTrigger, t.Seconds)
	}
	return nil
}

func (s *Service) delay(t Trigger) time.Duration {
	return time.Duration(t.Seconds) * s.unit
}

// period is the re-arm interval of a repeating trigger, at least one second.
func (s *Service) period(t Trigger) time.Duration {
	return time.Duration(max(t.Seconds, 1)) * s.unit
}

// CancelAllScheduled disarms every pending notification. Once it returns no
// cancelled request starts a new delivery.
func (s *Service) CancelAllScheduled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	n := len(s.pending)
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.log.Info("scheduled notifications cancelled", zap.Int("count", n))
	return nil
}

// Scheduled returns the pending requests ordered by ID.
func (s *Service) Scheduled() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p.req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fire delivers p if it is still pending and re-arms repeating triggers.
func (s *Service) fire(p *pendingRequest) {
	s.mu.Lock()
	if s.pending[p.req.ID] != p {
		s.mu.Unlock()
		return
	}
	if p.req.Trigger.Repeats {
		p.timer = time.AfterFunc(s.period(p.req.Trigger), func() { s.fire(p) })
	} else {
		delete(s.pending, p.req.ID)
	}

	n := Notification{Request: p.req, Date: time.Now()}
	s.delivered[n.Request.ID] = n
	s.last = &n
	granted := s.permission == PermissionGranted
	if granted && s.handler.SetBadge {
		s.badge++
	}
	urgency := UrgencyNormal
	if ch, ok := s.channels[p.req.ChannelID]; ok {
		urgency = ch.urgency()
	}
	listeners := make([]func(Notification), 0, len(s.received))
	for _, fn := range s.received {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	if !granted {
		s.log.Warn("notification suppressed: permission not granted", zap.String("id", p.req.ID))
	} else if s.handler.ShowAlert {
		err := s.notifier.Send(Alert{
			Title:   p.req.Content.Title,
			Message: p.req.Content.Body,
			Sound:   s.handler.PlaySound,
			Urgency: urgency,
		})
		if err != nil {
			s.log.Error("notification delivery failed", zap.String("id", p.req.ID), zap.Error(err))
		}
	}

	s.log.Debug("notification delivered", zap.String("id", p.req.ID))
	for _, fn := range listeners {
		fn(n)
	}
}

// LastNotification returns the most recently delivered notification.
func (s *Service) LastNotification() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Notification{}, false
	}
	return *s.last, true
}

// Badge returns the badge count accumulated by deliveries.
func (s *Service) Badge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badge
}

// Respond reports that the user acted on the delivered notification id.
// An empty action means DefaultActionIdentifier.
func (s *Service) Respond(id, action string) error {
	if action == "" {
		action = DefaultActionIdentifier
	}
	s.mu.Lock()
	n, ok := s.delivered[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNotification, id)
	}
	listeners := make([]func(Response), 0, len(s.responses))
	for _, fn := range s.responses {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	r := Response{Notification: n, ActionIdentifier: action}
	for _, fn := range listeners {
		fn(r)
	}
	return nil
}

// Subscription is a registered listener. Remove is idempotent.
type Subscription struct {
	once   sync.Once
	remove func()
}

// Remove unregisters the listener.
func (sub *Subscription) Remove() {
	if sub == nil {
		return
	}
	sub.once.Do(sub.remove)
}

// AddNotificationReceivedListener calls fn for every delivered notification.
// fn runs on the delivery goroutine.
func (s *Service) AddNotificationReceivedListener(fn func(Notification)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.received[id] = fn
	return &Subscription{remove: func() {
		s.mu.Lock()
		delete(s.received, id)
		s.mu.Unlock()
	}}
}

// AddNotificationResponseReceivedListener calls fn for every response.
func (s *Service) AddNotificationResponseReceivedListener(fn func(Response)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.responses[id] = fn
	return &Subscription{remove: func() {
		s.mu.Lock()
		delete(s.responses, id)
		s.mu.Unlock()
	}}
}

// Listeners returns the number of registered received and response listeners.
func (s *Service) Listeners() (received, responses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received), len(s.responses)
}
