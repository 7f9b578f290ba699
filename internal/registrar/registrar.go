// Package registrar prepares the notification platform on startup and
// obtains this installation's push token.
package registrar

import (
	"context"
	"errors"
	"fmt"

	"notiftest/internal/notify"

	"go.uber.org/zap"
)

// Alert messages shown to the user.
const (
	NoPhysicalDeviceMessage = "Must use physical device for Push Notifications"
	PermissionDeniedMessage = "Failed to get push token for push notification!"
)

// ErrProjectIDNotFound means neither the config nor the environment names a project.
// The capitalised text is user-visible: it is shown verbatim in the token slot.
var ErrProjectIDNotFound = errors.New("Project ID not found")

// Reason classifies a registration outcome.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoPhysicalDevice
	ReasonPermissionDenied
	ReasonMissingProjectID
	ReasonTokenExchange
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonNoPhysicalDevice:
		return "no physical device"
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonMissingProjectID:
		return "missing project id"
	case ReasonTokenExchange:
		return "token exchange failed"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Result is the outcome of Register. Exactly one of Token and Reason is set.
type Result struct {
	Token  string
	Reason Reason
	Err    error
}

// OK reports whether a token was obtained.
func (r Result) OK() bool {
	return r.Reason == ReasonNone && r.Token != ""
}

// TokenFailure reports whether the token exchange itself failed, as opposed
// to registration being refused before it started.
func (r Result) TokenFailure() bool {
	return r.Reason == ReasonMissingProjectID || r.Reason == ReasonTokenExchange
}

// Display is the text shown in place of the token: the token itself, or the
// error text for token failures. Refusals display nothing.
func (r Result) Display() string {
	switch {
	case r.OK():
		return r.Token
	case r.TokenFailure() && r.Err != nil:
		return r.Err.Error()
	default:
		return ""
	}
}

// Platform is the slice of the notification platform the registrar uses.
type Platform interface {
	RequiresChannel() bool
	SetNotificationChannel(ctx context.Context, id string, ch notify.Channel) (notify.Channel, error)
	GetPermissions(ctx context.Context) (notify.PermissionStatus, error)
	RequestPermissions(ctx context.Context) (notify.PermissionStatus, error)
}

// TokenSource issues push tokens.
type TokenSource interface {
	GetPushToken(ctx context.Context, projectID string) (string, error)
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(message string)

// Alert calls f.
func (f AlerterFunc) Alert(message string) { f(message) }

// Options configures a Registrar.
type Options struct {
	// PhysicalDevice is false on simulators and CI hosts.
	PhysicalDevice bool

	// ProjectID resolves the project at registration time.
	ProjectID func() string

	Alerter Alerter
	Logger  *zap.Logger
}

// Registrar runs the startup registration sequence.
type Registrar struct {
	platform Platform
	tokens   TokenSource
	opts     Options
	log      *zap.Logger
}

// New creates a Registrar.
func New(p Platform, tokens TokenSource, opts Options) *Registrar {
	if opts.ProjectID == nil {
		opts.ProjectID = func() string { return "" }
	}
	if opts.Alerter == nil {
		opts.Alerter = AlerterFunc(func(string) {})
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Registrar{platform: p, tokens: tokens, opts: opts, log: log.Named("registrar")}
}

// DefaultChannel is the channel configured on platforms that need one.
func DefaultChannel() notify.Channel {
	return notify.Channel{
		Name:             "default",
		Importance:       notify.ImportanceMax,
		VibrationPattern: []int{0, 250, 250, 250},
		LightColor:       "#FF231F7C",
	}
}

// Register ensures the channel, checks and requests permission, and fetches
// the push token. Failures are reported in the Result, never retried.
func (r *Registrar) Register(ctx context.Context) Result {
	if r.platform.RequiresChannel() {
		if _, err := r.platform.SetNotificationChannel(ctx, notify.DefaultChannelID, DefaultChannel()); err != nil {
			r.log.Warn("set notification channel", zap.Error(err))
		}
	}

	if !r.opts.PhysicalDevice {
		r.opts.Alerter.Alert(NoPhysicalDeviceMessage)
		return Result{Reason: ReasonNoPhysicalDevice}
	}

	status, err := r.platform.GetPermissions(ctx)
	if err != nil {
		r.log.Warn("get permissions", zap.Error(err))
	}
	if status != notify.PermissionGranted {
		status, err = r.platform.RequestPermissions(ctx)
		if err != nil {
			r.log.Warn("request permissions", zap.Error(err))
		}
	}
	if status != notify.PermissionGranted {
		r.opts.Alerter.Alert(PermissionDeniedMessage)
		return Result{Reason: ReasonPermissionDenied, Err: err}
	}

	projectID := r.opts.ProjectID()
	if projectID == "" {
		r.log.Error("push token unavailable", zap.Error(ErrProjectIDNotFound))
		return Result{Reason: ReasonMissingProjectID, Err: fmt.Errorf("Error: %w", ErrProjectIDNotFound)}
	}

	token, err := r.tokens.GetPushToken(ctx, projectID)
	if err != nil {
		r.log.Error("push token unavailable", zap.Error(err))
		return Result{Reason: ReasonTokenExchange, Err: fmt.Errorf("Error: %w", err)}
	}

	r.log.Info("push token obtained", zap.String("token", token))
	return Result{Token: token}
}
