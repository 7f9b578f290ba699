// Package ui provides terminal user interface components for notiftest.
// This file contains the main App model: the single notification test
// screen, wired to the registrar, the schedule controller and the
// notification platform's listeners.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"notiftest/internal/config"
	"notiftest/internal/notify"
	"notiftest/internal/registrar"
	"notiftest/internal/scheduler"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	// HeaderTitle is the centered screen title.
	HeaderTitle = "Test notifications"

	// ButtonLabel is the schedule button caption.
	ButtonLabel = "Schedule notification after 5 seconds"

	// RepeatLabel is the checkbox caption.
	RepeatLabel = "Repeated"

	tokenPrefix = "Your expo push token: "
)

// Control identifies each focusable control on the screen.
type Control int

const (
	ControlSchedule Control = iota
	ControlRepeat
	ControlInterval
	controlCount
)

// Registrar runs the startup registration sequence.
type Registrar interface {
	Register(ctx context.Context) registrar.Result
}

// AlertQueue carries registration alerts into the UI. It implements
// registrar.Alerter.
type AlertQueue struct {
	ch chan string
}

// NewAlertQueue creates an empty queue holding one pending alert. A
// registration raises at most one.
func NewAlertQueue() *AlertQueue {
	return &AlertQueue{ch: make(chan string, 1)}
}

// Alert enqueues message without blocking. While an alert is still waiting
// for the UI, further alerts are dropped.
func (q *AlertQueue) Alert(message string) {
	select {
	case q.ch <- message:
	default:
	}
}

// Deps are the collaborators the screen drives.
type Deps struct {
	Registrar  Registrar
	Controller *scheduler.Controller
	Service    *notify.Service
	Alerts     *AlertQueue
	Logger     *zap.Logger
}

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys *config.KeysConfig
}

// App is the notification test screen.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	registrar  Registrar
	controller *scheduler.Controller
	service    *notify.Service
	alertQueue *AlertQueue
	log        *zap.Logger

	styles      *Styles
	config      *AppConfig
	helpOverlay *HelpOverlay
	keys        KeyMap
	inputKeys   InputKeyMap

	// Registration
	result     registrar.Result
	registered bool
	alerts     []string

	// Schedule controls
	focus    Control
	busy     bool
	editing  bool
	input    textinput.Model
	received int
	last     *notify.Notification

	// Platform subscriptions, removed on teardown
	subs      []*notify.Subscription
	events    chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once

	showHelp    bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool
}

// NewApp creates the screen. Registration and subscriptions start in Init.
func NewApp(deps Deps, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{Keys: &config.KeysConfig{}}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	keys := NewKeyMap(cfg.Keys)

	ti := textinput.New()
	ti.Prompt = "Interval (s): "
	ti.Placeholder = "5"
	ti.CharLimit = 6
	ti.Width = 8
	ti.PromptStyle = styles.InputPromptStyle
	ti.TextStyle = styles.InputTextStyle

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		ctx:         ctx,
		cancel:      cancel,
		registrar:   deps.Registrar,
		controller:  deps.Controller,
		service:     deps.Service,
		alertQueue:  deps.Alerts,
		log:         log.Named("ui"),
		styles:      styles,
		config:      cfg,
		helpOverlay: NewHelpOverlay(styles, keys),
		keys:        keys,
		inputKeys:   NewInputKeyMap(cfg.Keys),
		focus:       ControlSchedule,
		input:       ti,
		events:      make(chan tea.Msg, 16),
		done:        make(chan struct{}),
	}
}

// tickMsg is sent periodically for status expiry.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init subscribes to platform events and starts registration.
func (a *App) Init() tea.Cmd {
	a.subscribe()
	return tea.Batch(
		tickCmd(),
		registerCmd(a.ctx, a.registrar),
		waitForEvent(a.events, a.done),
		waitForAlert(a.alertQueue, a.done),
	)
}

// subscribe registers the received and response listeners. Both post into
// the event channel so the update loop owns all state changes.
func (a *App) subscribe() {
	if a.service == nil || len(a.subs) > 0 {
		return
	}
	a.subs = append(a.subs,
		a.service.AddNotificationReceivedListener(func(n notify.Notification) {
			a.post(notificationReceivedMsg{notification: n})
		}),
		a.service.AddNotificationResponseReceivedListener(func(r notify.Response) {
			a.post(responseMsg{response: r})
		}),
	)
}

func (a *App) post(msg tea.Msg) {
	select {
	case a.events <- msg:
	case <-a.done:
	}
}

// Close removes both subscriptions and stops pending commands. Safe to
// call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		for _, sub := range a.subs {
			sub.Remove()
		}
		a.subs = nil
		close(a.done)
		a.cancel()
	})
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		a.result = msg.result
		a.registered = true
		if msg.result.TokenFailure() && msg.result.Err != nil {
			a.SetStatus("Push token: "+msg.result.Err.Error(), true)
		}
		return a, nil

	case alertMsg:
		a.alerts = append(a.alerts, msg.text)
		return a, waitForAlert(a.alertQueue, a.done)

	case rescheduledMsg:
		a.busy = false
		switch {
		case errors.Is(msg.err, scheduler.ErrBusy):
			a.SetStatus("Schedule: busy", true)
		case msg.err != nil:
			a.SetStatus("Schedule: "+msg.err.Error(), true)
		default:
			s := a.controller.Settings()
			a.log.Debug("scheduled", zap.String("id", msg.id))
			a.SetStatus(fmt.Sprintf("Scheduled in %ds (repeats: %t)", s.IntervalSeconds, s.Repeats), false)
		}
		return a, nil

	case notificationReceivedMsg:
		n := msg.notification
		a.last = &n
		a.received++
		return a, waitForEvent(a.events, a.done)

	case responseMsg:
		a.log.Info("notification response",
			zap.String("id", msg.response.Notification.Request.ID),
			zap.String("action", msg.response.ActionIdentifier),
			zap.String("title", msg.response.Notification.Request.Content.Title),
			zap.String("body", msg.response.Notification.Request.Content.Body),
			zap.Time("date", msg.response.Notification.Date),
		)
		a.SetStatus("Opened: "+msg.response.Notification.Request.Content.Title, false)
		return a, waitForEvent(a.events, a.done)

	case respondedMsg:
		if msg.err != nil {
			a.SetStatus("Open: "+msg.err.Error(), true)
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.helpOverlay.SetSize(msg.Width, msg.Height)
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Alerts block the screen until dismissed.
	if len(a.alerts) > 0 {
		switch msg.String() {
		case "enter", "esc", " ":
			a.alerts = a.alerts[1:]
		}
		return a, nil
	}

	if a.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.editing {
		return a.handleInput(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		a.Close()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.keys.Next):
		a.focus = (a.focus + 1) % controlCount
		return a, nil

	case key.Matches(msg, a.keys.Prev):
		a.focus = (a.focus + controlCount - 1) % controlCount
		return a, nil

	case key.Matches(msg, a.keys.Activate):
		return a.activate(a.focus)

	case key.Matches(msg, a.keys.Schedule):
		return a.activate(ControlSchedule)

	case key.Matches(msg, a.keys.ToggleRepeat):
		return a.activate(ControlRepeat)

	case key.Matches(msg, a.keys.EditInterval):
		return a.activate(ControlInterval)

	case key.Matches(msg, a.keys.OpenLast):
		if a.last == nil || a.service == nil {
			a.SetStatus("No notification delivered yet", true)
			return a, nil
		}
		return a, respondCmd(a.service, a.last.Request.ID)
	}

	return a, nil
}

// activate presses control c.
func (a *App) activate(c Control) (tea.Model, tea.Cmd) {
	a.focus = c
	switch c {
	case ControlSchedule:
		if a.busy {
			a.SetStatus("Schedule: busy", true)
			return a, nil
		}
		a.busy = true
		return a, rescheduleCmd(a.ctx, a.controller)

	case ControlRepeat:
		on := a.controller.ToggleRepeats()
		a.SetStatus(fmt.Sprintf("Repeat: %t", on), false)
		return a, nil

	case ControlInterval:
		a.editing = true
		a.input.SetValue(strconv.Itoa(a.controller.Settings().IntervalSeconds))
		a.input.CursorEnd()
		return a, a.input.Focus()
	}
	return a, nil
}

func (a *App) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.inputKeys.Cancel):
		a.editing = false
		a.input.Blur()
		a.SetStatus("Canceled", false)
		return a, nil

	case key.Matches(msg, a.inputKeys.Confirm):
		raw := strings.TrimSpace(a.input.Value())
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.SetStatus(fmt.Sprintf("Interval: %q is not a number", raw), true)
			return a, nil
		}
		if err := a.controller.SetInterval(n); err != nil {
			a.SetStatus("Interval: "+err.Error(), true)
			return a, nil
		}
		a.editing = false
		a.input.Blur()
		a.SetStatus(fmt.Sprintf("Interval set to %ds", n), false)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// Busy reports whether a reschedule is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// View renders the screen.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}
	if len(a.alerts) > 0 {
		return a.renderAlert()
	}

	width := a.width
	if width <= 0 {
		width = 80
	}

	header := lipgloss.PlaceHorizontal(width, lipgloss.Center, a.styles.TitleStyle.Render(" "+HeaderTitle+" "))

	body := lipgloss.JoinVertical(lipgloss.Center,
		a.renderToken(),
		"",
		a.renderButton(),
		"",
		a.renderCheckbox(),
		"",
		a.renderInterval(),
		"",
		a.renderDelivery(),
	)

	bodyHeight := a.height - 3
	var content string
	if bodyHeight > lipgloss.Height(body) {
		content = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	} else {
		content = lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
	}

	return header + "\n" + content + "\n" + a.renderHelpBar()
}

func (a *App) renderToken() string {
	label := a.styles.TokenLabelStyle.Render(tokenPrefix)
	if !a.registered {
		return label
	}
	text := a.result.Display()
	if a.result.TokenFailure() {
		return label + a.styles.ErrorStyle.Render(text)
	}
	return label + a.styles.TokenStyle.Render(text)
}

func (a *App) renderButton() string {
	switch {
	case a.busy:
		return a.styles.ButtonDisabledStyle.Render(ButtonLabel)
	case a.focus == ControlSchedule:
		return a.styles.ButtonFocusedStyle.Render(ButtonLabel)
	default:
		return a.styles.ButtonStyle.Render(ButtonLabel)
	}
}

func (a *App) renderCheckbox() string {
	box := a.styles.CheckboxUnchecked
	if a.controller.Settings().Repeats {
		box = a.styles.CheckboxChecked
	}
	label := a.styles.LabelStyle.Render(" " + RepeatLabel)
	if a.focus == ControlRepeat {
		label = a.styles.LabelFocusedStyle.Render(" " + RepeatLabel)
	}
	return box + label
}

func (a *App) renderInterval() string {
	if a.editing {
		return a.input.View()
	}
	text := fmt.Sprintf("Interval: %ds", a.controller.Settings().IntervalSeconds)
	if a.focus == ControlInterval {
		return a.styles.LabelFocusedStyle.Render(text)
	}
	return a.styles.LabelStyle.Render(text)
}

func (a *App) renderDelivery() string {
	if a.last == nil {
		return a.styles.DeliveryStyle.Render("No notifications delivered")
	}
	c := a.last.Request.Content
	return a.styles.DeliveryStyle.Render(fmt.Sprintf("Last (%d): %s %s · %s",
		a.received, a.last.Date.Format("15:04:05"), c.Title, c.Body))
}

// renderAlert shows the oldest pending alert as a modal.
func (a *App) renderAlert() string {
	boxWidth := 64
	if a.width > 0 {
		boxWidth = min(64, max(20, a.width-4))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorWarning).
		Padding(1, 2).
		Width(boxWidth)

	title := lipgloss.NewStyle().Bold(true).Foreground(a.styles.ColorWarning).Render("Alert")
	body := lipgloss.NewStyle().Foreground(a.styles.ColorText).Render(a.alerts[0])
	hint := a.styles.RenderHelp("enter", "OK")

	content := box.Render(title + "\n\n" + body + "\n\n" + hint)
	if a.width <= 0 || a.height <= 0 {
		return content
	}
	return RenderCentered(content, a.width, a.height)
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.editing {
		return a.styles.RenderHelp(
			"enter", "save",
			"esc", "cancel",
		)
	}

	return a.styles.RenderHelp(
		"s", "schedule",
		"r", "repeat",
		"i", "interval",
		"o", "open last",
		"tab", "focus",
		"?", "help",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program and tears down subscriptions on exit.
func Run(deps Deps, styles *Styles, cfg *AppConfig) error {
	app := NewApp(deps, styles, cfg)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
