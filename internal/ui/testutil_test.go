package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"notiftest/internal/config"
	"notiftest/internal/notify"
	"notiftest/internal/registrar"
	"notiftest/internal/scheduler"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors so views can be matched as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// fakeRegistrar returns a fixed result and raises the given alerts.
type fakeRegistrar struct {
	result registrar.Result
	alerts []string
	queue  *AlertQueue
}

func (f *fakeRegistrar) Register(context.Context) registrar.Result {
	for _, a := range f.alerts {
		f.queue.Alert(a)
	}
	return f.result
}

// testEnv bundles a real notification service with a controller.
type testEnv struct {
	svc   *notify.Service
	ctrl  *scheduler.Controller
	queue *AlertQueue
}

// newTestEnv builds a granted service where one trigger second is unit.
func newTestEnv(t *testing.T, unit time.Duration) *testEnv {
	t.Helper()
	svc := notify.NewService(notify.Noop(), notify.Options{
		Handler:    notify.DefaultHandler(),
		Permission: notify.PermissionGranted,
		TimeUnit:   unit,
	})
	t.Cleanup(func() { _ = svc.CancelAllScheduled(context.Background()) })

	ctrl, err := scheduler.NewController(svc, scheduler.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return &testEnv{svc: svc, ctrl: ctrl, queue: NewAlertQueue()}
}

// newTestApp creates an App wired to env with the given registrar.
func newTestApp(t *testing.T, env *testEnv, reg Registrar) *App {
	t.Helper()
	app := NewApp(Deps{
		Registrar:  reg,
		Controller: env.ctrl,
		Service:    env.svc,
		Alerts:     env.queue,
	}, createTestStyles(), nil)
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

// keyMsg builds a key message from its string form.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// runCmd executes cmd synchronously and feeds the result back into app.
// Batches are expanded; nil messages are dropped.
func runCmd(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(app, c)
		}
		return
	}
	if msg != nil {
		app.Update(msg)
	}
}

// contains reports whether s contains substr.
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// containsText reports whether the words of text appear in view in order,
// ignoring line wrapping, padding and box borders.
func containsText(view, text string) bool {
	var words []string
	for _, f := range strings.Fields(view) {
		if strings.Trim(f, "│─╭╮╰╯") != "" {
			words = append(words, strings.Trim(f, "│"))
		}
	}
	return strings.Contains(strings.Join(words, " "), strings.Join(strings.Fields(text), " "))
}
