package ui

import (
	"bytes"
	"testing"
	"time"

	"notiftest/internal/registrar"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

// TestProgram_RegisterToggleSchedule drives the whole screen through a real
// Bubble Tea program.
func TestProgram_RegisterToggleSchedule(t *testing.T) {
	setupTest(t)
	env := newTestEnv(t, time.Hour)
	reg := &fakeRegistrar{
		result: registrar.Result{Token: "ExponentPushToken[e2e]"},
		queue:  env.queue,
	}
	app := NewApp(Deps{
		Registrar:  reg,
		Controller: env.ctrl,
		Service:    env.svc,
		Alerts:     env.queue,
	}, createTestStyles(), nil)
	t.Cleanup(app.Close)

	tm := teatest.NewTestModel(t, app, teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("ExponentPushToken[e2e]"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Scheduled in 5s (repeats: true)"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(*App)
	if !ok {
		t.Fatalf("final model is %T", tm.FinalModel(t))
	}
	if !final.result.OK() {
		t.Errorf("registration result = %+v", final.result)
	}

	pending := env.svc.Scheduled()
	if len(pending) != 1 || !pending[0].Trigger.Repeats {
		t.Errorf("pending = %+v, want one repeating reminder", pending)
	}

	received, responses := env.svc.Listeners()
	if received != 0 || responses != 0 {
		t.Errorf("listeners after quit = %d/%d, want 0/0", received, responses)
	}
}
