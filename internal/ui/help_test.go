package ui

import (
	"strings"
	"testing"

	"notiftest/internal/config"
)

func TestHelpOverlay_ContentStructure(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), DefaultKeyMap())
	help.SetSize(100, 40)

	output := help.View()

	sections := []string{
		"Controls",
		"Notifications",
		"General",
	}

	for _, section := range sections {
		if !contains(output, section) {
			t.Errorf("help overlay should contain section: %s", section)
		}
	}
}

func TestHelpOverlay_ContainsKeyBindings(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), DefaultKeyMap())
	help.SetSize(100, 40)

	output := help.View()

	bindings := []string{
		"schedule",
		"toggle repeat",
		"edit interval",
		"open last",
		"quit",
	}

	for _, binding := range bindings {
		if !contains(output, binding) {
			t.Errorf("help overlay should mention: %s", binding)
		}
	}
}

func TestHelpOverlay_ReflectsCustomKeys(t *testing.T) {
	setupTest(t)

	keys := NewKeyMap(&config.KeysConfig{Schedule: "x"})
	if got := keys.Schedule.Keys(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("schedule keys = %v, want [x]", got)
	}

	help := NewHelpOverlay(createTestStyles(), keys)
	help.SetSize(80, 40)

	if !contains(help.View(), "Keyboard Shortcuts") {
		t.Error("help overlay should render its title")
	}
}

func TestHelpOverlay_NarrowTerminal(t *testing.T) {
	setupTest(t)

	help := NewHelpOverlay(createTestStyles(), DefaultKeyMap())
	help.SetSize(30, 40)

	for _, line := range strings.Split(help.View(), "\n") {
		if w := len([]rune(line)); w > 30 {
			t.Errorf("line wider than terminal (%d): %q", w, line)
		}
	}
}

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name     string
		custom   string
		defaults []string
		want     []string
	}{
		{"empty uses defaults", "", []string{"q", "ctrl+c"}, []string{"q", "ctrl+c"}},
		{"single", "x", []string{"q"}, []string{"x"}},
		{"comma separated", "a, b ,c", nil, []string{"a", "b", "c"}},
		{"space keyword", "space", nil, []string{" "}},
		{"blank entries dropped", "a,,b", nil, []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseKeys(tc.custom, tc.defaults...)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Errorf("parseKeys(%q) = %q, want %q", tc.custom, got, tc.want)
			}
		})
	}
}
