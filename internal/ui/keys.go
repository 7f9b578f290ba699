// Package ui provides the terminal user interface for notiftest.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and customization.
package ui

import (
	"strings"

	"notiftest/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// =============================================================================
// Screen Keys
// =============================================================================

// KeyMap defines the keys of the notification screen.
type KeyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Next         key.Binding
	Prev         key.Binding
	Activate     key.Binding
	Schedule     key.Binding
	ToggleRepeat key.Binding
	EditInterval key.Binding
	OpenLast     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(&config.KeysConfig{})
}

// NewKeyMap creates key bindings from config.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
		Next: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Next, "tab", "j", "down")...),
			key.WithHelp("tab", "next control"),
		),
		Prev: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Prev, "shift+tab", "k", "up")...),
			key.WithHelp("shift+tab", "previous control"),
		),
		Activate: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Activate, "enter", " ")...),
			key.WithHelp("enter/space", "press"),
		),
		Schedule: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Schedule, "s")...),
			key.WithHelp("s", "schedule"),
		),
		ToggleRepeat: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleRepeat, "r")...),
			key.WithHelp("r", "toggle repeat"),
		),
		EditInterval: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditInterval, "i")...),
			key.WithHelp("i", "edit interval"),
		),
		OpenLast: key.NewBinding(
			key.WithKeys(parseKeys(cfg.OpenLast, "o")...),
			key.WithHelp("o", "open last"),
		),
	}
}

// ShortHelp returns the short help (implements help.KeyMap).
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Schedule, k.ToggleRepeat, k.EditInterval, k.Help, k.Quit}
}

// FullHelp returns the full help (implements help.KeyMap).
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Activate},
		{k.Schedule, k.ToggleRepeat, k.EditInterval, k.OpenLast},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Input Keys (interval field)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "cancel"),
		),
	}
}
