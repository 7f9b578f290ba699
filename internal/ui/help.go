package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
	keys   KeyMap
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, keys KeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		keys:   keys,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay from the configured key bindings.
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	sections := []string{"Controls", "Notifications", "General"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("notiftest - Keyboard Shortcuts"))
	b.WriteString("\n")

	for i, group := range h.keys.FullHelp() {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sections[i]))
		b.WriteString("\n")
		for _, binding := range group {
			hk := binding.Help()
			b.WriteString(keyStyle.Render(hk.Key) + descStyle.Render(hk.Desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())
	return RenderCentered(content, h.width, h.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
