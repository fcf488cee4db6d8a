package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/ui/theme"
)

// ErrorBanner renders msg in a bordered error box of the given width.
func ErrorBanner(msg string, width int) string {
	return lipgloss.NewStyle().
		Width(max(width-2, 10)).
		Foreground(theme.Error).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error).
		Padding(0, 1).
		Render("✗ " + msg)
}
