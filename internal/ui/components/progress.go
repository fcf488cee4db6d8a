package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/ui/theme"
)

// ProgressBar is a horizontal percentage bar. Percent is shown as given;
// only the filled length is clamped to 0-100.
type ProgressBar struct {
	Label   string
	Percent int
	Width   int
	Fill    color.Color // nil uses theme.Secondary
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent, width int, fill color.Color) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
		Fill:    fill,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := fmt.Sprintf("  %d%%", p.Percent)
	barWidth := max(p.Width-lipgloss.Width(result)-len(suffix), 4)

	filled := barWidth * min(max(p.Percent, 0), 100) / 100
	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(fill).Bold(true).Render(suffix)
	return result
}
