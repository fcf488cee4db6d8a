package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/ui/theme"
)

const tagline = "Find the right funding for your education."

// contentWidth returns the uniform inner width shared by every section.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

func renderTitle(cw int) string {
	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Scholarship ") +
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Navigator Pro")
	badge := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render("EXPERT ACADEMIC CONSULTANT")
	sub := lipgloss.NewStyle().Foreground(theme.TextDim).Render(tagline)

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(badge + "\n\n" + title + "\n" + sub)
}

// renderStatsBar shows the saved-profile count and active provider.
func renderStatsBar(saved int, provider string, cw int) string {
	savedStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	providerStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	p := dim.Render("◇ NO PROVIDER")
	if provider != "" {
		p = providerStyle.Render("◆ " + strings.ToUpper(provider))
	}

	stats := fmt.Sprintf("%s  %s",
		savedStyle.Render(fmt.Sprintf("★ %d SAVED", saved)),
		p,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

const buttonWidth = 24

// renderMenu draws each item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgCard).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			buttons[i] = selectedBtn.Render("▸ " + label)
		} else {
			buttons[i] = normalBtn.Render(label)
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact is the borderless menu for short terminals.
func renderMenuCompact(items []string, selected int, cw int) string {
	lines := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			lines[i] = lipgloss.NewStyle().
				Foreground(theme.BgCard).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		} else {
			lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderProviderBanner warns that analyses cannot run.
func renderProviderBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Warning).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set GEMINI_API_KEY (or another provider key) to analyze profiles. See scholarnav --help")
}

func renderDisclaimer(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render("Information is based on AI analysis. Always verify with official scholarship portals.")
}

// renderCabinetFrame centers content inside a bordered frame.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
