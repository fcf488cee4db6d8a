package form

import (
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/ui/components"
	"github.com/abhisek/scholarnav/internal/ui/layout"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (f *FormScreen) View(width, height int) string {
	formWidth := min(width-4, 76)

	var top []string
	if f.errMsg != "" {
		top = append(top, components.ErrorBanner(f.errMsg, formWidth))
	}

	// Each field block is rendered separately so the focused one can be
	// kept on screen.
	var lines []string
	focusLine := 0
	for pos := posName; pos < numPositions; pos++ {
		if pos == f.focus {
			focusLine = len(lines)
		}
		lines = append(lines, strings.Split(f.renderField(pos, formWidth), "\n")...)
		lines = append(lines, "")
	}

	bodyHeight := height - lipgloss.Height(strings.Join(top, "\n"))
	if len(top) > 0 {
		bodyHeight--
	}
	offset := max(focusLine-bodyHeight/3, 0)
	visible, _ := layout.Window(lines, offset, bodyHeight)

	content := strings.Join(append(top, strings.Join(visible, "\n")), "\n")
	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(max((width-formWidth)/2, 0)).
		Render(content)
}

func (f *FormScreen) renderField(pos, width int) string {
	switch pos {
	case posCategory:
		return f.category.View(func(o string) string {
			return scholarship.Category(o).Label()
		})
	case posSubmit:
		return f.renderSubmit(width)
	}

	in := f.inputs[pos]
	view := in.View()
	if slices.Contains(f.required, in.Label) {
		view += lipgloss.NewStyle().Foreground(theme.Error).Render("  required")
	}
	return view
}

func (f *FormScreen) renderSubmit(width int) string {
	if f.loading {
		frame := spinnerFrames[f.spinner%len(spinnerFrames)]
		return lipgloss.NewStyle().
			Width(width).
			Foreground(theme.TextDim).
			Bold(true).
			Render(frame + " Analyzing Opportunities...")
	}
	b := components.NewButton("Analyze Eligibility", f.focus == posSubmit, nil)
	return b.View()
}
