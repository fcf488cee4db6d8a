package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/ui/theme"
)

// Choice is a single-line selector cycled with left/right.
type Choice struct {
	Label    string
	Options  []string
	Selected int
	focused  bool
}

// NewChoice creates a Choice with the first option selected.
func NewChoice(label string, options []string) Choice {
	return Choice{Label: label, Options: options}
}

func (c *Choice) Focus()       { c.focused = true }
func (c *Choice) Blur()        { c.focused = false }
func (c Choice) Focused() bool { return c.focused }

// Value returns the selected option, or "" when there are none.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// Update moves the selection while focused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || len(c.Options) == 0 {
		return c, nil
	}
	switch kmsg.String() {
	case "left", "h":
		c.Selected = (c.Selected - 1 + len(c.Options)) % len(c.Options)
	case "right", "l", "space":
		c.Selected = (c.Selected + 1) % len(c.Options)
	}
	return c, nil
}

// View renders the label and the options, selected one highlighted.
func (c Choice) View(labelFor func(string) string) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(c.Label)
	if c.focused {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(c.Label)
	}

	parts := make([]string, len(c.Options))
	for i, o := range c.Options {
		text := o
		if labelFor != nil {
			text = labelFor(o)
		}
		if i == c.Selected {
			parts[i] = theme.Selected.Render("[" + text + "]")
		} else {
			parts[i] = theme.Hint.Render(" " + text + " ")
		}
	}
	return label + "\n" + strings.Join(parts, " ")
}
