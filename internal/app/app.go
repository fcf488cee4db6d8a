package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/scholarnav/internal/router"
	"github.com/abhisek/scholarnav/internal/screen"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/screens/form"
	"github.com/abhisek/scholarnav/internal/screens/home"
	"github.com/abhisek/scholarnav/internal/screens/welcome"
	"github.com/abhisek/scholarnav/internal/ui/layout"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

// Options configures the TUI.
type Options struct {
	Deps screens.Deps

	// Provider names the analysis provider shown on the home screen.
	Provider string

	// SkipSplash starts on the home screen.
	SkipSplash bool
}

type savedCountMsg struct {
	Count int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   screens.Deps
	saved  int
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen { return home.New(opts.Deps, opts.Provider) }

	var first screen.Screen
	if opts.SkipSplash {
		first = homeFactory()
	} else {
		first = welcome.New(homeFactory)
	}
	return AppModel{
		router: router.New(first),
		deps:   opts.Deps,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.countSaved())
}

func (m AppModel) countSaved() tea.Cmd {
	repo := m.deps.History
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		return savedCountMsg{Count: len(repo.Load(context.Background()))}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedCountMsg:
		m.saved = msg.Count
		return m, nil

	case screens.SavedChangedMsg:
		// The active screen may care too (home shows the count).
		return m, tea.Batch(m.countSaved(), m.router.Update(msg))

	case screens.NewAnalysisMsg:
		return m, tea.Batch(m.router.PopToRoot(), m.router.Push(form.New(m.deps)))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscCapturer); ok && c.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.saved, theme.Name, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
