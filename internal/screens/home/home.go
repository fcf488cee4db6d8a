package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/prefs"

	"github.com/abhisek/scholarnav/internal/router"
	"github.com/abhisek/scholarnav/internal/screen"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/screens/form"
	"github.com/abhisek/scholarnav/internal/screens/history"
	"github.com/abhisek/scholarnav/internal/ui/components"
	"github.com/abhisek/scholarnav/internal/ui/layout"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

type savedCountMsg struct {
	Count int
}

type toggleThemeMsg struct{}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps       screens.Deps
	provider   string
	menu       components.Menu
	menuLabels []string
	saved      int
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. provider names the configured analysis
// provider, empty when none is available.
func New(deps screens.Deps, provider string) *HomeScreen {
	menuLabels := []string{"NEW ANALYSIS", "SAVED PROFILES", "TOGGLE THEME", "EXIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: form.New(deps)}
			}
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return func() tea.Msg { return toggleThemeMsg{} }
		}},
		{Label: menuLabels[3], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	if deps.Analyzer == nil {
		provider = ""
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &HomeScreen{
		deps:       deps,
		provider:   provider,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.countSaved()
}

func (h *HomeScreen) countSaved() tea.Cmd {
	repo := h.deps.History
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		return savedCountMsg{Count: len(repo.Load(context.Background()))}
	}
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "T", Description: "Theme"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedCountMsg:
		h.saved = msg.Count
		return h, nil
	case router.RevealedMsg, screens.SavedChangedMsg:
		return h, h.countSaved()
	case toggleThemeMsg:
		return h, h.toggleTheme()
	case tea.KeyPressMsg:
		if msg.String() == "t" {
			return h, h.toggleTheme()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// toggleTheme switches the palette immediately and persists the choice
// in the background.
func (h *HomeScreen) toggleTheme() tea.Cmd {
	p := h.deps.Prefs
	if p == nil {
		return nil
	}
	next := prefs.Theme(theme.Name).Toggle()
	theme.Use(theme.ByName(string(next)))
	logger := h.deps.Logger
	return func() tea.Msg {
		if err := p.SetTheme(context.Background(), next); err != nil {
			logger.Warn("persist theme", zap.Error(err))
		}
		return screens.ThemeChangedMsg{Theme: next}
	}
}

func (h *HomeScreen) View(width, height int) string {
	termHeight := height + layout.HeaderHeight + layout.FooterHeight
	compact := termHeight < 30

	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw),
		renderStatsBar(h.saved, h.provider, cw),
	}
	if h.provider == "" {
		sections = append(sections, renderProviderBanner(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
		sections = append(sections, renderDisclaimer(cw))
	}

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
