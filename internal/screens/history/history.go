package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	hist "github.com/abhisek/scholarnav/internal/history"
	"github.com/abhisek/scholarnav/internal/report"
	"github.com/abhisek/scholarnav/internal/router"
	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/screen"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/screens/result"
	"github.com/abhisek/scholarnav/internal/ui/layout"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

type recordsLoadedMsg struct {
	Records []hist.SavedRecord
}

type deletedMsg struct {
	Err error
}

// HistoryScreen lists saved analyses, newest first.
type HistoryScreen struct {
	deps       screens.Deps
	records    []hist.SavedRecord
	selected   int
	loaded     bool
	confirming bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.EscCapturer = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps screens.Deps) *HistoryScreen {
	return &HistoryScreen{deps: deps}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	repo := s.deps.History
	return func() tea.Msg {
		return recordsLoadedMsg{Records: repo.Load(context.Background())}
	}
}

func (s *HistoryScreen) Title() string {
	return "Saved Profiles"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	if len(s.records) == 0 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "D", Description: "Delete"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) CapturesEsc() bool {
	return s.confirming
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		s.records = msg.Records
		s.loaded = true
		s.selected = min(s.selected, max(len(s.records)-1, 0))
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		return s, tea.Batch(s.load(), func() tea.Msg { return screens.SavedChangedMsg{} })

	case router.RevealedMsg:
		return s, s.load()

	case tea.KeyPressMsg:
		if s.confirming {
			s.confirming = false
			if msg.String() == "y" {
				return s, s.deleteSelected()
			}
			return s, nil
		}

		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			if rec, ok := s.current(); ok {
				next := result.FromRecord(s.deps, rec)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		case "d", "delete":
			if _, ok := s.current(); ok {
				s.confirming = true
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) current() (hist.SavedRecord, bool) {
	if s.selected < 0 || s.selected >= len(s.records) {
		return hist.SavedRecord{}, false
	}
	return s.records[s.selected], true
}

func (s *HistoryScreen) deleteSelected() tea.Cmd {
	rec, ok := s.current()
	if !ok {
		return nil
	}
	repo := s.deps.History
	return func() tea.Msg {
		return deletedMsg{Err: repo.Delete(context.Background(), rec.ID)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading saved profiles...")
	}
	if len(s.records) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No saved profiles yet. Run an analysis and press S to save it.")
	}

	var lines []string
	if s.errMsg != "" {
		lines = append(lines, center.Foreground(theme.Error).Render("Error: "+s.errMsg), "")
	}

	selectedLine := 0
	for i, rec := range s.records {
		if i == s.selected {
			selectedLine = len(lines)
		}
		lines = append(lines, s.renderRecord(i, rec, width)...)
		lines = append(lines, "")
	}

	if s.confirming {
		if rec, ok := s.current(); ok {
			prompt := fmt.Sprintf("Delete saved profile for %s? (y/n)", displayName(rec.StudentInfo))
			lines = append(lines, center.Foreground(theme.Warning).Bold(true).Render(prompt))
		}
	}

	offset := max(selectedLine-height/3, 0)
	if s.confirming {
		offset = len(lines)
	}
	visible, _ := layout.Window(lines, offset, height)
	return strings.Join(visible, "\n")
}

func (s *HistoryScreen) renderRecord(i int, rec hist.SavedRecord, width int) []string {
	p := rec.StudentInfo
	name := displayName(p)

	prefix := "  "
	nameStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if i == s.selected {
		prefix = "▸ "
		nameStyle = nameStyle.Foreground(theme.Primary)
	}

	avatar := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("(" + strings.ToUpper(string([]rune(name)[:1])) + ")")

	title := prefix + avatar + " " + nameStyle.Render(name) + "  " +
		theme.Hint.Render(rec.SavedAt().Format("02 Jan 2006"))

	var tags []string
	addTag := func(text string, fg color.Color) {
		tags = append(tags, lipgloss.NewStyle().Foreground(fg).Bold(true).Render("["+text+"]"))
	}
	if p.Category != "" {
		addTag(string(p.Category), theme.TextDim)
	}
	if p.Percentage != "" {
		addTag(p.Percentage+"% MARKS", theme.TextDim)
	}
	addTag(fmt.Sprintf("%d%% APPROVAL", rec.Analysis.AcceptanceProbability), theme.Success)
	if rec.Analysis.EligibilityStatus != "" {
		addTag(strings.ToUpper(rec.Analysis.EligibilityStatus), report.StatusColor(rec.Analysis.EligibilityStatus))
	}

	pad := strings.Repeat(" ", max((width-60)/2, 0))
	return []string{
		pad + title,
		pad + "      " + strings.Join(tags, " "),
	}
}

func displayName(p scholarship.StudentProfile) string {
	if strings.TrimSpace(p.Name) == "" {
		return "Unnamed student"
	}
	return p.Name
}
