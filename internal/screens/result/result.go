package result

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/history"
	"github.com/abhisek/scholarnav/internal/report"
	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/screen"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/ui/components"
	"github.com/abhisek/scholarnav/internal/ui/layout"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

type savedStateMsg struct {
	Saved bool
}

type saveDoneMsg struct {
	Record history.SavedRecord
	Err    error
}

// ResultScreen shows one analysis with save and new-analysis actions.
type ResultScreen struct {
	deps    screens.Deps
	profile scholarship.StudentProfile
	result  scholarship.AnalysisResult
	savedAt time.Time

	saved  bool
	saving bool
	errMsg string
	offset int
	page   int // last rendered viewport height
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New shows a fresh, unsaved analysis.
func New(deps screens.Deps, profile scholarship.StudentProfile, res scholarship.AnalysisResult) *ResultScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ResultScreen{deps: deps, profile: profile, result: res}
}

// FromRecord shows a saved analysis.
func FromRecord(deps screens.Deps, rec history.SavedRecord) *ResultScreen {
	s := New(deps, rec.StudentInfo, rec.Analysis)
	s.saved = true
	s.savedAt = rec.SavedAt()
	return s
}

// Init checks whether an equivalent record is already saved: same name
// and income counts as the same student.
func (s *ResultScreen) Init() tea.Cmd {
	if s.saved || s.deps.History == nil {
		return nil
	}
	repo := s.deps.History
	name, income := s.profile.Name, s.profile.AnnualIncome
	return func() tea.Msg {
		for _, r := range repo.Load(context.Background()) {
			if r.StudentInfo.Name == name && r.StudentInfo.AnnualIncome == income {
				return savedStateMsg{Saved: true}
			}
		}
		return savedStateMsg{}
	}
}

func (s *ResultScreen) Title() string {
	return "Analysis"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓/PgUp/PgDn", Description: "Scroll"},
	}
	if !s.saved {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Save"})
	}
	return append(hints,
		layout.KeyHint{Key: "N", Description: "New analysis"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// Saved reports whether the analysis is stored.
func (s *ResultScreen) Saved() bool {
	return s.saved
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedStateMsg:
		if msg.Saved {
			s.saved = true
		}
		return s, nil

	case saveDoneMsg:
		s.saving = false
		if msg.Err != nil {
			s.errMsg = "Could not save profile: " + msg.Err.Error()
			return s, nil
		}
		s.saved = true
		s.savedAt = msg.Record.SavedAt()
		s.errMsg = ""
		return s, func() tea.Msg { return screens.SavedChangedMsg{} }

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ResultScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	page := max(s.page, 1)
	switch msg.String() {
	case "up", "k":
		s.offset = max(s.offset-1, 0)
	case "down", "j":
		s.offset++
	case "pgup", "b":
		s.offset = max(s.offset-page, 0)
	case "pgdown", "space", "f":
		s.offset += page
	case "home", "g":
		s.offset = 0
	case "s":
		return s, s.save()
	case "n":
		return s, func() tea.Msg { return screens.NewAnalysisMsg{} }
	}
	return s, nil
}

func (s *ResultScreen) save() tea.Cmd {
	if s.saved || s.saving || s.deps.History == nil {
		return nil
	}
	s.saving = true
	repo := s.deps.History
	profile, res := s.profile, s.result
	return func() tea.Msg {
		rec, err := repo.Add(context.Background(), profile, res)
		return saveDoneMsg{Record: rec, Err: err}
	}
}

func (s *ResultScreen) View(width, height int) string {
	contentWidth := min(width-4, 100)

	var status string
	switch {
	case s.errMsg != "":
		status = components.ErrorBanner(s.errMsg, contentWidth)
	case s.saved:
		status = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("✓ Profile Saved")
	case s.saving:
		status = theme.Hint.Render("Saving...")
	default:
		status = theme.Hint.Render("Press S to save this profile")
	}

	body := report.Render(report.Report{
		Profile: s.profile,
		Result:  s.result,
		SavedAt: s.savedAt,
	}, contentWidth)

	lines := strings.Split(body, "\n")
	bodyHeight := max(height-lipgloss.Height(status)-1, 1)
	s.page = bodyHeight
	visible, offset := layout.Window(lines, s.offset, bodyHeight)
	s.offset = offset

	return lipgloss.NewStyle().
		PaddingLeft(max((width-contentWidth)/2, 0)).
		Render(status + "\n" + strings.Join(visible, "\n"))
}
