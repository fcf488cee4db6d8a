package form

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/router"
	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/screen"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/screens/result"
	"github.com/abhisek/scholarnav/internal/ui/components"
	"github.com/abhisek/scholarnav/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

// Focus positions, in tab order.
const (
	posName = iota
	posState
	posCategory
	posIncome
	posLastClass
	posPercentage
	posCourse
	posSituation
	posSubmit
	numPositions
)

// FormScreen collects a student profile and runs the analysis. The
// entered values survive a failed or cancelled request.
type FormScreen struct {
	deps screens.Deps

	inputs   map[int]*components.TextInput
	category components.Choice
	focus    int

	loading  bool
	seq      int
	cancel   context.CancelFunc
	spinner  int
	errMsg   string
	required []string // labels of empty required fields, set on submit
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)
var _ screen.EscCapturer = (*FormScreen)(nil)

// New creates an empty form.
func New(deps screens.Deps) *FormScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	name := components.NewTextInput("Full Name", "e.g. Rahul Sharma", false, 80)
	state := components.NewTextInput("State of Residence", "e.g. Maharashtra", false, 60)
	income := components.NewTextInput("Annual Family Income (₹)", "e.g. 2,50,000", false, 20)
	lastClass := components.NewTextInput("Last Class Completed", "e.g. Class 12, Graduation", false, 60)
	percentage := components.NewTextInput("Marks Percentage (%)", "e.g. 85", true, 6)
	course := components.NewTextInput("Current / Target Course", "e.g. B.Tech Computer Science", false, 80)
	situation := components.NewTextInput("Describe your situation (optional)",
		"first-generation student, single parent, rural background...", false, 500)

	options := make([]string, len(scholarship.Categories))
	for i, c := range scholarship.Categories {
		options[i] = string(c)
	}

	f := &FormScreen{
		deps: deps,
		inputs: map[int]*components.TextInput{
			posName:       &name,
			posState:      &state,
			posIncome:     &income,
			posLastClass:  &lastClass,
			posPercentage: &percentage,
			posCourse:     &course,
			posSituation:  &situation,
		},
		category: components.NewChoice("Category / Caste", options),
	}
	return f
}

// NewWithProfile creates a form prefilled from p.
func NewWithProfile(deps screens.Deps, p scholarship.StudentProfile) *FormScreen {
	f := New(deps)
	f.inputs[posName].SetValue(p.Name)
	f.inputs[posState].SetValue(p.State)
	f.inputs[posIncome].SetValue(p.AnnualIncome)
	f.inputs[posLastClass].SetValue(p.LastClass)
	f.inputs[posPercentage].SetValue(p.Percentage)
	f.inputs[posCourse].SetValue(p.CurrentCourse)
	f.inputs[posSituation].SetValue(p.SituationPrompt)
	for i, o := range f.category.Options {
		if o == string(p.Category) {
			f.category.Selected = i
		}
	}
	return f
}

func (f *FormScreen) Init() tea.Cmd {
	return f.setFocus(posName)
}

func (f *FormScreen) Title() string {
	return "New Analysis"
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	if f.loading {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if f.errMsg != "" {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Dismiss"},
			{Key: "Ctrl+S", Description: "Retry"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
	}
	if f.focus == posCategory {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Category"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Analyze"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// CapturesEsc reports whether Esc dismisses the banner or cancels the
// running request rather than leaving the screen.
func (f *FormScreen) CapturesEsc() bool {
	return f.loading || f.errMsg != ""
}

// Loading reports whether a request is outstanding.
func (f *FormScreen) Loading() bool {
	return f.loading
}

// Profile returns the values currently entered.
func (f *FormScreen) Profile() scholarship.StudentProfile {
	return scholarship.StudentProfile{
		Name:            f.inputs[posName].Value(),
		State:           f.inputs[posState].Value(),
		Category:        scholarship.Category(f.category.Value()),
		AnnualIncome:    f.inputs[posIncome].Value(),
		LastClass:       f.inputs[posLastClass].Value(),
		Percentage:      f.inputs[posPercentage].Value(),
		CurrentCourse:   f.inputs[posCourse].Value(),
		SituationPrompt: f.inputs[posSituation].Value(),
	}
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		return f.handleDone(msg)

	case spinnerTickMsg:
		if !f.loading {
			return f, nil
		}
		f.spinner++
		return f, spinnerTick()

	case tea.KeyPressMsg:
		return f.handleKey(msg)
	}

	if in, ok := f.inputs[f.focus]; ok && !f.loading {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *FormScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if f.loading {
		if key == "esc" {
			f.cancelRequest()
		}
		return f, nil
	}

	switch key {
	case "esc":
		if f.errMsg != "" {
			f.errMsg = ""
			return f, nil
		}
		return f, func() tea.Msg { return router.PopScreenMsg{} }
	case "ctrl+s":
		return f, f.submit()
	case "tab", "down":
		return f, f.setFocus((f.focus + 1) % numPositions)
	case "shift+tab", "up":
		return f, f.setFocus((f.focus - 1 + numPositions) % numPositions)
	case "enter":
		if f.focus == posSituation || f.focus == posSubmit {
			return f, f.submit()
		}
		return f, f.setFocus(f.focus + 1)
	}

	switch {
	case f.focus == posCategory:
		f.category, _ = f.category.Update(msg)
		return f, nil
	case f.focus == posSubmit:
		return f, nil
	}

	in := f.inputs[f.focus]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return f, cmd
}

func (f *FormScreen) setFocus(pos int) tea.Cmd {
	f.focus = pos
	f.category.Blur()
	for _, in := range f.inputs {
		in.Blur()
	}
	if pos == posCategory {
		f.category.Focus()
		return nil
	}
	if in, ok := f.inputs[pos]; ok {
		return in.Focus()
	}
	return nil
}

// submit validates the required fields and starts the analysis.
func (f *FormScreen) submit() tea.Cmd {
	f.required = f.missingFields()
	if len(f.required) > 0 {
		f.errMsg = "Please fill in: " + strings.Join(f.required, ", ")
		return nil
	}
	if f.deps.Analyzer == nil {
		err := f.deps.AnalyzerErr
		if err == nil {
			err = errors.New("no analysis provider is configured")
		}
		f.errMsg = err.Error()
		return nil
	}

	f.errMsg = ""
	f.loading = true
	f.spinner = 0
	f.seq++

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	seq := f.seq
	profile := f.Profile()
	analyzer := f.deps.Analyzer
	f.deps.Logger.Debug("submitting profile", zap.String("state", profile.State), zap.String("category", string(profile.Category)))

	return tea.Batch(
		func() tea.Msg {
			defer cancel()
			res, err := analyzer.Analyze(ctx, profile)
			return analysisDoneMsg{Seq: seq, Profile: profile, Result: res, Err: err}
		},
		spinnerTick(),
	)
}

func (f *FormScreen) cancelRequest() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.seq++
	f.loading = false
	f.errMsg = "Analysis cancelled."
}

func (f *FormScreen) handleDone(msg analysisDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != f.seq {
		return f, nil
	}
	f.loading = false
	f.cancel = nil

	if msg.Err != nil {
		f.errMsg = msg.Err.Error()
		return f, nil
	}

	next := result.New(f.deps, msg.Profile, *msg.Result)
	return f, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (f *FormScreen) missingFields() []string {
	var missing []string
	for pos := posName; pos < posSituation; pos++ {
		in, ok := f.inputs[pos]
		if !ok {
			continue
		}
		if strings.TrimSpace(in.Value()) == "" {
			missing = append(missing, in.Label)
		}
	}
	return missing
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
