package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/scholarnav/internal/history"
	"github.com/abhisek/scholarnav/internal/kv"
	"github.com/abhisek/scholarnav/internal/prefs"
	"github.com/abhisek/scholarnav/internal/router"
	"github.com/abhisek/scholarnav/internal/scholarship"
	"github.com/abhisek/scholarnav/internal/screens"
	"github.com/abhisek/scholarnav/internal/screens/form"
	hscreen "github.com/abhisek/scholarnav/internal/screens/history"
	"github.com/abhisek/scholarnav/internal/ui/theme"
)

type nopAnalyzer struct{}

func (nopAnalyzer) Analyze(context.Context, scholarship.StudentProfile) (*scholarship.AnalysisResult, error) {
	return &scholarship.AnalysisResult{}, nil
}

func newTestHome(t *testing.T) (*HomeScreen, screens.Deps) {
	t.Helper()
	store := kv.NewMemory()
	deps := screens.Deps{
		Analyzer: nopAnalyzer{},
		History:  history.NewRepository(store, nil),
		Prefs:    prefs.New(store, nil),
	}
	t.Cleanup(func() { theme.Use(theme.Dark) })
	return New(deps, "gemini"), deps
}

func TestMenuNavigation(t *testing.T) {
	h, _ := newTestHome(t)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*form.FormScreen); !ok {
		t.Errorf("first item should open the form, got %T", push.Screen)
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	push = cmd().(router.PushScreenMsg)
	if _, ok := push.Screen.(*hscreen.HistoryScreen); !ok {
		t.Errorf("second item should open saved profiles, got %T", push.Screen)
	}
}

func TestSavedCount(t *testing.T) {
	h, deps := newTestHome(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := deps.History.Add(ctx, scholarship.StudentProfile{Name: "x"}, scholarship.AnalysisResult{}); err != nil {
			t.Fatal(err)
		}
	}

	h.Update(h.Init()())
	if !strings.Contains(h.View(100, 40), "3 SAVED") {
		t.Error("expected saved count in stats bar")
	}

	if err := deps.History.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	_, cmd := h.Update(router.RevealedMsg{})
	h.Update(cmd())
	if !strings.Contains(h.View(100, 40), "0 SAVED") {
		t.Error("expected count refresh on reveal")
	}
}

func TestToggleThemePersists(t *testing.T) {
	h, deps := newTestHome(t)
	theme.Use(theme.Dark)

	_, cmd := h.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	if theme.Name != "light" {
		t.Fatalf("expected light theme active, got %q", theme.Name)
	}
	msg, ok := cmd().(screens.ThemeChangedMsg)
	if !ok || msg.Theme != prefs.ThemeLight {
		t.Fatalf("expected ThemeChangedMsg{light}, got %#v", msg)
	}
	if got := deps.Prefs.Theme(context.Background()); got != prefs.ThemeLight {
		t.Errorf("expected stored light theme, got %q", got)
	}
}

func TestNoProviderBanner(t *testing.T) {
	h := New(screens.Deps{}, "gemini")
	if !strings.Contains(h.View(100, 40), "GEMINI_API_KEY") {
		t.Error("expected provider warning without an analyzer")
	}
}
