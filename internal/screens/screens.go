// Package screens holds what the individual TUI screens share: their
// dependencies and the app-level messages they emit.
package screens

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/history"
	"github.com/abhisek/scholarnav/internal/prefs"
	"github.com/abhisek/scholarnav/internal/scholarship"
)

// Analyzer produces an analysis for a profile.
type Analyzer interface {
	Analyze(ctx context.Context, profile scholarship.StudentProfile) (*scholarship.AnalysisResult, error)
}

// Deps are the services screens call into.
type Deps struct {
	// Analyzer is nil when no provider could be built; AnalyzerErr then
	// says why and is shown when the user submits the form.
	Analyzer    Analyzer
	AnalyzerErr error

	History *history.Repository
	Prefs   *prefs.Prefs
	Logger  *zap.Logger
}

// NewAnalysisMsg asks the app to discard the current flow and open an
// empty profile form.
type NewAnalysisMsg struct{}

// SavedChangedMsg tells the app the saved records changed.
type SavedChangedMsg struct{}

// ThemeChangedMsg is emitted after the active theme was switched.
type ThemeChangedMsg struct {
	Theme prefs.Theme
}
