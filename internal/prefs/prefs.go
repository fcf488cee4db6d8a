// Package prefs stores user interface preferences.
package prefs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/kv"
)

// ThemeKey is the storage key for the theme preference.
const ThemeKey = "theme"

// Theme is the report and TUI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is used when nothing valid is stored.
const DefaultTheme = ThemeDark

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want dark or light)", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Prefs reads and writes preferences.
type Prefs struct {
	store  kv.Store
	logger *zap.Logger
}

// New creates a Prefs over store.
func New(store kv.Store, logger *zap.Logger) *Prefs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prefs{store: store, logger: logger}
}

// Theme returns the stored theme, or DefaultTheme when it is absent,
// unreadable or not a known value.
func (p *Prefs) Theme(ctx context.Context) Theme {
	v, ok, err := p.store.Get(ctx, ThemeKey)
	if err != nil {
		p.logger.Warn("failed to read theme preference", zap.Error(err))
		return DefaultTheme
	}
	if !ok {
		return DefaultTheme
	}
	t, err := ParseTheme(string(v))
	if err != nil {
		p.logger.Debug("ignoring stored theme", zap.Error(err))
		return DefaultTheme
	}
	return t
}

// SetTheme stores t.
func (p *Prefs) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := p.store.Put(ctx, ThemeKey, []byte(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
