package prefs

import (
	"context"
	"fmt"
	"strings"
)

// Theme is a display color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme %q: want light or dark", s)
}

func (t Theme) IsDark() bool { return t == ThemeDark }

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.IsDark() {
		return ThemeLight
	}
	return ThemeDark
}

// Resolve picks the saved theme when there is one, otherwise the client's
// system preference.
func Resolve(saved Theme, ok bool, prefersDark bool) Theme {
	if ok {
		return saved
	}
	if prefersDark {
		return ThemeDark
	}
	return ThemeLight
}

// Store persists a theme per client.
type Store interface {
	Get(ctx context.Context, clientID string) (Theme, bool, error)
	Set(ctx context.Context, clientID string, theme Theme) error
}

// Service applies theme rules on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Current returns the effective theme without persisting anything.
func (s *Service) Current(ctx context.Context, clientID string, prefersDark bool) (Theme, error) {
	saved, ok, err := s.store.Get(ctx, clientID)
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	return Resolve(saved, ok, prefersDark), nil
}

// Toggle flips the effective theme and saves the result.
func (s *Service) Toggle(ctx context.Context, clientID string, prefersDark bool) (Theme, error) {
	cur, err := s.Current(ctx, clientID, prefersDark)
	if err != nil {
		return "", err
	}
	next := cur.Toggle()
	if err := s.store.Set(ctx, clientID, next); err != nil {
		return "", fmt.Errorf("set theme: %w", err)
	}
	return next, nil
}

// Set saves theme for the client.
func (s *Service) Set(ctx context.Context, clientID string, theme Theme) error {
	t, err := ParseTheme(string(theme))
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, clientID, t); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}
