package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Terminal renders Markdown for an ANSI terminal. style is a glamour
// standard style name ("dark", "light", "dracula", "notty", ...).
func Terminal(text, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
