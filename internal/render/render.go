// Package render turns note markdown into styled terminal output.
package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// DefaultWidth is used when the caller has no better terminal width.
const DefaultWidth = 100

// Note renders a note's markdown body for terminal display, picking a light
// or dark glamour style to match the terminal background.
func Note(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}

	return out, nil
}
