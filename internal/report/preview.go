package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Preview renders markdown for the terminal. Plain markdown is returned when
// the renderer cannot be built.
func Preview(markdown string, width int) string {
	if width <= 0 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return fmt.Sprintf("%s\n(preview unavailable: %v)\n", markdown, err)
	}
	return out
}
