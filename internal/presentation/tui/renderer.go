package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders replies as markdown using glamour.
// Replies are plain text with "- " bullet lines and hard line breaks, so
// newlines are turned into markdown line breaks before rendering.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(s string) (string, error) { return s, nil }
	}

	return func(reply string) (string, error) {
		return r.Render(toMarkdown(reply))
	}
}

// toMarkdown keeps list items as a list and forces breaks elsewhere.
func toMarkdown(reply string) string {
	lines := strings.Split(reply, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "- ") || i == len(lines)-1 {
			continue
		}
		if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "- ") {
			lines[i] = line + "\n"
			continue
		}
		lines[i] = line + "  "
	}
	return strings.Join(lines, "\n")
}
