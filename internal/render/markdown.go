// Package render turns markdown into styled terminal output with glamour.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	DefaultDarkStyle  = "dracula"
	DefaultLightStyle = "light"
)

type Options struct {
	Dark       bool
	DarkStyle  string
	LightStyle string
	// Width is the word-wrap column; 0 disables wrapping.
	Width int
}

func (o Options) style() string {
	if o.Dark {
		if o.DarkStyle != "" {
			return o.DarkStyle
		}
		return DefaultDarkStyle
	}
	if o.LightStyle != "" {
		return o.LightStyle
	}
	return DefaultLightStyle
}

// Markdown renders s for the terminal.
func Markdown(s string, o Options) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(o.style()),
		glamour.WithWordWrap(o.Width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(s)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Plain renders s without styling, for non-terminal output.
func Plain(s string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(strings.ReplaceAll(s, "\r\n", "\n"))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
