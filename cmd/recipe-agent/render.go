package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// styler decorates REPL output. The zero value prints plain text.
type styler struct {
	enabled  bool
	markdown *glamour.TermRenderer
}

// newStyler enables styling and markdown rendering only when requested and
// stdout is a terminal, so piped output stays plain.
func newStyler(render bool, stdout *os.File) styler {
	if !render || stdout == nil || !term.IsTerminal(int(stdout.Fd())) {
		return styler{}
	}
	width := 80
	if w, _, err := term.GetSize(int(stdout.Fd())); err == nil && w > 20 {
		width = w - 4
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		md = nil
	}
	return styler{enabled: true, markdown: md}
}

func (s styler) title(text string) string {
	if !s.enabled {
		return text
	}
	return titleStyle.Render(text)
}

func (s styler) dim(text string) string {
	if !s.enabled {
		return text
	}
	return dimStyle.Render(text)
}

func (s styler) err(text string) string {
	if !s.enabled {
		return text
	}
	return errorStyle.Render(text)
}

// reply renders assistant markdown, falling back to the raw text.
func (s styler) reply(text string) string {
	if !s.enabled || s.markdown == nil {
		return text
	}
	rendered, err := s.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
