package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette
var (
	colorTitle   = lipgloss.Color("#21918C") // teal
	colorAccent  = lipgloss.Color("#8BC34A") // lime
	colorWarning = lipgloss.Color("#FFC107")
	colorMuted   = lipgloss.Color("#7F8C8D")
)

// styles holds the lipgloss styles bound to one output writer
type styles struct {
	Title   lipgloss.Style
	Heading lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Value   lipgloss.Style
	Advice  lipgloss.Style
}

// newStyles binds styles to w. Color is detected from w unless disabled.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		Title:   r.NewStyle().Bold(true).Foreground(colorTitle),
		Heading: r.NewStyle().Bold(true).Underline(true),
		Bold:    r.NewStyle().Bold(true),
		Body:    r.NewStyle(),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Value:   r.NewStyle().Bold(true).Foreground(colorAccent),
		Advice:  r.NewStyle().Foreground(colorWarning),
	}
}
