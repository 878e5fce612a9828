package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	sub    lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	key    lipgloss.Style
	warn   lipgloss.Style
	active lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(t.Ink),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(46),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		sub:    lipgloss.NewStyle().Foreground(t.Muted).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Ink).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		key:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// ProgressBar renders how far n is through 0..total.
func ProgressBar(n, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(max(n*width/total, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// keyHelp renders "key desc" pairs on one line.
func (s styles) keyHelp(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.key.Render(pairs[i]) + s.help.UnsetMarginTop().Render(" "+pairs[i+1]))
	}
	return b.String()
}
