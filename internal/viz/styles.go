package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(40)

	labelStyle = lipgloss.NewStyle().Width(10)
)

// Styles derived from the current theme. They are rebuilt on every frame so
// a theme switch takes effect immediately.

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(CurrentTheme.Panel).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Muted)
}

func headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(CurrentTheme.Muted)
}

func label(s string) string {
	return labelStyle.Foreground(CurrentTheme.Muted).Render(s)
}

func value(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Text).Render(s)
}

func statusStyle(paused bool) lipgloss.Style {
	c := CurrentTheme.Primary
	if paused {
		c = CurrentTheme.Warning
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Error)
}

func hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Italic(true).Foreground(CurrentTheme.Muted).MarginTop(1)
}

// ProgressBar renders percent (0..1) as a bar of the given width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(bar)
}

// Sparkline maps the last width values onto block characters. Values are
// expected in 0..1, as energy is.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}
