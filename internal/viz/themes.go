package viz

import "github.com/charmbracelet/lipgloss"

// Theme picks the panel tint and the colors of the stats column. Real
// SH1106 modules ship in a few phosphor colors; the themes follow them.
type Theme struct {
	Name    string
	Panel   lipgloss.Color
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeWhite = Theme{
		Name:    "white",
		Panel:   lipgloss.Color("#f0f0f0"),
		Primary: lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeBlue = Theme{
		Name:    "blue",
		Panel:   lipgloss.Color("#4fc3ff"),
		Primary: lipgloss.Color("#0077be"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeYellow = Theme{
		Name:    "yellow",
		Panel:   lipgloss.Color("#ffd700"),
		Primary: lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5e0"),
		Muted:   lipgloss.Color("#8b7b4c"),
		Warning: lipgloss.Color("#ff9f43"),
		Error:   lipgloss.Color("#ff4757"),
	}

	ThemeGreen = Theme{
		Name:    "green",
		Panel:   lipgloss.Color("#00ff00"), // Green phosphor
		Primary: lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeWhite

	Themes = []Theme{
		ThemeWhite,
		ThemeBlue,
		ThemeYellow,
		ThemeGreen,
	}
)

// GetTheme returns a theme by name, falling back to white.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeWhite
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}
