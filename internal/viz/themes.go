package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the viewer. Ink is used for the drawing itself.
type Theme struct {
	Name   string
	Ink    lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemePaper = Theme{
		Name:   "paper",
		Ink:    lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#00ccff"),
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#777788"),
		Warn:   lipgloss.Color("#ff8800"),
	}

	ThemeGarden = Theme{
		Name:   "garden",
		Ink:    lipgloss.Color("#5fd068"), // leaf green
		Accent: lipgloss.Color("#feca57"),
		Text:   lipgloss.Color("#e8ffe8"),
		Muted:  lipgloss.Color("#4a7a4a"),
		Warn:   lipgloss.Color("#ff4757"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Ink:    lipgloss.Color("#00ff00"), // green phosphor
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Warn:   lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Ink:    lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Warn:   lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Ink:    lipgloss.Color("#ff6b6b"), // coral
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Warn:   lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemePaper,
		ThemeGarden,
		ThemeRetro,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme returns the theme after name, wrapping around.
func nextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
