package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ballsim/internal/physics"
)

// Theme colours the sidebar: one colour per phase plus the chrome.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Water    lipgloss.Color
	Phases   [5]lipgloss.Color
	Stopped  lipgloss.Color
	Warning  lipgloss.Color
	Recorder lipgloss.Color
}

var (
	ThemeTank = Theme{
		Name:    "tank",
		Primary: lipgloss.Color("#00ccff"),
		Muted:   lipgloss.Color("#666688"),
		Water:   lipgloss.Color("#87ceeb"),
		Phases: [5]lipgloss.Color{
			physics.Falling:  lipgloss.Color("#ffffff"),
			physics.Water:    lipgloss.Color("#00a8cc"),
			physics.Bounce1:  lipgloss.Color("#ffcc00"),
			physics.Bounce2:  lipgloss.Color("#ff9f43"),
			physics.Stopping: lipgloss.Color("#00ff88"),
		},
		Stopped:  lipgloss.Color("#888899"),
		Warning:  lipgloss.Color("#ffaa00"),
		Recorder: lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Water:   lipgloss.Color("#00cc00"),
		Phases: [5]lipgloss.Color{
			physics.Falling:  lipgloss.Color("#88ff88"),
			physics.Water:    lipgloss.Color("#00cc00"),
			physics.Bounce1:  lipgloss.Color("#ccff00"),
			physics.Bounce2:  lipgloss.Color("#aaff55"),
			physics.Stopping: lipgloss.Color("#00ff00"),
		},
		Stopped:  lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
		Recorder: lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Water:   lipgloss.Color("#feca57"),
		Phases: [5]lipgloss.Color{
			physics.Falling:  lipgloss.Color("#fff5f5"),
			physics.Water:    lipgloss.Color("#48dbfb"),
			physics.Bounce1:  lipgloss.Color("#ff9ff3"),
			physics.Bounce2:  lipgloss.Color("#feca57"),
			physics.Stopping: lipgloss.Color("#5fd068"),
		},
		Stopped:  lipgloss.Color("#8b6b8c"),
		Warning:  lipgloss.Color("#ffc048"),
		Recorder: lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{ThemeTank, ThemeRetroGreen, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTank
}

// nextTheme cycles through Themes.
func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
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

// PhaseStyle colours a body's phase label. Stopped bodies use the muted
// stopped colour regardless of phase.
func (t Theme) PhaseStyle(b physics.Body) lipgloss.Style {
	if !b.Moving {
		return lipgloss.NewStyle().Foreground(t.Stopped)
	}
	if b.Phase < 0 || int(b.Phase) >= len(t.Phases) {
		return lipgloss.NewStyle().Foreground(t.Muted)
	}
	return lipgloss.NewStyle().Foreground(t.Phases[b.Phase]).Bold(true)
}
