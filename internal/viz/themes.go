package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colors the stats panel around the field.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Graph   lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:    "neon",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#e0e0e0"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ff8000"),
		Graph:   lipgloss.Color("#80ff00"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#b4b4b4"),
		Text:    lipgloss.Color("#d0d0d0"),
		Muted:   lipgloss.Color("#5a5a5a"),
		Warning: lipgloss.Color("#ffffff"),
		Graph:   lipgloss.Color("#8c8c8c"),
	}

	ThemeEmber = Theme{
		Name:    "ember",
		Primary: lipgloss.Color("#ff4000"),
		Accent:  lipgloss.Color("#ffcc00"),
		Text:    lipgloss.Color("#fff5f0"),
		Muted:   lipgloss.Color("#8b5a4a"),
		Warning: lipgloss.Color("#ff0040"),
		Graph:   lipgloss.Color("#ff8000"),
	}

	ThemeDeep = Theme{
		Name:    "deep",
		Primary: lipgloss.Color("#0080ff"),
		Accent:  lipgloss.Color("#8000ff"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4468aa"),
		Warning: lipgloss.Color("#ffcc00"),
		Graph:   lipgloss.Color("#00a8cc"),
	}

	Themes = []Theme{ThemeNeon, ThemeMono, ThemeEmber, ThemeDeep}
)

// GetTheme returns a theme by name, falling back to neon.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// GradientText colors each rune of text along an HCL blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, errA := colorful.Hex(string(start))
	b, errB := colorful.Hex(string(end))
	if errA != nil || errB != nil {
		return lipgloss.NewStyle().Foreground(start).Render(text)
	}

	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendHcl(b, t).Clamped()
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return sb.String()
}
