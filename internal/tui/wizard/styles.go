package wizard

import (
	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/tui/theme"
)

// RenderHintBar renders a hint bar with the given key-description pairs.
// Example: RenderHintBar("tab", "navigate", "enter", "select", "esc", "back")
// Returns: "tab navigate • enter select • esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	t := theme.Current()
	styleHintKey := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgSubtle)).
		Bold(true)
	styleHintDesc := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))
	styleHintSeparator := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgSurface2))

	var result string
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i]
		desc := pairs[i+1]

		if i > 0 {
			result += " " + styleHintSeparator.Render("•") + " "
		}

		result += styleHintKey.Render(key) + " " + styleHintDesc.Render(desc)
	}

	return result
}
