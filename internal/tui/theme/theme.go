package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Borders
	BorderDefault string
	BorderFocused string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu    sync.RWMutex
	currentTheme *Theme
)

// Current returns the active theme, defaulting to Catppuccin Mocha.
func Current() *Theme {
	currentMu.RLock()
	t := currentTheme
	currentMu.RUnlock()
	if t != nil {
		return t
	}

	currentMu.Lock()
	defer currentMu.Unlock()
	if currentTheme == nil {
		currentTheme = NewCatppuccinMocha()
	}
	return currentTheme
}

// Set replaces the active theme.
func Set(t *Theme) {
	currentMu.Lock()
	currentTheme = t
	currentMu.Unlock()
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),
		FieldError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)),
	}
}
