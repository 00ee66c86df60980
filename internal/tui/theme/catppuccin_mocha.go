package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		// Semantic colors
		Primary:   "#cba6f7", // Mauve
		Secondary: "#b4befe", // Lavender
		Tertiary:  "#89b4fa", // Blue

		// Background hierarchy
		BgBase:     "#1e1e2e", // Base
		BgMantle:   "#181825", // Mantle
		BgSurface0: "#313244", // Surface0
		BgSurface1: "#45475a", // Surface1
		BgSurface2: "#585b70", // Surface2

		// Foreground hierarchy
		FgMuted:  "#6c7086", // Overlay0
		FgSubtle: "#a6adc8", // Subtext0
		FgBase:   "#cdd6f4", // Text
		FgBright: "#f5e0dc", // Rosewater

		// Status colors
		Success: "#a6e3a1", // Green
		Warning: "#f9e2af", // Yellow
		Error:   "#f38ba8", // Red
		Info:    "#89dceb", // Sky

		// Borders
		BorderDefault: "#45475a", // Surface1
		BorderFocused: "#b4befe", // Lavender
	}
}
