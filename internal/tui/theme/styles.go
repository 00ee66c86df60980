package theme

import "charm.land/lipgloss/v2"

// Styles contains pre-built lipgloss styles shared across the wizard screens.
type Styles struct {
	Title      lipgloss.Style // Step headings
	Label      lipgloss.Style // Field labels
	FieldError lipgloss.Style // Inline validation errors
	Success    lipgloss.Style // Availability confirmations, completion banner
	Pending    lipgloss.Style // In-flight availability indicator
	Hint       lipgloss.Style // Bottom key hints
}
