package classpack

import "github.com/charmbracelet/lipgloss"

// Report palette. Savings read green and anything dropped reads yellow, so
// a glance at the report shows whether consolidation paid off.
var (
	StyleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	StyleName    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	StyleSavings = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	StyleDropped = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	StyleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStyle styles text for a color terminal and passes it through otherwise
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if useColors {
		return style.Render(text)
	}
	return text
}
