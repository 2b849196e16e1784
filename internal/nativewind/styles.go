package nativewind

import "github.com/charmbracelet/lipgloss"

// Terminal styles for compiler diagnostics.
// Lipgloss automatically degrades colors based on terminal capabilities.
var (
	// StylePrefix marks the "NativeWind:" prefix on forwarded compiler output.
	StylePrefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleError is used for failures raised by the hook itself.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// RenderStyle applies a lipgloss style to text when colors are enabled.
// When useColors is false, the text is returned unmodified.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}
