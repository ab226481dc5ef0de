package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors
	Orange  = "#FC9867" // Warnings, diagnostics
	Yellow  = "#FFD866" // Highlights, focused fields
	Green   = "#A9DC76" // Success
	Cyan    = "#78DCE8" // Paths
	Magenta = "#FF6188" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C"
)

var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	PathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Settings form
	FieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground))

	FocusedFieldStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Yellow))

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(0, 1)
)

// Success renders a ✓ status line
func Success(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// Failure renders a ✗ status line
func Failure(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

// Warning renders a ! status line
func Warning(msg string) string {
	return WarningStyle.Render("! " + msg)
}
