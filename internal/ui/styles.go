package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorSuccess = lipgloss.Color("#10B981")
	ColorFailure = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorInfo    = lipgloss.Color("#3B82F6")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorText    = lipgloss.Color("#F9FAFB")

	StyleDialog = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2).
			Width(60)

	StyleSummary = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleLabel   = lipgloss.NewStyle().Foreground(ColorMuted).Width(10)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))

	StyleChoiceActive = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(ColorText)
	StyleChoice       = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
)

// OutcomeStyle colors an invocation result by its status code.
func OutcomeStyle(statusCode int) lipgloss.Style {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return StyleSuccess
	case statusCode == 404:
		return StyleWarning
	case statusCode >= 500:
		return StyleFailure
	default:
		return StyleInfo
	}
}

func StatusIcon(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return StyleSuccess.Render("V")
	case statusCode == 404:
		return StyleWarning.Render("!")
	case statusCode >= 500:
		return StyleFailure.Render("X")
	default:
		return StyleMuted.Render("?")
	}
}
