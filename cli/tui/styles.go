package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Party colors.
	colorUser  = lipgloss.Color("#88C0D0")
	colorBot   = lipgloss.Color("#A3BE8C")
	colorError = lipgloss.Color("#FF6B6B")

	// UI colors.
	colorTitle  = lipgloss.Color("#FFFFFF")
	colorSubtle = lipgloss.Color("#666666")

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorUser)

	botLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBot)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)
