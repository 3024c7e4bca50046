package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#5B8DEF")
	alertColor  = lipgloss.Color("#FF6B6B")
	mutedColor  = lipgloss.Color("#888888")
	borderColor = lipgloss.Color("#444444")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(alertColor)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginBottom(1)
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(16)
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)
