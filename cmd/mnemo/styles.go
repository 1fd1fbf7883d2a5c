package main

import "github.com/charmbracelet/lipgloss"

// Color palette for CLI output. Single source of truth so every
// command renders consistently.
var (
	mintGreen  = lipgloss.Color("#A8E6CF")
	salmonPink = lipgloss.Color("#FFB3BA")
	mutedGray  = lipgloss.Color("#6B7280")
	amber      = lipgloss.Color("#FCD34D")
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(mintGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(amber)

	dimStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	headerStyle = lipgloss.NewStyle().
			Bold(true)
)
