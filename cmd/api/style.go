package main

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen = lipgloss.Color("#879A39")
	colorRed   = lipgloss.Color("#D14D41")
	colorMuted = lipgloss.Color("#6F6E69")
	colorTeal  = lipgloss.Color("#3AA99F")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTeal)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
