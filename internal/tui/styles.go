// Package tui provides the Bubble Tea progress display for miniwget.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/monolythium/miniwget/internal/report"
)

// Styles
var (
	labelStyle = lipgloss.NewStyle().
			Foreground(report.ColorMuted)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.ColorBright)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(report.ColorAccent)

	doneStyle = lipgloss.NewStyle().
			Foreground(report.ColorSuccess)

	failStyle = lipgloss.NewStyle().
			Foreground(report.ColorDanger)
)
