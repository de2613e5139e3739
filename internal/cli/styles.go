package cli

import (
	"github.com/charmbracelet/lipgloss"

	"fluxo/internal/chart"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#3498db")
	SuccessColor = chart.IncomeColor
	WarningColor = lipgloss.Color("#f1c40f")
	ErrorColor   = chart.ExpenseColor
	SubtleColor  = lipgloss.Color("#7f8c8d")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	InfoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle frames the dashboard panels.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#34495e")).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	// IncomeStyle and ExpenseStyle color amounts by kind.
	IncomeStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ErrorColor)
)
