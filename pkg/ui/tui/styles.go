package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Pinterest-ish palette
	pinRed      = lipgloss.Color("#E60023")
	softPink    = lipgloss.Color("#FF8BA0")
	leafGreen   = lipgloss.Color("#39FF14")
	warmYellow  = lipgloss.Color("#FFD700")
	amber       = lipgloss.Color("#FF6700")
	darkBg      = lipgloss.Color("#1A1A1A")
	darkBg2     = lipgloss.Color("#262626")
	dimWhite    = lipgloss.Color("#B0B0B0")
	brightWhite = lipgloss.Color("#FFFFFF")

	// Base styles
	baseStyle = lipgloss.NewStyle().
			Background(darkBg).
			Foreground(dimWhite)

	logoStyle = lipgloss.NewStyle().
			Foreground(pinRed).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(softPink).
			Background(darkBg2).
			Padding(1, 2)

	progressBarStyle = lipgloss.NewStyle().
				Foreground(leafGreen).
				Background(darkBg)

	// Stats styles
	statsLabelStyle = lipgloss.NewStyle().
			Foreground(softPink).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(warmYellow)

	// Status styles
	successStyle = lipgloss.NewStyle().
			Foreground(leafGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true)

	// Queue item styles
	queueItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	queueItemActiveStyle = lipgloss.NewStyle().
				Foreground(leafGreen).
				Bold(true).
				PaddingLeft(2)

	queueItemDoneStyle = lipgloss.NewStyle().
				Foreground(dimWhite).
				Faint(true).
				PaddingLeft(2)

	// Log styles
	logTimestampStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666"))

	logMessageStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	// Help style
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 2)

	// Title styles for panels
	titleStyle = lipgloss.NewStyle().
			Background(pinRed).
			Foreground(brightWhite).
			Bold(true).
			Padding(0, 1)
)

// GetProgressBarStyle returns the appropriate style based on progress percentage
func GetProgressBarStyle(percentage float64) lipgloss.Style {
	switch {
	case percentage >= 80:
		return progressBarStyle.Foreground(leafGreen)
	case percentage >= 50:
		return progressBarStyle.Foreground(warmYellow)
	case percentage >= 30:
		return progressBarStyle.Foreground(amber)
	default:
		return progressBarStyle.Foreground(softPink)
	}
}
