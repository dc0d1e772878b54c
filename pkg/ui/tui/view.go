package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string

	// Logo
	sections = append(sections, m.renderLogo())

	// Main content area with two columns
	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ", // spacing
		rightColumn,
	)
	sections = append(sections, mainContent)

	// Help
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

// renderLogo renders the banner
func (m Model) renderLogo() string {
	logo := `
╔══════════════════════════════════════════════════════╗
║ ██████╗ ██╗███╗   ██╗██████╗  ██████╗ ███████╗████████╗
║ ██╔══██╗██║████╗  ██║██╔══██╗██╔═══██╗██╔════╝╚══██╔══╝
║ ██████╔╝██║██╔██╗ ██║██████╔╝██║   ██║███████╗   ██║
║ ██╔═══╝ ██║██║╚██╗██║██╔═══╝ ██║   ██║╚════██║   ██║
║ ██║     ██║██║ ╚████║██║     ╚██████╔╝███████║   ██║
║ ╚═╝     ╚═╝╚═╝  ╚═══╝╚═╝      ╚═════╝ ╚══════╝   ╚═╝
║           PINTEREST BULK POSTING CONSOLE             ║
╚══════════════════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

// renderLeftColumn renders the left side of the UI
func (m Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	var sections []string
	sections = append(sections, m.renderStatsPanel(width))
	sections = append(sections, m.renderActivePanel(width))
	sections = append(sections, m.renderQueuePanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderRightColumn renders the right side of the UI
func (m Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	var sections []string
	sections = append(sections, m.renderProgressPanel(width))
	sections = append(sections, m.renderLogsPanel(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsPanel renders the batch statistics panel
func (m Model) renderStatsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" BATCH STATS ")

	elapsed := time.Since(m.sessionStartTime)

	stats := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Session Time:"), statsValueStyle.Render(formatDuration(elapsed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Posted:"), successStyle.Render(fmt.Sprintf("%d", m.posted))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Skipped:"), warningStyle.Render(fmt.Sprintf("%d", m.skipped))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Failed:"), errorStyle.Render(fmt.Sprintf("%d", m.failed))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Unknown:"), warningStyle.Render(fmt.Sprintf("%d", m.unknown))),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Queued:"), statsValueStyle.Render(fmt.Sprintf("%d", len(m.pinOrder)))),
	}

	if m.done {
		stats = append(stats, successStyle.Render("✓ BATCH COMPLETE"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, stats...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderActivePanel renders the pin currently being posted
func (m Model) renderActivePanel(width int) string {
	title := titleStyle.Render(" NOW POSTING ")

	active := m.ActivePin()

	if active == nil {
		content := lipgloss.NewStyle().Foreground(dimWhite).Render("Idle")
		return panelStyle.Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, content),
		)
	}

	m.mu.RLock()
	phase := m.phase
	m.mu.RUnlock()

	lines := []string{
		fmt.Sprintf("%s %s", m.spinner.View(), queueItemActiveStyle.Render(active.Filename)),
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Board:"), statsValueStyle.Render(active.Board)),
	}
	if phase != "" {
		lines = append(lines, fmt.Sprintf("%s %s", statsLabelStyle.Render("Phase:"), statsValueStyle.Render(phase)))
	}
	lines = append(lines, fmt.Sprintf("%s %s",
		statsLabelStyle.Render("Elapsed:"),
		statsValueStyle.Render(formatDuration(time.Since(active.StartTime)))))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderQueuePanel renders the pin queue
func (m Model) renderQueuePanel(width int) string {
	title := titleStyle.Render(" PIN QUEUE ")

	pending := m.PendingPins()
	finished := m.FinishedPins()

	var items []string

	pendingCount := len(pending)
	if pendingCount > 0 {
		items = append(items, warningStyle.Render(fmt.Sprintf("⏳ %d pending", pendingCount)))
		for i := 0; i < 3 && i < pendingCount; i++ {
			items = append(items, queueItemStyle.Render("• "+pending[i].Filename))
		}
		if pendingCount > 3 {
			items = append(items, lipgloss.NewStyle().Foreground(dimWhite).Render(fmt.Sprintf("  ... and %d more", pendingCount-3)))
		}
	}

	finishedCount := len(finished)
	if finishedCount > 0 {
		items = append(items, "", successStyle.Render(fmt.Sprintf("✓ %d finished", finishedCount)))
		start := finishedCount - 3
		if start < 0 {
			start = 0
		}
		for i := start; i < finishedCount; i++ {
			items = append(items, queueItemDoneStyle.Render(stateMark(finished[i].State)+" "+finished[i].Filename))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderProgressPanel renders overall batch progress
func (m Model) renderProgressPanel(width int) string {
	title := titleStyle.Render(" BATCH PROGRESS ")

	completed := m.Completed()
	total := m.Total()
	pct := m.Percent() * 100

	bar := m.progress
	bar.Width = width - 8

	content := []string{
		fmt.Sprintf("%s %s", statsLabelStyle.Render("Progress:"),
			GetProgressBarStyle(pct).Render(fmt.Sprintf("%d/%d (%.0f%%)", completed, total, pct))),
		bar.ViewAs(m.Percent()),
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(content, "\n")),
	)
}

// renderLogsPanel renders the logs panel
func (m Model) renderLogsPanel(width int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title := titleStyle.Render(" ACTIVITY LOG ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	var logs []string
	for i := start; i < len(m.logMessages); i++ {
		log := m.logMessages[i]
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		message := logMessageStyle.Render(log.Message)

		// Truncate message if too long
		maxMsgLen := width - 25
		if len(message) > maxMsgLen && maxMsgLen > 3 {
			message = message[:maxMsgLen-3] + "..."
		}

		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, message))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No activity yet...")
	}

	logsHeight := m.height - 30
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderHelp renders the help panel
func (m Model) renderHelp() string {
	help := `
  Navigation:
    q/Q      - Quit the application
    ?        - Toggle this help
    ctrl+l   - Clear the activity log

  Status Indicators:
    ` + successStyle.Render("Green") + `    - Posted
    ` + warningStyle.Render("Orange") + `   - Skipped or unknown
    ` + errorStyle.Render("Red") + `      - Failed

  Icons:
    ⏳       - Pending pin
    ✓        - Posted pin
    █        - Progress indicator
`

	return panelStyle.Width(m.width).Render(help)
}

func stateMark(state PinState) string {
	switch state {
	case PinPosted:
		return "✓"
	case PinSkipped:
		return "~"
	case PinUnknown:
		return "?"
	default:
		return "✗"
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
