package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message types for the TUI

// PinQueuedMsg is sent when a pin is added to the queue
type PinQueuedMsg struct {
	Filename string
	Board    string
}

// PinStartMsg is sent when posting of a pin begins
type PinStartMsg struct {
	Filename string
}

// PinPhaseMsg is sent as the active pin moves through posting phases
type PinPhaseMsg struct {
	Phase string
}

// PinDoneMsg is sent when a pin reaches a terminal state
type PinDoneMsg struct {
	Filename string
	State    PinState
	Reason   string
	Duration time.Duration
}

// BatchDoneMsg is sent when the whole batch has finished
type BatchDoneMsg struct{}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		// Regular UI update tick
		return m, tea.Batch(
			tickCmd(),
			m.spinner.Tick,
		)

	case PinQueuedMsg:
		m.AddPin(msg.Filename, msg.Board)
		return m, nil

	case PinStartMsg:
		m.StartPin(msg.Filename)
		m.AddLogMessage("INFO", "Posting: "+msg.Filename)
		return m, nil

	case PinPhaseMsg:
		m.SetPhase(msg.Phase)
		return m, nil

	case PinDoneMsg:
		m.FinishPin(msg.Filename, msg.State, msg.Reason, msg.Duration)
		switch msg.State {
		case PinPosted:
			m.AddLogMessage("SUCCESS", "Posted: "+msg.Filename)
		case PinSkipped:
			m.AddLogMessage("WARN", "Skipped: "+msg.Filename+" ("+msg.Reason+")")
		case PinUnknown:
			m.AddLogMessage("WARN", "Status unknown: "+msg.Filename)
		default:
			m.AddLogMessage("ERROR", "Failed: "+msg.Filename+" ("+msg.Reason+")")
		}
		return m, nil

	case BatchDoneMsg:
		m.mu.Lock()
		m.done = true
		m.mu.Unlock()
		m.AddLogMessage("INFO", "Batch finished")
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		// Clear logs
		m.mu.Lock()
		m.logMessages = []LogMessage{}
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// Commands

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
