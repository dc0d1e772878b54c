package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI represents the terminal user interface
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a new TUI instance
func NewTUI() *TUI {
	model := NewModel()
	program := tea.NewProgram(&model, tea.WithAltScreen())

	return &TUI{
		program: program,
		model:   &model,
	}
}

// Start starts the TUI and blocks until it exits
func (t *TUI) Start() error {
	go func() {
		// Send initial tick to start the spinner
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

// QueuePin notifies the TUI that a pin has been queued
func (t *TUI) QueuePin(filename, board string) {
	t.Send(PinQueuedMsg{Filename: filename, Board: board})
}

// StartPin notifies the TUI that posting of a pin has begun
func (t *TUI) StartPin(filename string) {
	t.Send(PinStartMsg{Filename: filename})
}

// FinishPin notifies the TUI that a pin reached a terminal state
func (t *TUI) FinishPin(filename string, state PinState, reason string, duration time.Duration) {
	t.Send(PinDoneMsg{Filename: filename, State: state, Reason: reason, Duration: duration})
}

// BatchDone notifies the TUI that the batch has finished
func (t *TUI) BatchDone() {
	t.Send(BatchDoneMsg{})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	t.Send(LogMsg{Level: level, Message: message})
}

// LogInfo logs an info message
func (t *TUI) LogInfo(format string, args ...interface{}) {
	t.Log("INFO", format, args...)
}

// LogSuccess logs a success message
func (t *TUI) LogSuccess(format string, args ...interface{}) {
	t.Log("SUCCESS", format, args...)
}

// LogWarning logs a warning message
func (t *TUI) LogWarning(format string, args ...interface{}) {
	t.Log("WARN", format, args...)
}

// LogError logs an error message
func (t *TUI) LogError(format string, args ...interface{}) {
	t.Log("ERROR", format, args...)
}
