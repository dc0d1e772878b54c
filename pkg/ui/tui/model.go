package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PinState represents the lifecycle state of a queued pin
type PinState int

const (
	PinPending PinState = iota
	PinPosting
	PinPosted
	PinSkipped
	PinFailed
	PinUnknown
)

// PinItem represents a single pin in the posting queue
type PinItem struct {
	Filename  string
	Board     string
	State     PinState
	StartTime time.Time
	Duration  time.Duration
	Reason    string
}

// Model represents the TUI model
type Model struct {
	// UI components
	spinner  spinner.Model
	progress progress.Model

	// Pin queue state
	pins     map[string]*PinItem
	pinOrder []string
	phase    string

	// Stats
	posted  int
	skipped int
	failed  int
	unknown int

	sessionStartTime time.Time

	// UI state
	width          int
	height         int
	showHelp       bool
	done           bool
	logMessages    []LogMessage
	maxLogMessages int

	// Mutex for thread safety
	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new TUI model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(pinRed)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:          s,
		progress:         p,
		pins:             make(map[string]*PinItem),
		pinOrder:         []string{},
		sessionStartTime: time.Now(),
		logMessages:      []LogMessage{},
		maxLogMessages:   50,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// AddPin adds a pin to the queue
func (m *Model) AddPin(filename, board string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pins[filename]; ok {
		return
	}
	m.pins[filename] = &PinItem{
		Filename: filename,
		Board:    board,
		State:    PinPending,
	}
	m.pinOrder = append(m.pinOrder, filename)
}

// StartPin marks a pin as actively posting
func (m *Model) StartPin(filename string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pin, ok := m.pins[filename]; ok {
		pin.State = PinPosting
		pin.StartTime = time.Now()
	}
	m.phase = ""
}

// SetPhase records the posting phase of the active pin
func (m *Model) SetPhase(phase string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = phase
}

// FinishPin records the terminal state of a pin
func (m *Model) FinishPin(filename string, state PinState, reason string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pin, ok := m.pins[filename]
	if !ok {
		return
	}
	pin.State = state
	pin.Reason = reason
	pin.Duration = duration

	switch state {
	case PinPosted:
		m.posted++
	case PinSkipped:
		m.skipped++
	case PinUnknown:
		m.unknown++
	default:
		m.failed++
	}
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = lipgloss.Color("#FF0000")
	case "WARN":
		color = amber
	case "SUCCESS":
		color = leafGreen
	case "INFO":
		color = softPink
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// ActivePin returns the pin currently being posted, if any
func (m *Model) ActivePin() *PinItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.pinOrder {
		if pin := m.pins[name]; pin != nil && pin.State == PinPosting {
			return pin
		}
	}
	return nil
}

// PendingPins returns the pins still waiting in the queue
func (m *Model) PendingPins() []*PinItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var pending []*PinItem
	for _, name := range m.pinOrder {
		if pin := m.pins[name]; pin != nil && pin.State == PinPending {
			pending = append(pending, pin)
		}
	}
	return pending
}

// FinishedPins returns pins that reached a terminal state, in queue order
func (m *Model) FinishedPins() []*PinItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var finished []*PinItem
	for _, name := range m.pinOrder {
		pin := m.pins[name]
		if pin == nil {
			continue
		}
		switch pin.State {
		case PinPosted, PinSkipped, PinFailed, PinUnknown:
			finished = append(finished, pin)
		}
	}
	return finished
}

// Completed returns the number of pins in a terminal state
func (m *Model) Completed() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.posted + m.skipped + m.failed + m.unknown
}

// Total returns the queue size
func (m *Model) Total() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pinOrder)
}

// Percent returns overall batch progress in [0, 1]
func (m *Model) Percent() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Completed()) / float64(total)
}
