package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	fetch "github.com/monolythium/miniwget/internal/net"
)

// ProgressMsg carries the running byte count of a transfer.
type ProgressMsg struct {
	Bytes int64
}

// DoneMsg is sent once the fetch has returned.
type DoneMsg struct {
	Result fetch.Result
}

// Model is the progress display for a single transfer.
type Model struct {
	label   string
	spinner spinner.Model
	started time.Time

	bytes  int64
	done   bool
	result fetch.Result
}

// NewModel creates a progress model for the transfer described by label.
func NewModel(label string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return Model{
		label:   label,
		spinner: s,
		started: time.Now(),
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Bytes returns the last reported byte count.
func (m Model) Bytes() int64 { return m.bytes }

// Done reports whether the transfer has finished.
func (m Model) Done() bool { return m.done }

// Result returns the fetch result once Done is true.
func (m Model) Result() fetch.Result { return m.result }
