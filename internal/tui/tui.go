package tui

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	fetch "github.com/monolythium/miniwget/internal/net"
)

// reportInterval throttles progress messages.
const reportInterval = 100 * time.Millisecond

// ProgressWriter forwards writes to W and reports the running total through
// Send, at most once per reportInterval.
type ProgressWriter struct {
	W    io.Writer
	Send func(tea.Msg)

	total    atomic.Int64
	lastSent time.Time
}

func (p *ProgressWriter) Write(b []byte) (int, error) {
	n, err := p.W.Write(b)
	total := p.total.Add(int64(n))
	if now := time.Now(); p.Send != nil && now.Sub(p.lastSent) >= reportInterval {
		p.lastSent = now
		p.Send(ProgressMsg{Bytes: total})
	}
	return n, err
}

// Total returns the number of bytes written so far.
func (p *ProgressWriter) Total() int64 {
	return p.total.Load()
}

// FetchFunc performs a transfer into the given writer.
type FetchFunc func(w io.Writer) fetch.Result

// Run shows a progress line on out while fn copies into sink. The returned
// result is always the one produced by fn, even if the display fails.
func Run(ctx context.Context, out io.Writer, label string, sink io.Writer, fn FetchFunc) (fetch.Result, error) {
	p := tea.NewProgram(NewModel(label),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	done := make(chan fetch.Result, 1)
	go func() {
		res := fn(&ProgressWriter{W: sink, Send: p.Send})
		done <- res
		p.Send(DoneMsg{Result: res})
	}()

	_, err := p.Run()
	return <-done, err
}
