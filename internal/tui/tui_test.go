package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	fetch "github.com/monolythium/miniwget/internal/net"
)

func TestNewModel(t *testing.T) {
	m := NewModel("example.test/index.html")

	if m.Done() {
		t.Error("NewModel() should not be done")
	}
	if m.Bytes() != 0 {
		t.Errorf("NewModel() bytes = %d, want 0", m.Bytes())
	}
	if m.Init() == nil {
		t.Error("Init() should start the spinner")
	}
}

func TestModel_Update_Progress(t *testing.T) {
	m := NewModel("x")

	newModel, cmd := m.Update(ProgressMsg{Bytes: 2048})
	if cmd != nil {
		t.Error("ProgressMsg should not return a command")
	}
	m = newModel.(Model)
	if m.Bytes() != 2048 {
		t.Errorf("Bytes() = %d, want 2048", m.Bytes())
	}

	// Counts never go backwards.
	newModel, _ = m.Update(ProgressMsg{Bytes: 10})
	if got := newModel.(Model).Bytes(); got != 2048 {
		t.Errorf("Bytes() = %d after stale update, want 2048", got)
	}
}

func TestModel_Update_Done(t *testing.T) {
	m := NewModel("x")
	res := fetch.Result{Bytes: 300, Status: fetch.StatusTransferFailure}

	newModel, cmd := m.Update(DoneMsg{Result: res})
	if cmd == nil {
		t.Fatal("DoneMsg should return quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("DoneMsg command is not tea.Quit")
	}
	m = newModel.(Model)
	if !m.Done() || m.Result().Status != fetch.StatusTransferFailure || m.Bytes() != 300 {
		t.Errorf("unexpected model after DoneMsg: done=%v result=%+v", m.Done(), m.Result())
	}

	// Spinner stops ticking once done.
	if _, cmd := m.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("spinner should not tick after completion")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel("example.test/")
	newModel, _ := m.Update(ProgressMsg{Bytes: 1536})
	view := newModel.(Model).View()
	if !strings.Contains(view, "example.test/") || !strings.Contains(view, "1.5 KiB") {
		t.Errorf("View() = %q", view)
	}

	newModel, _ = m.Update(DoneMsg{Result: fetch.Result{Status: fetch.StatusConnectionFailure}})
	if view := newModel.(Model).View(); !strings.Contains(view, "connection failure") {
		t.Errorf("View() after failure = %q", view)
	}
}

func TestProgressWriter(t *testing.T) {
	var sink bytes.Buffer
	var msgs []tea.Msg
	pw := &ProgressWriter{W: &sink, Send: func(msg tea.Msg) { msgs = append(msgs, msg) }}

	for i := 0; i < 10; i++ {
		if _, err := pw.Write([]byte("abcd")); err != nil {
			t.Fatal(err)
		}
	}
	if pw.Total() != 40 || sink.Len() != 40 {
		t.Errorf("Total() = %d, sink = %d, want 40", pw.Total(), sink.Len())
	}
	// The first write always reports; the rest fall inside the interval.
	if len(msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgs))
	}
	if got := msgs[0].(ProgressMsg).Bytes; got != 4 {
		t.Errorf("first report = %d, want 4", got)
	}
}

func TestRun(t *testing.T) {
	var out, sink bytes.Buffer
	payload := []byte("HTTP/1.0 200 OK\r\n\r\nhello")

	res, err := Run(context.Background(), &out, "example.test/", &sink, func(w io.Writer) fetch.Result {
		n, _ := w.Write(payload)
		return fetch.Result{Bytes: int64(n), Status: fetch.StatusSuccess}
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.OK() || res.Bytes != int64(len(payload)) {
		t.Errorf("Run() result = %+v", res)
	}
	if !bytes.Equal(sink.Bytes(), payload) {
		t.Errorf("sink = %q", sink.String())
	}
}
