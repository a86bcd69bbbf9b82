package tui

import (
	"strings"
	"time"

	"github.com/monolythium/miniwget/internal/report"
)

// View renders a single status line.
func (m Model) View() string {
	var b strings.Builder

	switch {
	case !m.done:
		b.WriteString(m.spinner.View())
	case m.result.OK():
		b.WriteString(doneStyle.Render("✓"))
	default:
		b.WriteString(failStyle.Render("✗"))
	}
	b.WriteString(" ")
	b.WriteString(labelStyle.Render(m.label))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(report.HumanBytes(m.bytes)))

	if !m.done {
		elapsed := time.Since(m.started)
		b.WriteString(labelStyle.Render(" " + report.FormatDuration(elapsed)))
	} else if !m.result.OK() {
		b.WriteString(" ")
		b.WriteString(failStyle.Render(m.result.Status.String()))
	}
	b.WriteString("\n")

	return b.String()
}
