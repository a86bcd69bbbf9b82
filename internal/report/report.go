// Package report writes transfer summaries to the diagnostic channel.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	fetch "github.com/monolythium/miniwget/internal/net"
)

// Semantic colors, shared with the progress view.
var (
	ColorMuted   = lipgloss.Color("241")
	ColorBright  = lipgloss.Color("255")
	ColorSuccess = lipgloss.Color("82")
	ColorDanger  = lipgloss.Color("196")
	ColorAccent  = lipgloss.Color("99")
)

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Reporter renders summaries onto a writer, normally os.Stderr.
type Reporter struct {
	out    io.Writer
	styled bool

	bytesStyle lipgloss.Style
	okStyle    lipgloss.Style
	errStyle   lipgloss.Style
	mutedStyle lipgloss.Style
}

// New returns a Reporter for out. Styling is enabled only when out is a terminal.
func New(out io.Writer) *Reporter {
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:        out,
		styled:     IsTerminal(out),
		bytesStyle: r.NewStyle().Bold(true).Foreground(ColorBright),
		okStyle:    r.NewStyle().Foreground(ColorSuccess),
		errStyle:   r.NewStyle().Bold(true).Foreground(ColorDanger),
		mutedStyle: r.NewStyle().Foreground(ColorMuted),
	}
}

func (r *Reporter) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// Summary formats the outcome of a fetch, e.g.
//
//	[5120 bytes] 5.0 KiB in 12ms
func (r *Reporter) Summary(res fetch.Result) string {
	var b strings.Builder
	b.WriteString(r.style(r.bytesStyle, fmt.Sprintf("[%d bytes]", res.Bytes)))
	if res.Bytes >= 1024 {
		b.WriteString(" ")
		b.WriteString(HumanBytes(res.Bytes))
	}
	if res.Elapsed > 0 {
		b.WriteString(r.style(r.mutedStyle, " in "+FormatDuration(res.Elapsed)))
	}
	if !res.OK() {
		b.WriteString(" ")
		b.WriteString(r.style(r.errStyle, res.Status.String()))
	}
	return b.String()
}

// Result writes the summary of res on its own line, preceded by a newline so
// that it never runs into response bytes sharing the terminal.
func (r *Reporter) Result(res fetch.Result) error {
	_, err := fmt.Fprintf(r.out, "\n%s\n", r.Summary(res))
	return err
}

// Checksum writes "alg  sum".
func (r *Reporter) Checksum(alg, sum string) error {
	_, err := fmt.Fprintf(r.out, "%s  %s\n", r.style(r.mutedStyle, alg), sum)
	return err
}

// Verified writes a confirmation that the digest matched.
func (r *Reporter) Verified(alg string) error {
	_, err := fmt.Fprintf(r.out, "%s\n", r.style(r.okStyle, alg+" checksum OK"))
	return err
}

// Error writes "Error: msg".
func (r *Reporter) Error(err error) {
	fmt.Fprintf(r.out, "%s %v\n", r.style(r.errStyle, "Error:"), err)
}

// HumanBytes formats n using binary units.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 5; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatDuration rounds d to a readable precision.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
