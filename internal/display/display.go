package display

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes user-facing output. It is not a logger: everything it
// prints is meant for the human driving the session.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Writer exposes the underlying writer for prompts sharing the terminal.
func (p *Printer) Writer() io.Writer { return p.out }

// Line prints plain text.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Info prints a muted status line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints a highlighted error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Box prints msg inside a bordered box colored by tone.
func (p *Printer) Box(tone Tone, msg string) {
	fmt.Fprintln(p.out, boxStyle.BorderForeground(toneColor(tone)).Render(msg))
}

// Candidates prints a 1-indexed list under a title.
func (p *Printer) Candidates(title string, items []string) {
	if title != "" {
		fmt.Fprintln(p.out, headerStyle.Render(title))
	}
	for i, item := range items {
		fmt.Fprintf(p.out, "%s %s\n", indexStyle.Render(fmt.Sprintf("%d.", i+1)), item)
	}
}

// Table prints a 1-indexed list of rows with a header row.
func (p *Printer) Table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := range header {
			if i < len(row) && len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	pad := len(fmt.Sprintf("%d.", len(rows)))
	fmt.Fprintln(p.out, headerStyle.Render(strings.Repeat(" ", pad+1)+joinPadded(header, widths)))
	for n, row := range rows {
		idx := fmt.Sprintf("%*s", pad, fmt.Sprintf("%d.", n+1))
		fmt.Fprintf(p.out, "%s %s\n", indexStyle.Render(idx), joinPadded(row, widths))
	}
}

func joinPadded(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.TrimRight(strings.Join(parts, "   "), " ")
}

// Banner prints the welcome message shown when pdst runs without arguments.
func (p *Printer) Banner() {
	fmt.Fprintln(p.out, bannerStyle.Render(`Welcome 👋 to "Private Data Storage Tool"`))
}
