// Package prompt collects single-shot answers from a human on a line-based
// terminal. Every question reads exactly one line and never re-asks.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selection is a 1-based index into a displayed candidate list.
type Selection int

// InvalidSelection is returned for non-numeric, out-of-range or missing answers.
const InvalidSelection Selection = 0

// Valid reports whether s points at a candidate.
func (s Selection) Valid() bool { return s > InvalidSelection }

// Index returns the 0-based slice index for s.
func (s Selection) Index() int { return int(s) - 1 }

// Prompter asks one question at a time and blocks until it is answered.
type Prompter interface {
	SelectOne(label string, count int) Selection
	Confirm(question string) bool
}

// Line is a Prompter over a reader and writer, usually stdin and stdout.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine returns a Line prompter. The reader is buffered once so answers
// typed ahead of the prompt are not lost between questions.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// SelectOne asks for a number in [1, count].
func (p *Line) SelectOne(label string, count int) Selection {
	if label == "" {
		label = "Select a file"
	}
	fmt.Fprintf(p.out, "%s (1-%d): ", label, count)
	answer, ok := p.readLine()
	if !ok {
		return InvalidSelection
	}
	return ParseSelection(answer, count)
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (p *Line) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s (y/n) ", question)
	answer, ok := p.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

// Ask prints question and returns the trimmed answer, or "" on EOF.
func (p *Line) Ask(question string) string {
	fmt.Fprintf(p.out, "%s: ", question)
	answer, _ := p.readLine()
	return answer
}

func (p *Line) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// ParseSelection validates a raw answer against count candidates.
func ParseSelection(answer string, count int) Selection {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > count {
		return InvalidSelection
	}
	return Selection(n)
}
