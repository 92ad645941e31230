package ui

import (
	"fmt"
	"io"
	"strings"
)

const (
	escCursorUp  = "\x1b[A"
	escClearLine = "\x1b[2K"
)

// Terminal is the cursor-relative redraw surface used by the PR preview.
type Terminal interface {
	// EraseLines moves the cursor up and clears a line, n times.
	EraseLines(n int)
	// Print writes text and returns how many lines it occupies.
	Print(text string) int
}

type flusher interface {
	Flush() error
}

// ANSITerminal implements Terminal with VT100 escape sequences.
type ANSITerminal struct {
	out io.Writer
}

func NewANSITerminal(out io.Writer) *ANSITerminal {
	return &ANSITerminal{out: out}
}

func (t *ANSITerminal) EraseLines(n int) {
	if n <= 0 {
		return
	}
	fmt.Fprint(t.out, strings.Repeat(escCursorUp+escClearLine, n))
	flush(t.out)
}

func (t *ANSITerminal) Print(text string) int {
	fmt.Fprint(t.out, text)
	flush(t.out)
	return CountLines(text)
}

// CountLines counts lines the way a line iterator does: a trailing newline
// ends the last line rather than starting an empty one.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func flush(w io.Writer) {
	if f, ok := w.(flusher); ok {
		_ = f.Flush()
	}
}
