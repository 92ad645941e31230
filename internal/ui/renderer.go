package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tasuku43/committer/internal/infra/debuglog"
	"github.com/tasuku43/committer/internal/infra/output"
)

type Renderer struct {
	out       io.Writer
	theme     Theme
	useColor  bool
	wrapWidth int
}

func NewRenderer(out io.Writer, theme Theme, useColor bool) *Renderer {
	return &Renderer{
		out:       out,
		theme:     theme,
		useColor:  useColor,
		wrapWidth: currentWrapWidth(),
	}
}

func (r *Renderer) Header(text string) {
	r.writeLine(r.style(text, r.theme.Header))
}

func (r *Renderer) Blank() {
	fmt.Fprintln(r.out)
}

func (r *Renderer) Section(title string) {
	debuglog.SetPhase(strings.ToLower(strings.TrimSpace(strings.TrimSuffix(title, ":"))))
	r.writeLine(r.style(title, r.theme.SectionTitle))
}

func (r *Renderer) Bullet(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Muted.Render(prefix)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) BulletError(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Error.Render(prefix)
		text = r.theme.Error.Render(text)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) Success(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Success.Render(prefix)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) Warn(text string) {
	r.writeLine(r.style(text, r.theme.Warn))
}

// Hint prints a one-line usage reminder after an unrecognized answer.
func (r *Renderer) Hint(text string) {
	r.writeLine(r.style(text, r.theme.Muted))
}

// Prompt writes text without a trailing newline so the answer is typed on the same line.
func (r *Renderer) Prompt(text string) {
	if r.useColor {
		trimmed := strings.TrimRight(text, " ")
		text = r.theme.Accent.Render(trimmed) + text[len(trimmed):]
	}
	fmt.Fprint(r.out, text)
}

// Line writes text verbatim followed by a newline.
func (r *Renderer) Line(text string) {
	r.writeLine(text)
}

// FileList prints a titled list of paths. Nothing is printed for an empty list.
func (r *Renderer) FileList(title string, files []string) {
	if len(files) == 0 {
		return
	}
	r.Section(title)
	for _, file := range files {
		r.Bullet(file)
	}
	r.Blank()
}

// KeyValue prints an indented "label: value" line.
func (r *Renderer) KeyValue(label, value string) {
	key := label + ":"
	if r.useColor {
		key = r.theme.Muted.Render(key)
	}
	r.writeLine(output.Indent + key + " " + value)
}

// Log prints a command echo under the current step.
func (r *Renderer) Log(text string) {
	r.writeLine(r.style(output.Indent+output.Indent+output.LogConnector+" "+text, r.theme.Muted))
}

// LogOutput prints one line of command output aligned under Log.
func (r *Renderer) LogOutput(text string) {
	r.writeLine(r.style(output.LogOutputPrefix()+text, r.theme.Muted))
}

func (r *Renderer) style(text string, style lipgloss.Style) string {
	if !r.useColor {
		return text
	}
	return style.Render(text)
}

func (r *Renderer) writeWithPrefix(prefix, text string) {
	if r.wrapWidth <= 0 {
		r.writeLine(prefix + text)
		return
	}
	prefixWidth := lipgloss.Width(prefix)
	available := r.wrapWidth - prefixWidth
	if available <= 0 {
		r.writeLine(prefix + text)
		return
	}
	wrapped := ansi.Wrap(text, available, "")
	lines := strings.Split(wrapped, "\n")
	if len(lines) == 0 {
		return
	}
	r.writeLine(prefix + lines[0])
	if len(lines) == 1 {
		return
	}
	padding := strings.Repeat(" ", prefixWidth)
	for _, line := range lines[1:] {
		r.writeLine(padding + line)
	}
}

func (r *Renderer) writeLine(text string) {
	fmt.Fprintln(r.out, strings.TrimRight(text, "\n"))
}
