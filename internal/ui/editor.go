package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/tasuku43/committer/internal/infra/debuglog"
	"github.com/tasuku43/committer/internal/infra/output"
	"mvdan.cc/sh/v3/shell"
)

var ErrPromptCanceled = errors.New("prompt canceled")

// LineEditor edits a single line starting from a default value.
// ok is false when the edit failed or was canceled.
type LineEditor interface {
	EditLine(label, defaultValue string) (value string, ok bool)
}

// BlockEditor edits multi-line text. ok is false when the edit failed,
// was abandoned, or left the text unchanged.
type BlockEditor interface {
	Edit(text, extension string) (edited string, ok bool)
}

// InlineLineEditor runs a one-line bubbletea text input.
type InlineLineEditor struct {
	in       io.Reader
	out      io.Writer
	theme    Theme
	useColor bool
}

func NewInlineLineEditor(in io.Reader, out io.Writer, theme Theme, useColor bool) *InlineLineEditor {
	return &InlineLineEditor{in: in, out: out, theme: theme, useColor: useColor}
}

func (e *InlineLineEditor) EditLine(label, defaultValue string) (string, bool) {
	debuglog.SetPrompt(label)
	defer debuglog.ClearPrompt()
	model := newLineEditModel(label, defaultValue, e.theme, e.useColor)
	opts := []tea.ProgramOption{}
	if e.in != nil {
		opts = append(opts, tea.WithInput(e.in))
	}
	if e.out != nil {
		opts = append(opts, tea.WithOutput(e.out))
	}
	out, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		debuglog.LogRecovered("line editor", err)
		return "", false
	}
	final, ok := out.(lineEditModel)
	if !ok {
		return "", false
	}
	if final.err != nil {
		debuglog.LogRecovered("line editor", final.err)
		return "", false
	}
	return final.value, true
}

type lineEditModel struct {
	label        string
	defaultValue string
	theme        Theme
	useColor     bool
	input        textinput.Model
	value        string
	done         bool
	err          error
}

func newLineEditModel(label, defaultValue string, theme Theme, useColor bool) lineEditModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = defaultValue
	ti.Focus()
	if defaultValue != "" {
		ti.SetValue(defaultValue)
		ti.CursorEnd()
	}
	if useColor {
		ti.PlaceholderStyle = theme.Muted
	}
	return lineEditModel{
		label:        label,
		defaultValue: defaultValue,
		theme:        theme,
		useColor:     useColor,
		input:        ti,
	}
}

func (m lineEditModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineEditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrPromptCanceled
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				value = m.defaultValue
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineEditModel) View() string {
	prefix := output.StepPrefix
	label := m.label
	if m.useColor {
		prefix = m.theme.Accent.Render(prefix)
		label = m.theme.Accent.Render(label)
	}
	defaultText := ""
	if strings.TrimSpace(m.defaultValue) != "" {
		defaultText = fmt.Sprintf(" [%s]", m.defaultValue)
		if m.useColor {
			defaultText = m.theme.Muted.Render(defaultText)
		}
	}
	if m.done {
		value := m.value
		if m.err != nil {
			value = m.defaultValue
		}
		return fmt.Sprintf("%s%s %s: %s\n", output.Indent, prefix, label, value)
	}
	return fmt.Sprintf("%s%s %s%s: %s\n", output.Indent, prefix, label, defaultText, m.input.View())
}

// readerLineEditor reads the edited line from the prompter's own reader. It
// serves piped input, where a second reader on the same stream would find it
// already drained.
type readerLineEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func (e *readerLineEditor) EditLine(label, defaultValue string) (string, bool) {
	debuglog.SetPrompt(label)
	defer debuglog.ClearPrompt()
	prompt := fmt.Sprintf("%s%s %s: ", output.Indent, output.StepPrefix, label)
	if strings.TrimSpace(defaultValue) != "" {
		prompt = fmt.Sprintf("%s%s %s [%s]: ", output.Indent, output.StepPrefix, label, defaultValue)
	}
	fmt.Fprint(e.out, prompt)
	flush(e.out)
	line, err := e.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		fmt.Fprintln(e.out)
		debuglog.LogRecovered("line editor", err)
		return "", false
	}
	value := strings.TrimSpace(line)
	if value == "" {
		value = defaultValue
	}
	return value, true
}

func isTerminalReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ExternalEditor opens text in $VISUAL or $EDITOR on a temporary file.
type ExternalEditor struct {
	// Command overrides the editor command line; it is split with shell quoting rules.
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewExternalEditor() *ExternalEditor {
	return &ExternalEditor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExternalEditor) Edit(text, extension string) (string, bool) {
	edited, err := e.edit(text, extension)
	if err != nil {
		debuglog.LogRecovered("block editor", err)
		return "", false
	}
	if strings.TrimSpace(edited) == "" || edited == text {
		return "", false
	}
	return edited, true
}

func (e *ExternalEditor) edit(text, extension string) (string, error) {
	argv, err := editorArgv(e.Command)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp("", "committer-*"+extension)
	if err != nil {
		return "", fmt.Errorf("create edit file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write edit file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close edit file: %w", err)
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", argv[0], err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edit file: %w", err)
	}
	edited := string(data)
	if strings.HasSuffix(edited, "\r\n") {
		edited = strings.TrimSuffix(edited, "\r\n")
	} else {
		edited = strings.TrimSuffix(edited, "\n")
	}
	return edited, nil
}

func editorArgv(override string) ([]string, error) {
	line := strings.TrimSpace(override)
	if line == "" {
		line = strings.TrimSpace(os.Getenv("VISUAL"))
	}
	if line == "" {
		line = strings.TrimSpace(os.Getenv("EDITOR"))
	}
	if line == "" {
		if runtime.GOOS == "windows" {
			line = "notepad"
		} else {
			line = "vi"
		}
	}
	argv, err := shell.Fields(line, nil)
	if err != nil {
		return nil, fmt.Errorf("parse editor command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}
	return argv, nil
}
