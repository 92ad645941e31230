package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tasuku43/committer/internal/infra/debuglog"
	"go.uber.org/zap"
)

// ErrInputClosed is returned when standard input ends while a prompt is waiting.
var ErrInputClosed = errors.New("input closed")

// ChangeSet is the working-tree state shown before a pull request is opened.
type ChangeSet struct {
	Staged   []string
	Unstaged []string
}

func (c ChangeSet) Empty() bool {
	return len(c.Staged) == 0 && len(c.Unstaged) == 0
}

type TriageAction int

const (
	TriageCommit TriageAction = iota
	TriageSkip
	TriageQuit
)

func (a TriageAction) String() string {
	switch a {
	case TriageCommit:
		return "commit"
	case TriageSkip:
		return "skip"
	case TriageQuit:
		return "quit"
	}
	return "unknown"
}

type BranchAction int

const (
	BranchCreate BranchAction = iota
	BranchSkip
)

type BranchDecision struct {
	Action BranchAction
	Name   string
}

type CommitAction int

const (
	CommitAccept CommitAction = iota
	CommitCancel
	CommitCreateBranch
)

type CommitDecision struct {
	Action  CommitAction
	Message string
}

type PRAction int

const (
	PRCreate PRAction = iota
	PRCancel
)

type PRDecision struct {
	Action PRAction
	Title  string
	Body   string
}

type PrompterOptions struct {
	Theme       Theme
	UseColor    bool
	Terminal    Terminal
	LineEditor  LineEditor
	BlockEditor BlockEditor
}

// Prompter runs the confirmation loops. Each loop reads one line per
// iteration from in and writes plain text to out.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	renderer *Renderer
	term     Terminal
	line     LineEditor
	block    BlockEditor
}

func NewPrompter(in io.Reader, out io.Writer, opts PrompterOptions) *Prompter {
	p := &Prompter{
		in:       bufio.NewReader(in),
		out:      out,
		renderer: NewRenderer(out, opts.Theme, opts.UseColor),
		term:     opts.Terminal,
		line:     opts.LineEditor,
		block:    opts.BlockEditor,
	}
	if p.term == nil {
		p.term = NewANSITerminal(out)
	}
	if p.line == nil {
		if isTerminalReader(in) {
			p.line = NewInlineLineEditor(in, out, opts.Theme, opts.UseColor)
		} else {
			p.line = &readerLineEditor{in: p.in, out: out}
		}
	}
	if p.block == nil {
		p.block = NewExternalEditor()
	}
	return p
}

// Renderer exposes the prompter's renderer so callers print in the same style.
func (p *Prompter) Renderer() *Renderer {
	return p.renderer
}

// PromptUncommitted shows the pending changes and asks whether to commit them first.
func (p *Prompter) PromptUncommitted(changes ChangeSet) (TriageAction, error) {
	debuglog.SetPrompt("uncommitted")
	defer debuglog.ClearPrompt()

	r := p.renderer
	r.Blank()
	r.Warn("⚠ Uncommitted changes won't be included in this PR")
	r.Blank()
	r.FileList("Staged:", changes.Staged)
	r.FileList("Unstaged:", changes.Unstaged)

	for {
		token, err := p.ask("[c]ommit first  [s]kip  [q]uit: ")
		if err != nil {
			return TriageQuit, err
		}
		switch token {
		case "c", "commit":
			return p.triageDone(TriageCommit), nil
		case "s", "skip":
			return p.triageDone(TriageSkip), nil
		case "q", "quit":
			return p.triageDone(TriageQuit), nil
		default:
			r.Hint("Please enter c, s, or q")
		}
	}
}

func (p *Prompter) triageDone(action TriageAction) TriageAction {
	debuglog.LogDecision(action.String())
	return action
}

// PromptBranch asks whether to create the suggested branch, allowing the name
// to be edited in place. The mismatch header is printed once, before the first prompt.
func (p *Prompter) PromptBranch(current, suggested, reason string, showMismatch bool) (BranchDecision, error) {
	debuglog.SetPrompt("branch")
	defer debuglog.ClearPrompt()

	r := p.renderer
	if showMismatch {
		r.Blank()
		r.Warn("⚠ Branch mismatch detected")
		r.KeyValue("Current", current)
		r.KeyValue("Suggested", suggested)
		r.KeyValue("Reason", reason)
		r.Blank()
	}

	suggestion := suggested
	for {
		token, err := p.ask("Create branch? [y/n/e] ")
		if err != nil {
			return BranchDecision{Action: BranchSkip}, err
		}
		switch token {
		case "y", "yes":
			debuglog.LogDecision("create-branch", zap.String("branch", suggestion))
			return BranchDecision{Action: BranchCreate, Name: suggestion}, nil
		case "n", "no":
			debuglog.LogDecision("skip-branch")
			return BranchDecision{Action: BranchSkip}, nil
		case "e", "edit":
			if edited, ok := p.line.EditLine("Branch name", suggestion); ok && strings.TrimSpace(edited) != "" {
				suggestion = strings.TrimSpace(edited)
			}
			r.KeyValue("Branch", suggestion)
		default:
			r.Hint("Please enter y, n, or e")
		}
	}
}

// PromptCommit asks whether to commit message. With allowBranch the user may
// instead divert to creating a branch first.
func (p *Prompter) PromptCommit(message string, allowBranch bool) (CommitDecision, error) {
	debuglog.SetPrompt("commit")
	defer debuglog.ClearPrompt()

	prompt := "Commit? [y/n/e] "
	invalid := "Please enter y, n, or e"
	if allowBranch {
		prompt = "Commit? [y/n/e/b] "
		invalid = "Please enter y, n, e, or b"
	}

	current := message
	for {
		token, err := p.ask(prompt)
		if err != nil {
			return CommitDecision{Action: CommitCancel}, err
		}
		switch {
		case token == "y" || token == "yes":
			debuglog.LogDecision("commit")
			return CommitDecision{Action: CommitAccept, Message: current}, nil
		case token == "n" || token == "no":
			debuglog.LogDecision("cancel-commit")
			return CommitDecision{Action: CommitCancel}, nil
		case token == "e" || token == "edit":
			if edited, ok := p.block.Edit(current, ".txt"); ok {
				current = edited
			}
			p.renderer.Blank()
			p.renderer.Line(current)
		case allowBranch && (token == "b" || token == "branch"):
			debuglog.LogDecision("divert-to-branch")
			return CommitDecision{Action: CommitCreateBranch, Message: current}, nil
		default:
			p.renderer.Hint(invalid)
		}
	}
}

// PrintPRPreview prints the initial pull request preview, preceded by the
// blank lines the first PromptPR redraw erases along with it.
func (p *Prompter) PrintPRPreview(title, body string) {
	preview := FormatPreview(title, body)
	// the first erase covers seed+2 lines: the answered prompt, the preview and
	// the lead-in above it
	lead := prSeedLines(title, body) + 1 - CountLines(preview)
	for i := 0; i < lead; i++ {
		p.renderer.Blank()
	}
	fmt.Fprint(p.out, preview)
}

func prSeedLines(title, body string) int {
	return CountLines(title+"\n\n"+body) + 1
}

// PromptPR asks whether to open a pull request with title and body. The
// preview is assumed to be on screen already, printed by PrintPRPreview;
// every edit erases it and prints the new one in the same place.
func (p *Prompter) PromptPR(title, body string) (PRDecision, error) {
	debuglog.SetPrompt("pr")
	defer debuglog.ClearPrompt()

	prevLines := prSeedLines(title, body)
	for {
		token, err := p.ask("Create PR? [y/n/e] ")
		if err != nil {
			return PRDecision{Action: PRCancel}, err
		}
		switch token {
		case "y", "yes":
			debuglog.LogDecision("create-pr", zap.String("title", title))
			return PRDecision{Action: PRCreate, Title: title, Body: body}, nil
		case "n", "no":
			debuglog.LogDecision("cancel-pr")
			return PRDecision{Action: PRCancel}, nil
		case "e", "edit":
			combined := title + "\n\n" + body
			edited, ok := p.block.Edit(combined, ".md")
			if !ok {
				edited = combined
			}
			title, body = SplitTitleBody(edited)

			// the answered prompt sits below the preview and one blank line above it
			p.term.EraseLines(prevLines + 2)
			p.renderer.Blank()
			prevLines = p.term.Print(FormatPreview(title, body))
		default:
			p.renderer.Hint("Please enter y, n, or e")
		}
	}
}

// FormatPreview renders a pull request as it is shown before confirmation.
func FormatPreview(title, body string) string {
	return title + "\n\n" + body + "\n"
}

// SplitTitleBody parses edited pull request text. The first line is the
// title and the second line is always dropped; the rest is the body.
func SplitTitleBody(text string) (string, string) {
	lines := splitLines(text)
	title := ""
	if len(lines) > 0 {
		title = strings.TrimSpace(lines[0])
	}
	body := ""
	if len(lines) > 2 {
		body = strings.TrimSpace(strings.Join(lines[2:], "\n"))
	}
	return title, body
}

func (p *Prompter) ask(prompt string) (string, error) {
	p.renderer.Prompt(prompt)
	flush(p.out)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				fmt.Fprintln(p.out)
				return "", ErrInputClosed
			}
		} else {
			return "", fmt.Errorf("read input: %w", err)
		}
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
