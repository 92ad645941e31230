package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tasuku43/committer/internal/infra/config"
	"github.com/tasuku43/committer/internal/infra/debuglog"
	"github.com/tasuku43/committer/internal/infra/forge"
	"github.com/tasuku43/committer/internal/infra/gitcmd"
	"github.com/tasuku43/committer/internal/infra/output"
	"github.com/tasuku43/committer/internal/infra/paths"
	"github.com/tasuku43/committer/internal/ui"
)

// gitClient is the slice of git the flows act through.
type gitClient interface {
	Changes(ctx context.Context, dir string) ([]string, []string, error)
	CurrentBranch(ctx context.Context, dir string) (string, error)
	Commit(ctx context.Context, dir, message string, all bool) error
	CreateBranch(ctx context.Context, dir, name string) error
}

type execGit struct{}

func (execGit) Changes(ctx context.Context, dir string) ([]string, []string, error) {
	return gitcmd.Changes(ctx, dir)
}

func (execGit) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return gitcmd.CurrentBranch(ctx, dir)
}

func (execGit) Commit(ctx context.Context, dir, message string, all bool) error {
	return gitcmd.Commit(ctx, dir, message, all)
}

func (execGit) CreateBranch(ctx context.Context, dir, name string) error {
	return gitcmd.CreateBranch(ctx, dir, name)
}

type prCreator func(ctx context.Context, dir string, opts forge.CreateOpts) (string, error)

// app carries what every command needs once global flags are resolved.
type app struct {
	ctx      context.Context
	dir      string
	cfgDir   string
	cfg      config.Config
	out      io.Writer
	prompter *ui.Prompter
	renderer *ui.Renderer
	git      gitClient
	createPR prCreator
}

type globalFlags struct {
	dir       string
	configDir string
	verbose   bool
	debug     bool
	noColor   bool
}

// streams lets tests replace the terminal and editors.
type streams struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	useColor    *bool
	git         gitClient
	createPR    prCreator
	lineEditor  ui.LineEditor
	blockEditor ui.BlockEditor
}

func Run() error {
	return newRootCmd(streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}).Execute()
}

func newRootCmd(s streams) *cobra.Command {
	flags := &globalFlags{}
	var a *app

	root := &cobra.Command{
		Use:   "committer",
		Short: "Confirm and edit commit messages, branch names and pull requests",
		Long: `committer turns uncommitted repository state into a commit, a branch or a
pull request, asking before each step. Every proposal can be accepted,
declined or edited in place.`,
		Version:       versionLine(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(flags, s)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return debuglog.Close()
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.dir, "dir", "C", "", "run as if started in this directory")
	pf.StringVar(&flags.configDir, "config-dir", "", "override the configuration directory")
	pf.BoolVarP(&flags.verbose, "verbose", "v", envBool("COMMITTER_VERBOSE"), "echo git commands")
	pf.BoolVar(&flags.debug, "debug", envBool("COMMITTER_DEBUG"), "write a debug log under the configuration directory")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	getApp := func() *app { return a }
	root.AddCommand(
		newCommitCmd(getApp),
		newBranchCmd(getApp),
		newPRCmd(getApp),
		newConfigCmd(getApp),
		newDoctorCmd(getApp),
	)
	return root
}

func newApp(flags *globalFlags, s streams) (*app, error) {
	cfgDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, err
	}
	cfg := config.Load(cfgDir)

	if flags.debug {
		if err := debuglog.Enable(cfgDir); err != nil {
			return nil, err
		}
	}
	gitcmd.SetVerbose(flags.verbose || cfg.Verbose)

	dir := flags.dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	useColor := !flags.noColor && os.Getenv("NO_COLOR") == "" && isTerminal(s.out)
	if s.useColor != nil {
		useColor = *s.useColor
	}
	if f, ok := s.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		if width, _, err := term.GetSize(f.Fd()); err == nil {
			ui.SetWrapWidth(width)
		}
	}

	theme := ui.DefaultTheme()
	prompter := ui.NewPrompter(s.in, s.out, ui.PrompterOptions{
		Theme:       theme,
		UseColor:    useColor,
		LineEditor:  s.lineEditor,
		BlockEditor: s.blockEditor,
	})
	output.SetStepLogger(prompter.Renderer())

	a := &app{
		ctx:      context.Background(),
		dir:      dir,
		cfgDir:   cfgDir,
		cfg:      cfg,
		out:      s.out,
		prompter: prompter,
		renderer: prompter.Renderer(),
		git:      s.git,
		createPR: s.createPR,
	}
	if a.git == nil {
		a.git = execGit{}
	}
	if a.createPR == nil {
		a.createPR = forge.CreatePR
	}
	return a, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func envBool(key string) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return false
	}
	switch strings.ToLower(val) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
