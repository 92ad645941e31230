package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasuku43/committer/internal/domain/branchname"
	"github.com/tasuku43/committer/internal/infra/forge"
	"github.com/tasuku43/committer/internal/ui"
)

type prFlags struct {
	title    string
	body     string
	bodyFile string
	base     string
	draft    bool
}

func newPRCmd(getApp func() *app) *cobra.Command {
	flags := &prFlags{}
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Preview a pull request and open it after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getApp().runPR(*flags)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.title, "title", "t", "", "pull request title (defaults to one derived from the branch)")
	f.StringVarP(&flags.body, "body", "b", "", "pull request body")
	f.StringVarP(&flags.bodyFile, "body-file", "F", "", "read the pull request body from a file")
	f.StringVarP(&flags.base, "base", "B", "", "base branch")
	f.BoolVarP(&flags.draft, "draft", "d", false, "open as a draft")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	return cmd
}

func (a *app) runPR(flags prFlags) error {
	body := flags.body
	if flags.bodyFile != "" {
		data, err := os.ReadFile(flags.bodyFile)
		if err != nil {
			return fmt.Errorf("read body file: %w", err)
		}
		body = string(data)
	}
	body = strings.TrimSpace(body)

	proceed, err := a.triageUncommitted()
	if err != nil || !proceed {
		return err
	}

	title := strings.TrimSpace(flags.title)
	if title == "" {
		current, err := a.git.CurrentBranch(a.ctx, a.dir)
		if err != nil {
			return err
		}
		title = branchname.Title(current)
	}

	a.renderer.Section("Pull request")
	a.prompter.PrintPRPreview(title, body)
	decision, err := a.prompter.PromptPR(title, body)
	if err != nil {
		return err
	}
	if decision.Action == ui.PRCancel {
		a.renderer.Bullet("pull request canceled")
		return nil
	}
	url, err := a.createPR(a.ctx, a.dir, forge.CreateOpts{
		Title: decision.Title,
		Body:  decision.Body,
		Base:  flags.base,
		Draft: flags.draft,
	})
	if err != nil {
		return err
	}
	a.renderer.Success(fmt.Sprintf("created %s", url))
	return nil
}

// triageUncommitted asks what to do with pending changes before a pull
// request. It reports whether the pull request flow should continue.
func (a *app) triageUncommitted() (bool, error) {
	staged, unstaged, err := a.git.Changes(a.ctx, a.dir)
	if err != nil {
		return false, err
	}
	changes := ui.ChangeSet{Staged: staged, Unstaged: unstaged}
	if changes.Empty() {
		return true, nil
	}
	action, err := a.prompter.PromptUncommitted(changes)
	if err != nil {
		return false, err
	}
	switch action {
	case ui.TriageCommit:
		if err := a.runCommit("", len(staged) == 0); err != nil {
			return false, err
		}
		return true, nil
	case ui.TriageSkip:
		return true, nil
	default:
		a.renderer.Bullet("aborted")
		return false, nil
	}
}
