package cli

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasuku43/committer/internal/domain/branchname"
	"github.com/tasuku43/committer/internal/infra/gitcmd"
	"github.com/tasuku43/committer/internal/ui"
)

const summaryFileLimit = 2

func newCommitCmd(getApp func() *app) *cobra.Command {
	var message string
	var all bool
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Propose a commit message and commit after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getApp().runCommit(message, all)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "proposed commit message")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "commit all tracked changes, not only the staged ones")
	return cmd
}

func (a *app) runCommit(message string, all bool) error {
	staged, unstaged, err := a.git.Changes(a.ctx, a.dir)
	if err != nil {
		return err
	}
	if len(staged) == 0 && len(unstaged) == 0 {
		a.renderer.Bullet("nothing to commit")
		return nil
	}
	if len(staged) == 0 {
		all = true
	}
	proposal := strings.TrimSpace(message)
	if proposal == "" {
		files := staged
		if all {
			files = mergeFiles(staged, unstaged)
		}
		proposal = summarizeChanges(files)
	}
	return a.commitFlow(proposal, all)
}

// commitFlow confirms message and commits. On a default branch the user may
// divert to creating a branch first; after that the commit is confirmed again
// without the branch option.
func (a *app) commitFlow(message string, all bool) error {
	if a.cfg.AutoCommit {
		return a.commit(message, all)
	}
	current, err := a.git.CurrentBranch(a.ctx, a.dir)
	if err != nil {
		return err
	}
	allowBranch := gitcmd.IsDefaultBranchName(current)

	a.renderer.Section("Commit")
	a.renderer.Line(message)
	a.renderer.Blank()
	for {
		decision, err := a.prompter.PromptCommit(message, allowBranch)
		if err != nil {
			return err
		}
		switch decision.Action {
		case ui.CommitCancel:
			a.renderer.Bullet("commit canceled")
			return nil
		case ui.CommitAccept:
			return a.commit(decision.Message, all)
		case ui.CommitCreateBranch:
			message = decision.Message
			allowBranch = false
			created, err := a.branchFlow(current, branchname.Suggest(message), branchname.Reason(current), true)
			if err != nil {
				return err
			}
			if created && a.cfg.CommitAfterBranch {
				return a.commit(message, all)
			}
			a.renderer.Blank()
			a.renderer.Line(message)
			a.renderer.Blank()
		}
	}
}

func (a *app) commit(message string, all bool) error {
	if err := a.git.Commit(a.ctx, a.dir, message, all); err != nil {
		return err
	}
	a.renderer.Success(fmt.Sprintf("committed: %s", firstLine(message)))
	return nil
}

// summarizeChanges builds a fallback commit message from changed paths.
func summarizeChanges(files []string) string {
	if len(files) == 0 {
		return "chore: update files"
	}
	names := make([]string, 0, summaryFileLimit)
	for i, file := range files {
		if i == summaryFileLimit {
			break
		}
		names = append(names, path.Base(file))
	}
	subject := strings.Join(names, ", ")
	if rest := len(files) - len(names); rest > 0 {
		noun := "files"
		if rest == 1 {
			noun = "file"
		}
		subject = fmt.Sprintf("%s and %d more %s", subject, rest, noun)
	}
	return "chore: update " + subject
}

func mergeFiles(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var merged []string
	for _, list := range lists {
		for _, file := range list {
			if _, ok := seen[file]; ok {
				continue
			}
			seen[file] = struct{}{}
			merged = append(merged, file)
		}
	}
	return merged
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(line)
}
