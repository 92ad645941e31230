package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasuku43/committer/internal/domain/branchname"
	"github.com/tasuku43/committer/internal/ui"
)

func newBranchCmd(getApp func() *app) *cobra.Command {
	var suggest string
	var reason string
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Propose a branch name and switch to it after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return getApp().runBranch(suggest, reason)
		},
	}
	cmd.Flags().StringVar(&suggest, "suggest", "", "suggested branch name")
	cmd.Flags().StringVar(&reason, "reason", "", "why a new branch is suggested")
	return cmd
}

func (a *app) runBranch(suggest, reason string) error {
	current, err := a.git.CurrentBranch(a.ctx, a.dir)
	if err != nil {
		return err
	}
	suggest = strings.TrimSpace(suggest)
	if suggest == "" {
		staged, unstaged, err := a.git.Changes(a.ctx, a.dir)
		if err != nil {
			return err
		}
		suggest = branchname.Suggest(summarizeChanges(mergeFiles(staged, unstaged)))
	}
	if strings.TrimSpace(reason) == "" {
		reason = branchname.Reason(current)
	}
	_, err = a.branchFlow(current, suggest, reason, current != suggest)
	return err
}

// branchFlow confirms suggested and creates it. It reports whether a branch was created.
func (a *app) branchFlow(current, suggested, reason string, showMismatch bool) (bool, error) {
	decision, err := a.prompter.PromptBranch(current, suggested, reason, showMismatch)
	if err != nil {
		return false, err
	}
	if decision.Action == ui.BranchSkip {
		a.renderer.Bullet(fmt.Sprintf("staying on %s", current))
		return false, nil
	}
	if err := a.git.CreateBranch(a.ctx, a.dir, decision.Name); err != nil {
		return false, err
	}
	a.renderer.Success(fmt.Sprintf("switched to new branch %s", decision.Name))
	return true, nil
}
