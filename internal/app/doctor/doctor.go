package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tasuku43/committer/internal/infra/config"
	"github.com/tasuku43/committer/internal/infra/gitcmd"
)

type Issue struct {
	Kind    string
	Path    string
	Message string
}

type Result struct {
	Issues   []Issue
	Warnings []string
	Details  []string
}

// Check inspects the environment the commit, branch and pr commands rely on.
// dir is the repository directory and cfgDir the configuration directory.
func Check(ctx context.Context, dir, cfgDir string) (Result, error) {
	if strings.TrimSpace(cfgDir) == "" {
		return Result{}, fmt.Errorf("config directory is required")
	}

	result, err := SelfCheck(ctx)
	if err != nil {
		return Result{}, err
	}

	if ghPath, err := exec.LookPath("gh"); err != nil {
		result.Warnings = append(result.Warnings, "gh not found in PATH: pull requests cannot be opened")
	} else {
		result.Details = append(result.Details, fmt.Sprintf("gh path: %s", ghPath))
	}

	if len(result.Issues) == 0 {
		if issue, ok := checkWorkTree(ctx, dir); !ok {
			result.Issues = append(result.Issues, issue)
		}
	}

	cfgPath := config.Path(cfgDir)
	if _, err := os.Stat(cfgPath); err != nil {
		if os.IsNotExist(err) {
			result.Details = append(result.Details, fmt.Sprintf("config: %s (not found, defaults in use)", cfgPath))
		} else {
			result.Issues = append(result.Issues, Issue{
				Kind:    "unreadable_config",
				Path:    cfgPath,
				Message: fmt.Sprintf("cannot stat config file: %v", err),
			})
		}
	} else {
		result.Details = append(result.Details, fmt.Sprintf("config: %s", cfgPath))
	}

	if _, ok := config.APIKey(cfgDir); !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not set in the environment or %s/.env", config.APIKeyEnv, cfgDir))
	}
	return result, nil
}

func checkWorkTree(ctx context.Context, dir string) (Issue, bool) {
	res, err := gitcmd.Run(ctx, []string{"rev-parse", "--is-inside-work-tree"}, gitcmd.Options{Dir: dir})
	if err != nil || strings.TrimSpace(res.Stdout) != "true" {
		return Issue{
			Kind:    "not_a_work_tree",
			Path:    dir,
			Message: "not inside a git work tree",
		}, false
	}
	return Issue{}, true
}
