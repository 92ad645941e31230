package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// SymbolicRef resolves a ref name. ok is false when the ref is not symbolic (e.g. detached HEAD).
func SymbolicRef(ctx context.Context, dir, ref string) (string, bool, error) {
	res, err := Run(ctx, []string{"symbolic-ref", "--quiet", ref}, Options{Dir: dir})
	if err == nil {
		value := strings.TrimSpace(res.Stdout)
		if value == "" {
			return "", false, nil
		}
		return value, true, nil
	}
	if res.ExitCode == 1 {
		return "", false, nil
	}
	if strings.TrimSpace(res.Stderr) != "" {
		return "", false, fmt.Errorf("git symbolic-ref %s failed: %w: %s", ref, err, strings.TrimSpace(res.Stderr))
	}
	return "", false, err
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
// It works in a repository that has no commits yet.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	ref, ok, err := SymbolicRef(ctx, dir, "HEAD")
	if err != nil {
		return "", err
	}
	if !ok {
		return "HEAD", nil
	}
	return strings.TrimPrefix(ref, "refs/heads/"), nil
}

// IsDefaultBranchName reports whether name is one of the conventional trunk names.
func IsDefaultBranchName(name string) bool {
	switch strings.TrimSpace(name) {
	case "main", "master", "trunk":
		return true
	}
	return false
}
