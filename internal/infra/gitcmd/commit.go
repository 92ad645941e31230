package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// Commit records message on the current branch. With all, tracked modifications are staged first.
func Commit(ctx context.Context, dir, message string, all bool) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message is required")
	}
	args := []string{"commit"}
	if all {
		args = append(args, "--all")
	}
	args = append(args, "--file", "-")
	res, err := Run(ctx, args, Options{Dir: dir, Stdin: message, ShowOutput: true})
	if err != nil {
		return fmt.Errorf("git commit failed: %w", withStderr(err, res))
	}
	return nil
}

// CreateBranch creates name from HEAD and switches to it.
func CreateBranch(ctx context.Context, dir, name string) error {
	if err := CheckRefFormatBranch(ctx, name); err != nil {
		return err
	}
	res, err := Run(ctx, []string{"switch", "--create", name}, Options{Dir: dir})
	if err != nil {
		return fmt.Errorf("git switch --create %s failed: %w", name, withStderr(err, res))
	}
	return nil
}
