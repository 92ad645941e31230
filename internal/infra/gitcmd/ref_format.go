package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// CheckRefFormatBranch validates a branch name using git check-ref-format.
func CheckRefFormatBranch(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("branch name is required")
	}
	res, err := Run(ctx, []string{"check-ref-format", "--branch", name}, Options{})
	if err != nil {
		return fmt.Errorf("invalid branch name %q: %w", name, withStderr(err, res))
	}
	return nil
}
