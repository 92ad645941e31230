package forge

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tasuku43/committer/internal/infra/debuglog"
)

// CreateOpts are the parameters for opening a pull request.
type CreateOpts struct {
	Title string
	Body  string
	Base  string
	Draft bool
}

// CreatePR opens a pull request for the current branch through the gh CLI
// and returns the URL gh prints.
func CreatePR(ctx context.Context, dir string, opts CreateOpts) (string, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return "", fmt.Errorf("pull request title is required")
	}
	if _, err := exec.LookPath("gh"); err != nil {
		return "", fmt.Errorf("gh CLI not found in PATH: %w", err)
	}
	args := []string{"pr", "create", "--title", opts.Title, "--body-file", "-"}
	if strings.TrimSpace(opts.Base) != "" {
		args = append(args, "--base", opts.Base)
	}
	if opts.Draft {
		args = append(args, "--draft")
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(opts.Body)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	trace := ""
	if debuglog.Enabled() {
		trace = debuglog.NewTrace("gh")
		debuglog.LogCommand(trace, debuglog.FormatCommand("gh", args))
	}
	err := cmd.Run()
	if debuglog.Enabled() {
		debuglog.LogStdoutLines(trace, stdout.String())
		debuglog.LogStderrLines(trace, stderr.String())
		debuglog.LogExit(trace, debuglog.ExitCode(err))
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("gh pr create failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("gh pr create failed: %w", err)
	}
	return lastLine(stdout.String()), nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
