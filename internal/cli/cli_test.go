package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tasuku43/committer/internal/infra/forge"
	"github.com/tasuku43/committer/internal/ui"
)

type commitCall struct {
	message string
	all     bool
}

type fakeGit struct {
	staged   []string
	unstaged []string
	branch   string
	commits  []commitCall
	branches []string
}

func (g *fakeGit) Changes(ctx context.Context, dir string) ([]string, []string, error) {
	return g.staged, g.unstaged, nil
}

func (g *fakeGit) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return g.branch, nil
}

func (g *fakeGit) Commit(ctx context.Context, dir, message string, all bool) error {
	g.commits = append(g.commits, commitCall{message: message, all: all})
	return nil
}

func (g *fakeGit) CreateBranch(ctx context.Context, dir, name string) error {
	g.branches = append(g.branches, name)
	g.branch = name
	return nil
}

type fakeLineEditor struct {
	value string
}

func (e fakeLineEditor) EditLine(label, defaultValue string) (string, bool) {
	if e.value == "" {
		return "", false
	}
	return e.value, true
}

type fakeBlockEditor struct {
	value string
}

func (e fakeBlockEditor) Edit(text, extension string) (string, bool) {
	if e.value == "" {
		return "", false
	}
	return e.value, true
}

type harness struct {
	git    *fakeGit
	prs    []forge.CreateOpts
	cfgDir string
	line   ui.LineEditor
	block  ui.BlockEditor
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T, git *fakeGit) *harness {
	t.Helper()
	t.Setenv("COMMITTER_VERBOSE", "")
	t.Setenv("COMMITTER_DEBUG", "")
	return &harness{
		git:    git,
		cfgDir: t.TempDir(),
		line:   fakeLineEditor{},
		block:  fakeBlockEditor{},
	}
}

func (h *harness) run(input string, args ...string) error {
	noColor := false
	s := streams{
		in:       strings.NewReader(input),
		out:      &h.out,
		errOut:   &h.errOut,
		useColor: &noColor,
		git:      h.git,
		createPR: func(ctx context.Context, dir string, opts forge.CreateOpts) (string, error) {
			h.prs = append(h.prs, opts)
			return "https://github.com/acme/app/pull/7", nil
		},
		lineEditor:  h.line,
		blockEditor: h.block,
	}
	root := newRootCmd(s)
	root.SetArgs(append([]string{"--config-dir", h.cfgDir, "-C", h.cfgDir}, args...))
	return root.Execute()
}

func (h *harness) writeConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(h.cfgDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestCommitAcceptsSummaryProposal(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"internal/a.go"}, branch: "feat/x"})
	if err := h.run("y\n", "commit"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(h.git.commits))
	}
	got := h.git.commits[0]
	if got.message != "chore: update a.go" || got.all {
		t.Fatalf("commit = %+v", got)
	}
	if !strings.Contains(h.out.String(), "Commit? [y/n/e] ") {
		t.Fatalf("expected prompt without branch option, got %q", h.out.String())
	}
	if !strings.Contains(h.out.String(), "committed: chore: update a.go") {
		t.Fatalf("expected success line, got %q", h.out.String())
	}
}

func TestCommitNothingToCommit(t *testing.T) {
	h := newHarness(t, &fakeGit{branch: "main"})
	if err := h.run("", "commit"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.commits) != 0 {
		t.Fatalf("unexpected commits: %+v", h.git.commits)
	}
	if !strings.Contains(h.out.String(), "nothing to commit") {
		t.Fatalf("output = %q", h.out.String())
	}
}

func TestCommitCommitsAllWhenNothingStaged(t *testing.T) {
	h := newHarness(t, &fakeGit{unstaged: []string{"a.txt", "b.txt", "c.txt", "d.txt"}, branch: "feat/x"})
	if err := h.run("y\n", "commit"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got := h.git.commits[0]
	if got.message != "chore: update a.txt, b.txt and 2 more files" || !got.all {
		t.Fatalf("commit = %+v", got)
	}
}

func TestCommitDeclined(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"a.go"}, branch: "main"})
	if err := h.run("n\n", "commit", "-m", "fix: typo"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.commits) != 0 {
		t.Fatalf("unexpected commits: %+v", h.git.commits)
	}
	if !strings.Contains(h.out.String(), "commit canceled") {
		t.Fatalf("output = %q", h.out.String())
	}
}

func TestCommitDivertsToBranchThenReprompts(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"a.go"}, branch: "main"})
	if err := h.run("b\ny\ny\n", "commit", "-m", "feat(auth): Add login"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.branches) != 1 || h.git.branches[0] != "feat/add-login" {
		t.Fatalf("branches = %v", h.git.branches)
	}
	if len(h.git.commits) != 1 || h.git.commits[0].message != "feat(auth): Add login" {
		t.Fatalf("commits = %+v", h.git.commits)
	}
	out := h.out.String()
	first := strings.Index(out, "Commit? [y/n/e/b] ")
	second := strings.Index(out, "Commit? [y/n/e] ")
	if first < 0 || second < first {
		t.Fatalf("expected branch option only on the first prompt, got %q", out)
	}
	if !strings.Contains(out, "Branch mismatch detected") {
		t.Fatalf("expected mismatch header, got %q", out)
	}
}

func TestCommitAfterBranchSkipsSecondPrompt(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"a.go"}, branch: "master"})
	h.writeConfig(t, "commit_after_branch: true\n")
	if err := h.run("b\ny\n", "commit", "-m", "fix: Broken link"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.commits) != 1 {
		t.Fatalf("commits = %+v", h.git.commits)
	}
	if strings.Contains(h.out.String(), "Commit? [y/n/e] ") {
		t.Fatalf("unexpected second prompt: %q", h.out.String())
	}
}

func TestCommitSkippedBranchStillCommits(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"a.go"}, branch: "main"})
	if err := h.run("b\nn\ny\n", "commit", "-m", "docs: readme"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.branches) != 0 {
		t.Fatalf("branches = %v", h.git.branches)
	}
	if len(h.git.commits) != 1 {
		t.Fatalf("commits = %+v", h.git.commits)
	}
	if !strings.Contains(h.out.String(), "staying on main") {
		t.Fatalf("output = %q", h.out.String())
	}
}

func TestCommitAutoCommit(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"a.go"}, branch: "main"})
	h.writeConfig(t, "auto_commit: true\n")
	if err := h.run("", "commit", "-m", "chore: bump"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(h.git.commits) != 1 {
		t.Fatalf("commits = %+v", h.git.commits)
	}
	if strings.Contains(h.out.String(), "Commit?") {
		t.Fatalf("unexpected prompt: %q", h.out.String())
	}
}

func TestCommitInputClosed(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"a.go"}, branch: "feat/x"})
	err := h.run("", "commit")
	if !errors.Is(err, ui.ErrInputClosed) {
		t.Fatalf("err = %v, want ErrInputClosed", err)
	}
	if len(h.git.commits) != 0 {
		t.Fatalf("unexpected commits: %+v", h.git.commits)
	}
}

func TestBranchEditsSuggestion(t *testing.T) {
	h := newHarness(t, &fakeGit{branch: "main"})
	h.line = fakeLineEditor{value: "fix/typo-readme"}
	if err := h.run("e\ny\n", "branch", "--suggest", "fix/typo"); err != nil {
		t.Fatalf("branch: %v", err)
	}
	if len(h.git.branches) != 1 || h.git.branches[0] != "fix/typo-readme" {
		t.Fatalf("branches = %v", h.git.branches)
	}
	out := h.out.String()
	if !strings.Contains(out, "Reason: committing directly to main") {
		t.Fatalf("expected default reason, got %q", out)
	}
	if !strings.Contains(out, "switched to new branch fix/typo-readme") {
		t.Fatalf("output = %q", out)
	}
}

func TestBranchSuggestsFromChanges(t *testing.T) {
	h := newHarness(t, &fakeGit{staged: []string{"docs/guide.md"}, branch: "main"})
	if err := h.run("y\n", "branch"); err != nil {
		t.Fatalf("branch: %v", err)
	}
	if len(h.git.branches) != 1 || h.git.branches[0] != "chore/update-guide-md" {
		t.Fatalf("branches = %v", h.git.branches)
	}
}

func TestPRCreatesWithFlags(t *testing.T) {
	h := newHarness(t, &fakeGit{branch: "feat/login"})
	if err := h.run("y\n", "pr", "--title", "Add login", "--body", "Adds OAuth.", "--base", "develop", "--draft"); err != nil {
		t.Fatalf("pr: %v", err)
	}
	if len(h.prs) != 1 {
		t.Fatalf("prs = %+v", h.prs)
	}
	want := forge.CreateOpts{Title: "Add login", Body: "Adds OAuth.", Base: "develop", Draft: true}
	if h.prs[0] != want {
		t.Fatalf("pr = %+v, want %+v", h.prs[0], want)
	}
	out := h.out.String()
	if !strings.Contains(out, "\nAdd login\n\nAdds OAuth.\nCreate PR? [y/n/e] ") {
		t.Fatalf("expected preview before prompt, got %q", out)
	}
	if !strings.Contains(out, "created https://github.com/acme/app/pull/7") {
		t.Fatalf("output = %q", out)
	}
}

func TestPRTitleDefaultsFromBranch(t *testing.T) {
	h := newHarness(t, &fakeGit{branch: "feat/add-login"})
	if err := h.run("n\n", "pr"); err != nil {
		t.Fatalf("pr: %v", err)
	}
	if len(h.prs) != 0 {
		t.Fatalf("unexpected prs: %+v", h.prs)
	}
	out := h.out.String()
	if !strings.Contains(out, "feat: add login") {
		t.Fatalf("expected derived title, got %q", out)
	}
	if !strings.Contains(out, "pull request canceled") {
		t.Fatalf("output = %q", out)
	}
}

func TestPRBodyFile(t *testing.T) {
	h := newHarness(t, &fakeGit{branch: "feat/x"})
	path := filepath.Join(t.TempDir(), "body.md")
	if err := os.WriteFile(path, []byte("Line one.\n\nLine two.\n"), 0o644); err != nil {
		t.Fatalf("write body: %v", err)
	}
	if err := h.run("y\n", "pr", "-t", "Title", "--body-file", path); err != nil {
		t.Fatalf("pr: %v", err)
	}
	if h.prs[0].Body != "Line one.\n\nLine two." {
		t.Fatalf("body = %q", h.prs[0].Body)
	}
}

func TestPREditReplacesTitleAndBody(t *testing.T) {
	h := newHarness(t, &fakeGit{branch: "feat/x"})
	h.block = fakeBlockEditor{value: "New title\n\nNew body"}
	if err := h.run("e\ny\n", "pr", "-t", "Old", "-b", "Old body"); err != nil {
		t.Fatalf("pr: %v", err)
	}
	if len(h.prs) != 1 || h.prs[0].Title != "New title" || h.prs[0].Body != "New body" {
		t.Fatalf("prs = %+v", h.prs)
	}
}

func TestPRTriage(t *testing.T) {
	cases := []struct {
		name        string
		input       string
		wantCommits int
		wantPRs     int
	}{
		{name: "skip", input: "s\ny\n", wantCommits: 0, wantPRs: 1},
		{name: "quit", input: "q\n", wantCommits: 0, wantPRs: 0},
		{name: "commit first", input: "c\ny\ny\n", wantCommits: 1, wantPRs: 1},
		{name: "retry on invalid", input: "x\ns\nn\n", wantCommits: 0, wantPRs: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, &fakeGit{unstaged: []string{"notes.txt"}, branch: "feat/x"})
			if err := h.run(tc.input, "pr", "-t", "Title"); err != nil {
				t.Fatalf("pr: %v", err)
			}
			if len(h.git.commits) != tc.wantCommits {
				t.Fatalf("commits = %+v", h.git.commits)
			}
			if len(h.prs) != tc.wantPRs {
				t.Fatalf("prs = %+v", h.prs)
			}
			if !strings.Contains(h.out.String(), "Uncommitted changes won't be included in this PR") {
				t.Fatalf("expected triage header, got %q", h.out.String())
			}
		})
	}
}

func TestConfigSetGet(t *testing.T) {
	h := newHarness(t, &fakeGit{})
	if err := h.run("", "config", "set", "model", "openai/gpt-5"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	h.out.Reset()
	if err := h.run("", "config", "get", "model"); err != nil {
		t.Fatalf("config get: %v", err)
	}
	if got := h.out.String(); got != "openai/gpt-5\n" {
		t.Fatalf("get = %q", got)
	}
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	h := newHarness(t, &fakeGit{})
	if err := h.run("", "config", "set", "color", "true"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestConfigPath(t *testing.T) {
	h := newHarness(t, &fakeGit{})
	if err := h.run("", "config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}
	want := filepath.Join(h.cfgDir, "config.yaml") + "\n"
	if got := h.out.String(); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestSummarizeChanges(t *testing.T) {
	cases := []struct {
		files []string
		want  string
	}{
		{files: nil, want: "chore: update files"},
		{files: []string{"a/b.go"}, want: "chore: update b.go"},
		{files: []string{"a", "b"}, want: "chore: update a, b"},
		{files: []string{"a", "b", "c"}, want: "chore: update a, b and 1 more file"},
	}
	for _, tc := range cases {
		if got := summarizeChanges(tc.files); got != tc.want {
			t.Fatalf("summarizeChanges(%v) = %q, want %q", tc.files, got, tc.want)
		}
	}
}

func TestDoctorReportsMissingGit(t *testing.T) {
	h := newHarness(t, &fakeGit{})
	t.Setenv("PATH", t.TempDir())
	err := h.run("", "doctor")
	if err == nil {
		t.Fatalf("expected doctor to fail without git")
	}
	if !strings.Contains(h.out.String(), "missing_dependency: git not found in PATH") {
		t.Fatalf("output = %q", h.out.String())
	}
}
