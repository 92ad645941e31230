package gitcmd

import (
	"reflect"
	"testing"
)

func TestParseStatusPorcelainV2Z(t *testing.T) {
	out := "1 M. N... 100644 100644 100644 abcdef0 abcdef0 staged.txt\x00" +
		"1 .M N... 100644 100644 100644 abcdef0 abcdef0 dir/with space.go\x00" +
		"1 MM N... 100644 100644 100644 abcdef0 abcdef0 both.txt\x00" +
		"2 R. N... 100644 100644 100644 abcdef0 abcdef0 R100 new-name.txt\x00old-name.txt\x00" +
		"u UU N... 100644 100644 100644 100644 abcdef0 abcdef0 abcdef0 conflict.txt\x00" +
		"? untracked.txt\x00" +
		"! ignored.log\x00"

	staged, unstaged := parseStatusPorcelainV2Z(out)

	wantStaged := []string{"staged.txt", "both.txt", "new-name.txt"}
	wantUnstaged := []string{"dir/with space.go", "both.txt", "conflict.txt", "untracked.txt"}
	if !reflect.DeepEqual(staged, wantStaged) {
		t.Fatalf("staged = %q, want %q", staged, wantStaged)
	}
	if !reflect.DeepEqual(unstaged, wantUnstaged) {
		t.Fatalf("unstaged = %q, want %q", unstaged, wantUnstaged)
	}
}

func TestParseStatusPorcelainV2ZEmpty(t *testing.T) {
	staged, unstaged := parseStatusPorcelainV2Z("")
	if len(staged) != 0 || len(unstaged) != 0 {
		t.Fatalf("expected no changes, got staged=%q unstaged=%q", staged, unstaged)
	}
}

func TestValidateArgs(t *testing.T) {
	if err := validateArgs(nil); err == nil {
		t.Fatalf("expected error for empty args")
	}
	if err := validateArgs([]string{"push", "--force"}); err == nil {
		t.Fatalf("expected push to be rejected")
	}
	if err := validateArgs([]string{"commit", "--file", "-"}); err != nil {
		t.Fatalf("commit rejected: %v", err)
	}
}

func TestIsDefaultBranchName(t *testing.T) {
	cases := map[string]bool{
		"main":      true,
		"master":    true,
		" trunk ":   true,
		"feature-x": false,
		"":          false,
	}
	for name, want := range cases {
		if got := IsDefaultBranchName(name); got != want {
			t.Fatalf("IsDefaultBranchName(%q) = %v, want %v", name, got, want)
		}
	}
}
