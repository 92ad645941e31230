package branchname

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

const maxSlugLen = 48

var conventionalPattern = regexp.MustCompile(`^([a-z]+)(\([^)]*\))?!?:\s*(.*)$`)

var conventionalTypes = map[string]struct{}{
	"build":    {},
	"chore":    {},
	"ci":       {},
	"docs":     {},
	"feat":     {},
	"fix":      {},
	"perf":     {},
	"refactor": {},
	"revert":   {},
	"style":    {},
	"test":     {},
}

// Suggest derives a branch name from the first line of a commit message.
// "feat(auth): Add login" becomes "feat/add-login".
func Suggest(message string) string {
	subject := strings.TrimSpace(firstLine(message))
	prefix := ""
	if m := conventionalPattern.FindStringSubmatch(strings.ToLower(subject)); m != nil {
		if _, ok := conventionalTypes[m[1]]; ok {
			prefix = m[1] + "/"
			subject = m[3]
		}
	}
	name := Slugify(subject)
	if name == "" {
		name = "update"
	}
	return prefix + name
}

// Slugify transliterates text to lowercase ASCII and joins its words with
// dashes, keeping at most maxSlugLen bytes.
func Slugify(text string) string {
	out := slug.MakeLang(text, "en")
	if len(out) > maxSlugLen {
		out = strings.TrimRight(out[:maxSlugLen], "-_")
	}
	return out
}

// Title turns a branch name back into a pull request title.
// "feat/add-login" becomes "feat: add login".
func Title(branch string) string {
	branch = strings.TrimSpace(branch)
	kind, rest, found := strings.Cut(branch, "/")
	if !found {
		rest = kind
		kind = ""
	}
	words := strings.Join(strings.FieldsFunc(rest, func(r rune) bool {
		return r == '-' || r == '_' || r == '/'
	}), " ")
	if _, ok := conventionalTypes[kind]; ok && words != "" {
		return kind + ": " + words
	}
	if words == "" {
		return branch
	}
	if kind != "" {
		return kind + " " + words
	}
	return words
}

// Reason explains why a branch is being suggested for a commit.
func Reason(current string) string {
	return "committing directly to " + current
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSuffix(line, "\r")
}
