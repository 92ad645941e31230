package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// Changes lists staged and unstaged paths in porcelain order.
// Untracked and unmerged paths are reported as unstaged; renames report the new path.
func Changes(ctx context.Context, dir string) ([]string, []string, error) {
	res, err := Run(ctx, []string{"status", "--porcelain=v2", "-z", "--untracked-files=all"}, Options{Dir: dir})
	if err != nil {
		return nil, nil, fmt.Errorf("git status failed: %w", withStderr(err, res))
	}
	staged, unstaged := parseStatusPorcelainV2Z(res.Stdout)
	return staged, unstaged, nil
}

func parseStatusPorcelainV2Z(out string) ([]string, []string) {
	var staged []string
	var unstaged []string

	records := strings.Split(out, "\x00")
	for i := 0; i < len(records); i++ {
		record := records[i]
		if record == "" {
			continue
		}
		switch record[0] {
		case '1':
			// 1 XY sub mH mI mW hH hI path
			fields := strings.SplitN(record, " ", 9)
			if len(fields) < 9 {
				continue
			}
			staged, unstaged = classify(fields[1], fields[8], staged, unstaged)
		case '2':
			// 2 XY sub mH mI mW hH hI Xscore path, followed by the original path record
			fields := strings.SplitN(record, " ", 10)
			i++
			if len(fields) < 10 {
				continue
			}
			staged, unstaged = classify(fields[1], fields[9], staged, unstaged)
		case 'u':
			// u XY sub m1 m2 m3 mW h1 h2 h3 path
			fields := strings.SplitN(record, " ", 11)
			if len(fields) < 11 {
				continue
			}
			unstaged = append(unstaged, fields[10])
		case '?':
			if len(record) > 2 {
				unstaged = append(unstaged, record[2:])
			}
		}
	}
	return staged, unstaged
}

func classify(xy, path string, staged, unstaged []string) ([]string, []string) {
	if len(xy) < 2 {
		return staged, unstaged
	}
	if xy[0] != '.' {
		staged = append(staged, path)
	}
	if xy[1] != '.' {
		unstaged = append(unstaged, path)
	}
	return staged, unstaged
}
