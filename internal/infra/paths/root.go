package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName   = "committer"
	ConfigDirEnv = "COMMITTER_CONFIG_DIR"
)

// ResolveConfigDir returns the directory holding config.yaml, .env and logs.
// The flag wins over $COMMITTER_CONFIG_DIR, which wins over the user config dir.
func ResolveConfigDir(flagDir string) (string, error) {
	if flagDir != "" {
		return normalizeDir(flagDir)
	}

	envDir := os.Getenv(ConfigDirEnv)
	if envDir != "" {
		return normalizeDir(envDir)
	}

	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return filepath.Join(".", appDirName), nil
	}
	return filepath.Join(base, appDirName), nil
}

func normalizeDir(path string) (string, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}

	return path, nil
}
