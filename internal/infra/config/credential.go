package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tasuku43/committer/internal/infra/debuglog"
)

const (
	APIKeyEnv   = "OPENROUTER_API_KEY"
	envFileName = ".env"
)

// APIKey returns the model provider key. The process environment wins over
// dir/.env; a missing key is not an error.
func APIKey(dir string) (string, bool) {
	if value := strings.TrimSpace(os.Getenv(APIKeyEnv)); value != "" {
		return value, true
	}
	if strings.TrimSpace(dir) == "" {
		return "", false
	}
	path := filepath.Join(dir, envFileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	values, err := godotenv.Read(path)
	if err != nil {
		debuglog.LogRecovered("env file parse", err)
		return "", false
	}
	value := strings.TrimSpace(values[APIKeyEnv])
	if value == "" {
		return "", false
	}
	return value, true
}
