package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tasuku43/committer/internal/infra/debuglog"
	"github.com/tasuku43/committer/internal/infra/paths"
	"gopkg.in/yaml.v3"
)

const (
	FileName     = "config.yaml"
	DefaultModel = "google/gemini-3-flash-preview"
)

type Config struct {
	AutoCommit        bool   `yaml:"auto_commit"`
	CommitAfterBranch bool   `yaml:"commit_after_branch"`
	Model             string `yaml:"model"`
	Verbose           bool   `yaml:"verbose"`
}

func Default() Config {
	return Config{Model: DefaultModel}
}

func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads config.yaml from dir. It never fails: a missing, unreadable or
// malformed file yields Default(), and keys absent from the file keep their
// default values.
func Load(dir string) Config {
	path := Path(dir)
	exists, err := paths.FileExists(path)
	if err != nil {
		debuglog.LogRecovered("config stat", err)
		return Default()
	}
	if !exists {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		debuglog.LogRecovered("config read", err)
		return Default()
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		debuglog.LogRecovered("config parse", err)
		return Default()
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	return cfg
}

// Save writes cfg to dir/config.yaml atomically, creating dir when needed.
func Save(dir string, cfg Config) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("config directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		_ = enc.Close()
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close config encoder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, Path(dir)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{"auto_commit", "commit_after_branch", "model", "verbose"}
}

// Set updates one key from its string form.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	switch key {
	case "auto_commit":
		return setBool(&c.AutoCommit, key, value)
	case "commit_after_branch":
		return setBool(&c.CommitAfterBranch, key, value)
	case "verbose":
		return setBool(&c.Verbose, key, value)
	case "model":
		if value == "" {
			return fmt.Errorf("model must not be empty")
		}
		c.Model = value
		return nil
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
}

// Get returns the string form of one key.
func (c Config) Get(key string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "auto_commit":
		return strconv.FormatBool(c.AutoCommit), nil
	case "commit_after_branch":
		return strconv.FormatBool(c.CommitAfterBranch), nil
	case "verbose":
		return strconv.FormatBool(c.Verbose), nil
	case "model":
		return c.Model, nil
	default:
		return "", fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
}

func setBool(target *bool, key, value string) error {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s expects true or false, got %q", key, value)
	}
	*target = parsed
	return nil
}
