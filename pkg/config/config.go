// Package config resolves the release workflow settings.
//
// Values come from, in order of precedence: CLI flags, action inputs
// (INPUT_<NAME>), environment fallbacks, the project file
// .gitflow/config.yaml, and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name for project configuration
	ConfigDir = ".gitflow"
	// ConfigFile is the name of the configuration file
	ConfigFile = "config.yaml"
	// ConfigPath is the full path to the config file relative to project root
	ConfigPath = ConfigDir + "/" + ConfigFile
)

// ProjectConfig is the repository-committed configuration file.
// Every field is optional; unset fields fall through to defaults.
type ProjectConfig struct {
	MainBranch          string `yaml:"main_branch,omitempty"`
	DevelopBranch       string `yaml:"develop_branch,omitempty"`
	ReleaseBranchPrefix string `yaml:"release_branch_prefix,omitempty"`
	HotfixBranchPrefix  string `yaml:"hotfix_branch_prefix,omitempty"`
	VersionIncrement    string `yaml:"version_increment,omitempty"`
	ReleaseSummary      string `yaml:"release_summary,omitempty"`

	// MergeBackFromMain is a pointer so an explicit false is distinguishable
	// from an absent key.
	MergeBackFromMain *bool `yaml:"merge_back_from_main,omitempty"`

	// Slack is a webhook URL or a YAML/JSON options document.
	Slack string `yaml:"slack,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`
}

// Load loads the project configuration from the given directory.
// It searches for .gitflow/config.yaml in the directory and its parents.
//
// If no config file is found, it returns a zero config and nil error.
// If a config file is found but cannot be parsed, it returns an error.
func Load(dir string) (*ProjectConfig, error) {
	configPath, err := findConfigPath(dir)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return &ProjectConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads the project configuration from the current working directory.
func LoadFromCurrentDir() (*ProjectConfig, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return Load(dir)
}

// findConfigPath searches for .gitflow/config.yaml in dir and its parent directories.
// It returns the full path to the config file, or empty string if not found.
func findConfigPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(absDir, ConfigPath)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(absDir)
		if parentDir == absDir {
			return "", nil
		}
		absDir = parentDir
	}
}

// value returns the file value for a settings key, or "" when unset.
func (c *ProjectConfig) value(key string) string {
	if c == nil {
		return ""
	}
	switch key {
	case KeyMainBranch:
		return c.MainBranch
	case KeyDevelopBranch:
		return c.DevelopBranch
	case KeyReleaseBranchPrefix:
		return c.ReleaseBranchPrefix
	case KeyHotfixBranchPrefix:
		return c.HotfixBranchPrefix
	case KeyVersionIncrement:
		return c.VersionIncrement
	case KeyReleaseSummary:
		return c.ReleaseSummary
	case KeyMergeBackFromMain:
		if c.MergeBackFromMain != nil {
			return fmt.Sprintf("%t", *c.MergeBackFromMain)
		}
	case KeySlack:
		return c.Slack
	case KeyLogLevel:
		return c.LogLevel
	}
	return ""
}
