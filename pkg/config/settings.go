package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings keys. Each key is also the action input name; flags use the
// same name with dashes.
const (
	KeyGitHubToken         = "github_token"
	KeyRepository          = "repository"
	KeyAPIURL              = "github_api_url"
	KeyMainBranch          = "main_branch"
	KeyDevelopBranch       = "develop_branch"
	KeyReleaseBranchPrefix = "release_branch_prefix"
	KeyHotfixBranchPrefix  = "hotfix_branch_prefix"
	KeyVersion             = "version"
	KeyVersionIncrement    = "version_increment"
	KeyReleaseSummary      = "release_summary"
	KeyDryRun              = "dry_run"
	KeyMergeBackFromMain   = "merge_back_from_main"
	KeySlack               = "slack"
	KeyAppID               = "app_id"
	KeyAppPrivateKey       = "app_private_key"
	KeyLogLevel            = "log_level"
)

// Defaults.
const (
	DefaultMainBranch          = "main"
	DefaultDevelopBranch       = "develop"
	DefaultReleaseBranchPrefix = "release/"
	DefaultHotfixBranchPrefix  = "hotfix/"
	DefaultAPIURL              = "https://api.github.com"
)

type keySpec struct {
	name string
	env  string
	def  string
}

var keySpecs = []keySpec{
	{KeyGitHubToken, "GITHUB_TOKEN", ""},
	{KeyRepository, "GITHUB_REPOSITORY", ""},
	{KeyAPIURL, "GITHUB_API_URL", DefaultAPIURL},
	{KeyMainBranch, "", DefaultMainBranch},
	{KeyDevelopBranch, "", DefaultDevelopBranch},
	{KeyReleaseBranchPrefix, "", DefaultReleaseBranchPrefix},
	{KeyHotfixBranchPrefix, "", DefaultHotfixBranchPrefix},
	{KeyVersion, "", ""},
	{KeyVersionIncrement, "", ""},
	{KeyReleaseSummary, "", ""},
	{KeyDryRun, "", "false"},
	{KeyMergeBackFromMain, "", "true"},
	{KeySlack, "SLACK_OPTIONS", ""},
	{KeyAppID, "GITFLOW_APP_ID", ""},
	{KeyAppPrivateKey, "GITFLOW_APP_PRIVATE_KEY", ""},
	{KeyLogLevel, "GITFLOW_LOG_LEVEL", "info"},
}

// Settings is the immutable configuration of a single run. It is built
// once by Resolve and passed by value.
type Settings struct {
	Token  string
	Owner  string
	Repo   string
	APIURL string

	MainBranch          string
	DevelopBranch       string
	ReleaseBranchPrefix string
	HotfixBranchPrefix  string

	// Version, when set, is used verbatim and wins over VersionIncrement.
	Version          string
	VersionIncrement string
	ReleaseSummary   string

	DryRun bool

	// MergeBackFromMain selects the merge-back source: the production
	// branch when true, the merged release/hotfix branch otherwise.
	MergeBackFromMain bool

	Slack string

	AppID         int64
	AppPrivateKey string

	LogLevel string
}

// Source provides raw values to Resolve. Any field may be nil.
type Source struct {
	// Flags holds explicitly set CLI flag values keyed by settings key.
	Flags map[string]string
	// Input looks up an action input by name.
	Input func(name string) string
	// Getenv looks up environment fallbacks.
	Getenv func(key string) string
	// File is the loaded project configuration.
	File *ProjectConfig
}

func (s Source) lookup(spec keySpec) string {
	if v, ok := s.Flags[spec.name]; ok && v != "" {
		return v
	}
	if s.Input != nil {
		if v := strings.TrimSpace(s.Input(spec.name)); v != "" {
			return v
		}
	}
	if spec.env != "" && s.Getenv != nil {
		if v := strings.TrimSpace(s.Getenv(spec.env)); v != "" {
			return v
		}
	}
	if v := s.File.value(spec.name); v != "" {
		return v
	}
	return spec.def
}

// Resolve builds validated Settings from src.
func Resolve(src Source) (Settings, error) {
	raw := make(map[string]string, len(keySpecs))
	for _, spec := range keySpecs {
		raw[spec.name] = src.lookup(spec)
	}

	s := Settings{
		Token:               raw[KeyGitHubToken],
		APIURL:              raw[KeyAPIURL],
		MainBranch:          raw[KeyMainBranch],
		DevelopBranch:       raw[KeyDevelopBranch],
		ReleaseBranchPrefix: raw[KeyReleaseBranchPrefix],
		HotfixBranchPrefix:  raw[KeyHotfixBranchPrefix],
		Version:             raw[KeyVersion],
		VersionIncrement:    raw[KeyVersionIncrement],
		ReleaseSummary:      raw[KeyReleaseSummary],
		Slack:               raw[KeySlack],
		AppPrivateKey:       raw[KeyAppPrivateKey],
		LogLevel:            raw[KeyLogLevel],
	}

	if repo := raw[KeyRepository]; repo != "" {
		owner, name, err := SplitRepository(repo)
		if err != nil {
			return Settings{}, err
		}
		s.Owner, s.Repo = owner, name
	}

	var err error
	if s.DryRun, err = parseBool(KeyDryRun, raw[KeyDryRun]); err != nil {
		return Settings{}, err
	}
	if s.MergeBackFromMain, err = parseBool(KeyMergeBackFromMain, raw[KeyMergeBackFromMain]); err != nil {
		return Settings{}, err
	}
	if v := raw[KeyAppID]; v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return Settings{}, &ConfigurationError{Key: KeyAppID, Reason: fmt.Sprintf("invalid app id %q", v)}
		}
		s.AppID = id
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the invariants every run depends on.
func (s Settings) Validate() error {
	if s.Owner == "" || s.Repo == "" {
		return &ConfigurationError{Key: KeyRepository, Reason: "repository is required (owner/repo)"}
	}
	if s.MainBranch == "" {
		return &ConfigurationError{Key: KeyMainBranch, Reason: "must not be empty"}
	}
	if s.DevelopBranch == "" {
		return &ConfigurationError{Key: KeyDevelopBranch, Reason: "must not be empty"}
	}
	if s.MainBranch == s.DevelopBranch {
		return &ConfigurationError{Key: KeyDevelopBranch, Reason: fmt.Sprintf("must differ from %s (%q)", KeyMainBranch, s.MainBranch)}
	}
	if s.ReleaseBranchPrefix == "" {
		return &ConfigurationError{Key: KeyReleaseBranchPrefix, Reason: "must not be empty"}
	}
	if s.HotfixBranchPrefix == "" {
		return &ConfigurationError{Key: KeyHotfixBranchPrefix, Reason: "must not be empty"}
	}
	if s.ReleaseBranchPrefix == s.HotfixBranchPrefix {
		return &ConfigurationError{Key: KeyHotfixBranchPrefix, Reason: "must differ from the release branch prefix"}
	}
	if (s.AppID != 0) != (s.AppPrivateKey != "") {
		return &ConfigurationError{Key: KeyAppID, Reason: "app_id and app_private_key must be set together"}
	}
	return nil
}

// Repository returns "owner/repo".
func (s Settings) Repository() string {
	return s.Owner + "/" + s.Repo
}

// String renders the settings for logs with secrets redacted.
func (s Settings) String() string {
	return fmt.Sprintf(
		"repository=%s main=%s develop=%s release_prefix=%q hotfix_prefix=%q version=%q increment=%q dry_run=%t merge_back_from_main=%t slack=%t token=%s app_id=%d",
		s.Repository(), s.MainBranch, s.DevelopBranch, s.ReleaseBranchPrefix, s.HotfixBranchPrefix,
		s.Version, s.VersionIncrement, s.DryRun, s.MergeBackFromMain, s.Slack != "", redact(s.Token), s.AppID,
	)
}

// SplitRepository parses "owner/repo".
func SplitRepository(repo string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(repo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &ConfigurationError{Key: KeyRepository, Reason: fmt.Sprintf("expected owner/repo, got %q", repo)}
	}
	return parts[0], parts[1], nil
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, &ConfigurationError{Key: key, Reason: fmt.Sprintf("invalid boolean %q", v)}
	}
	return b, nil
}

func redact(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "***"
}
