package main

import (
	"context"
	"strings"

	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/config"
	"github.com/holon-run/gitflow/pkg/github"
	"github.com/holon-run/gitflow/pkg/gitflow"
	"github.com/holon-run/gitflow/pkg/log"
	"github.com/spf13/cobra"
)

// settingFlags are the settings keys exposed as persistent flags. Flag
// names use dashes: release_branch_prefix becomes --release-branch-prefix.
var settingFlags = []struct {
	key    string
	usage  string
	isBool bool
}{
	{config.KeyRepository, "Repository as owner/repo (default $GITHUB_REPOSITORY)", false},
	{config.KeyGitHubToken, "GitHub token (default $GITHUB_TOKEN)", false},
	{config.KeyAPIURL, "GitHub API base URL (default $GITHUB_API_URL)", false},
	{config.KeyMainBranch, "Production branch", false},
	{config.KeyDevelopBranch, "Development branch", false},
	{config.KeyReleaseBranchPrefix, "Release branch prefix", false},
	{config.KeyHotfixBranchPrefix, "Hotfix branch prefix", false},
	{config.KeyVersion, "Explicit version, wins over --version-increment", false},
	{config.KeyVersionIncrement, "Version increment: major, minor, patch, premajor, preminor, prepatch or prerelease", false},
	{config.KeyReleaseSummary, "Text appended to the release pull request body", false},
	{config.KeyDryRun, "Log intended changes without making them", true},
	{config.KeyMergeBackFromMain, "Merge the production branch (not the release branch) back into development", true},
	{config.KeySlack, "Slack webhook URL or notifier options (default $SLACK_OPTIONS)", false},
	{config.KeyLogLevel, "Log level: debug, info, warn or error", false},
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func registerSettingsFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	for _, f := range settingFlags {
		if f.isBool {
			flags.Bool(flagName(f.key), false, f.usage)
			continue
		}
		flags.String(flagName(f.key), "", f.usage)
	}
}

// changedFlags returns the explicitly set setting flags keyed by settings key.
func changedFlags(cmd *cobra.Command) map[string]string {
	out := make(map[string]string)
	for _, f := range settingFlags {
		fl := cmd.Flags().Lookup(flagName(f.key))
		if fl != nil && fl.Changed {
			out[f.key] = fl.Value.String()
		}
	}
	return out
}

// loadSettings resolves the run configuration and applies the log level.
func loadSettings(cmd *cobra.Command, rt *actions.Runtime) (config.Settings, error) {
	file, err := config.LoadFromCurrentDir()
	if err != nil {
		return config.Settings{}, err
	}

	s, err := config.Resolve(config.Source{
		Flags:  changedFlags(cmd),
		Input:  rt.Input,
		Getenv: rt.Getenv,
		File:   file,
	})
	if err != nil {
		return config.Settings{}, err
	}

	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		log.Warn("unknown log level, using info", "log_level", s.LogLevel)
	} else {
		log.SetLevel(level)
	}
	log.Info("resolved configuration", "settings", s.String())
	return s, nil
}

// newHost builds the GitHub host for s. GitHub App credentials, when set,
// are exchanged for an installation token and win over the plain token.
var newHost = func(ctx context.Context, s config.Settings) (gitflow.Host, error) {
	opts := []github.ClientOption{github.WithBaseURL(s.APIURL)}

	token := s.Token
	if s.AppID != 0 {
		t, err := github.InstallationToken(ctx, s.AppID, s.AppPrivateKey, s.Owner, s.Repo, opts...)
		if err != nil {
			return nil, err
		}
		log.Info("authenticated as GitHub App installation", "app_id", s.AppID)
		token = t
	}
	if token == "" {
		return nil, &config.ConfigurationError{
			Key:    config.KeyGitHubToken,
			Reason: "a token or GitHub App credentials are required",
		}
	}

	return github.NewClient(token, opts...).Repository(s.Owner, s.Repo), nil
}
