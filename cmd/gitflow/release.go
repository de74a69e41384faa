package main

import (
	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/gitflow"
	"github.com/spf13/cobra"
)

var releaseHotfix bool

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Cut a release branch and open a release pull request",
	Long: `Cut a release branch from the development branch and open a pull request
into the production branch. The version comes from --version, else from
--version-increment applied to the latest release, else the branch tip SHA.

With --hotfix the branch is cut from the production branch with the hotfix
prefix and no pull request is opened.

Examples:
  gitflow release --repository acme/widgets --version-increment minor
  gitflow release --repository acme/widgets --hotfix --version 1.4.2
  gitflow release --repository acme/widgets --version-increment patch --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := actions.New()
		s, err := loadSettings(cmd, rt)
		if err != nil {
			return err
		}
		host, err := newHost(cmd.Context(), s)
		if err != nil {
			return err
		}

		result, err := gitflow.New(s, host).CreateReleasePR(cmd.Context(), releaseHotfix)
		if err != nil {
			return err
		}
		if releaseHotfix && !s.DryRun {
			hotfixNotice(rt, result, s.MainBranch)
		}
		return writeResult(cmd.OutOrStdout(), rt, result)
	},
}

func init() {
	releaseCmd.Flags().BoolVar(&releaseHotfix, "hotfix", false, "Cut a hotfix branch from the production branch instead")
	rootCmd.AddCommand(releaseCmd)
}
