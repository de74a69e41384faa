package main

import (
	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/gitflow"
	"github.com/spf13/cobra"
)

var postReleasePR int

var postReleaseCmd = &cobra.Command{
	Use:   "post-release",
	Short: "Publish the release for a merged release or hotfix pull request",
	Long: `Publish the release for a merged release or hotfix pull request, merge the
production branch back into the development branch and notify chat.

The pull request is re-fetched; nothing happens unless it is merged into the
production branch from a release or hotfix branch.

Examples:
  gitflow post-release --repository acme/widgets --pr 42`,
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

		event := gitflow.PullRequestEvent{Number: postReleasePR, Merged: true}
		result, err := gitflow.New(s, host).ExecuteOnRelease(cmd.Context(), event)
		if werr := writeResult(cmd.OutOrStdout(), rt, result); werr != nil && err == nil {
			err = werr
		}
		return err
	},
}

func init() {
	postReleaseCmd.Flags().IntVar(&postReleasePR, "pr", 0, "Pull request number")
	_ = postReleaseCmd.MarkFlagRequired("pr")
	rootCmd.AddCommand(postReleaseCmd)
}
