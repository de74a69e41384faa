package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitflow",
	Short: "gitflow automates release and hotfix branches, release pull requests and tagged releases.",
	Long: `gitflow automates a gitflow release process on GitHub.

On manual dispatch it cuts a release branch from the development branch and
opens a pull request into the production branch, or cuts a hotfix branch when
dispatched from the production branch. When a release or hotfix pull request
is merged it publishes a release, merges the production branch back into the
development branch and notifies chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	registerSettingsFlags(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = log.Sync()
	if err != nil {
		actions.New().Error("%s", err.Error())
		os.Exit(1)
	}
}
