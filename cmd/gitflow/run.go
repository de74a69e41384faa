package main

import (
	"context"
	"fmt"
	"io"

	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/config"
	"github.com/holon-run/gitflow/pkg/gitflow"
	"github.com/holon-run/gitflow/pkg/log"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Route the current GitHub Actions event to the matching release path",
	Long: `Inspect the triggering GitHub Actions event and run the matching path.

  workflow_dispatch on the production branch   cut a hotfix branch
  workflow_dispatch on any other branch        cut a release branch and open a release pull request
  pull_request closed                          publish the release of a merged release or hotfix pull request

Any other event is a no-op. Step outputs are written to $GITHUB_OUTPUT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := actions.New()
		s, err := loadSettings(cmd, rt)
		if err != nil {
			return err
		}
		return dispatch(cmd.Context(), rt, s, cmd.OutOrStdout())
	},
}

func dispatch(ctx context.Context, rt *actions.Runtime, s config.Settings, out io.Writer) error {
	trigger, err := rt.Detect(s.MainBranch)
	if err != nil {
		return err
	}
	log.Info("dispatch: detected trigger", "event", trigger.EventName, "ref", trigger.Ref, "kind", trigger.Kind)

	if trigger.Kind == actions.TriggerUnmatched {
		log.Info("dispatch: event does not match a release path, nothing to do", "event", trigger.EventName)
		return nil
	}

	host, err := newHost(ctx, s)
	if err != nil {
		return err
	}
	wf := gitflow.New(s, host)

	var result *gitflow.Result
	switch trigger.Kind {
	case actions.TriggerDispatch:
		result, err = wf.CreateReleasePR(ctx, trigger.Hotfix)
		if err == nil && trigger.Hotfix && !s.DryRun {
			hotfixNotice(rt, result, s.MainBranch)
		}
	case actions.TriggerPullRequestClosed:
		result, err = wf.ExecuteOnRelease(ctx, trigger.PullRequest)
	default:
		return fmt.Errorf("unsupported trigger %q", trigger.Kind)
	}

	// A merge-back failure still carries the created release.
	if werr := writeResult(out, rt, result); werr != nil && err == nil {
		err = werr
	}
	return err
}

func init() {
	rootCmd.AddCommand(runCmd)
}
