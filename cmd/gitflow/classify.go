package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/gitflow"
	"github.com/spf13/cobra"
)

var (
	classifyPR            int
	classifyRequireMerged bool
)

// classification is the JSON printed by the classify command.
type classification struct {
	PullNumber int               `json:"pull_number"`
	Head       string            `json:"head"`
	Base       string            `json:"base"`
	Merged     bool              `json:"merged"`
	Type       gitflow.Candidate `json:"type"`
	Version    string            `json:"version,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Show how a pull request would be treated, without changing anything",
	Long: `Fetch a pull request and print its release candidate classification and,
for candidates, the version its release would be tagged with.

Examples:
  gitflow classify --repository acme/widgets --pr 42
  gitflow classify --repository acme/widgets --pr 42 --require-merged`,
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

		pr, err := host.GetPullRequest(cmd.Context(), classifyPR)
		if err != nil {
			return fmt.Errorf("failed to fetch pull request #%d: %w", classifyPR, err)
		}

		c := classification{
			PullNumber: pr.Number,
			Head:       pr.HeadRef,
			Base:       pr.BaseRef,
			Merged:     pr.Merged,
			Type:       gitflow.Classify(pr, classifyRequireMerged, s),
		}
		if c.Type != gitflow.CandidateNone {
			c.Version = gitflow.MergedVersion(c.Type, pr, s, time.Now())
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	},
}

func init() {
	classifyCmd.Flags().IntVar(&classifyPR, "pr", 0, "Pull request number")
	classifyCmd.Flags().BoolVar(&classifyRequireMerged, "require-merged", false, "Treat unmerged pull requests as not a candidate")
	_ = classifyCmd.MarkFlagRequired("pr")
	rootCmd.AddCommand(classifyCmd)
}
