package gitflow

import (
	"fmt"
	"strings"

	"github.com/holon-run/gitflow/pkg/config"
)

// ExplainComment is posted on every automatically opened release pull request.
func ExplainComment(s config.Settings, releaseBranch, version string) string {
	mergeSource := releaseBranch
	if s.MergeBackFromMain {
		mergeSource = s.MainBranch
	}

	var b strings.Builder
	b.WriteString("### About this pull request\n\n")
	fmt.Fprintf(&b, "This pull request was opened automatically to release `%s` from `%s` into `%s`.\n\n",
		version, releaseBranch, s.MainBranch)
	b.WriteString("- Push any release fixes to this branch; they become part of the release.\n")
	fmt.Fprintf(&b, "- Merging this pull request creates the release `%s` on `%s`.\n", version, s.MainBranch)
	fmt.Fprintf(&b, "- After the release, `%s` is merged back into `%s`. If that merge conflicts, a separate pull request is opened to resolve it.\n",
		mergeSource, s.DevelopBranch)
	b.WriteString("- The pull request description becomes the release notes, so edit it before merging if needed.\n")
	return b.String()
}

// ConflictExplanation is the body of a merge-back fallback pull request.
func ConflictExplanation(source, target string) string {
	return fmt.Sprintf("Automatic merge of `%s` into `%s` failed because of conflicts.\n\n"+
		"Resolve the conflicts on this pull request and merge it to bring `%s` up to date.\n",
		source, target, target)
}
