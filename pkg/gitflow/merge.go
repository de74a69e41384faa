package gitflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/holon-run/gitflow/pkg/log"
)

// MergeOutcomeKind tags how a merge-back completed.
type MergeOutcomeKind string

const (
	// MergeMerged means source was merged into target directly.
	MergeMerged MergeOutcomeKind = "merged"
	// MergeUpToDate means target already contained source.
	MergeUpToDate MergeOutcomeKind = "up_to_date"
	// MergeOpenedPullRequest means the merge conflicted and a pull request
	// was opened for a human to resolve it.
	MergeOpenedPullRequest MergeOutcomeKind = "pull_request"
)

// MergeOutcome is the successful result of MergeBack.
type MergeOutcome struct {
	Kind   MergeOutcomeKind
	Source string
	Target string
	// PullNumber and PullURL are set for MergeOpenedPullRequest.
	PullNumber int
	PullURL    string
}

// MergeBack merges source into target. A conflict is not an error: a pull
// request from source to target is opened instead. Any other failure is
// returned.
func MergeBack(ctx context.Context, host Host, source, target string) (MergeOutcome, error) {
	outcome := MergeOutcome{Source: source, Target: target}

	status, err := host.Merge(ctx, target, source, fmt.Sprintf("Merge %s into %s", source, target))
	if err == nil {
		if status == MergeStatusUpToDate {
			outcome.Kind = MergeUpToDate
			log.Info("merge-back: already up to date", "source", source, "target", target)
		} else {
			outcome.Kind = MergeMerged
			log.Info("merge-back: merged", "source", source, "target", target)
		}
		return outcome, nil
	}
	if !errors.Is(err, ErrMergeConflict) {
		return outcome, hostErr(fmt.Sprintf("merge %s into %s", source, target), err)
	}

	log.Warn("merge-back: conflict, opening pull request", "source", source, "target", target)
	pr, err := host.CreatePullRequest(ctx, NewPullRequest{
		Title: fmt.Sprintf("Merge %s into %s", source, target),
		Head:  source,
		Base:  target,
		Body:  ConflictExplanation(source, target),
	})
	if err != nil {
		return outcome, hostErr("create merge-back pull request", err)
	}

	outcome.Kind = MergeOpenedPullRequest
	outcome.PullNumber = pr.Number
	outcome.PullURL = pr.HTMLURL
	log.Info("merge-back: pull request opened", "pull_number", pr.Number, "url", pr.HTMLURL)
	return outcome, nil
}
