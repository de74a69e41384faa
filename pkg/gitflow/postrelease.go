package gitflow

import (
	"context"
	"fmt"

	"github.com/holon-run/gitflow/pkg/log"
	"github.com/holon-run/gitflow/pkg/notify"
)

// PullRequestEvent is the triggering pull request as reported by the CI
// event payload. Only the number is trusted; the rest is re-fetched.
type PullRequestEvent struct {
	Number int
	Merged bool
}

// ExecuteOnRelease handles a closed pull request. When it is a merged
// release or hotfix candidate it creates the release on the production
// branch, merges back into the development branch, and notifies chat.
//
// A merge-back failure after the release exists returns the Result along
// with a *MergeBackError. Notification failures are logged only.
func (w *Workflow) ExecuteOnRelease(ctx context.Context, event PullRequestEvent) (*Result, error) {
	s := w.settings

	if s.DryRun {
		log.Info("post-release: dry run, exiting")
		return NoneResult(), nil
	}
	if !event.Merged {
		log.Info("post-release: pull request is not merged, exiting")
		return NoneResult(), nil
	}
	if event.Number <= 0 {
		return nil, &ConfigurationError{Key: "pull_request.number", Reason: "pull request number is not defined in the event payload"}
	}

	pr, err := w.host.GetPullRequest(ctx, event.Number)
	if err != nil {
		return nil, hostErr(fmt.Sprintf("get pull request #%d", event.Number), err)
	}

	kind := Classify(pr, true, s)
	if kind == CandidateNone {
		log.Info("post-release: not a release candidate, exiting", "pull_number", pr.Number, "head", pr.HeadRef, "base", pr.BaseRef)
		return NoneResult(), nil
	}

	version := MergedVersion(kind, pr, s, w.now())
	log.Info("post-release: generating release", "type", kind, "version", version)

	body := pr.Body
	if body == "" {
		label := "Release"
		if kind == CandidateHotfix {
			label = "Hotfix release"
		}
		body = fmt.Sprintf("%s %s", label, version)
	}

	release, err := w.host.CreateRelease(ctx, NewRelease{
		TagName:         version,
		TargetCommitish: s.MainBranch,
		Name:            version,
		Body:            body,
	})
	if err != nil {
		return nil, hostErr("create release", err)
	}

	result := &Result{
		Type:       kind,
		Version:    version,
		ReleaseURL: release.HTMLURL,
	}

	source := pr.HeadRef
	if s.MergeBackFromMain {
		source = s.MainBranch
	}
	log.Info("post-release: executing merge-back", "source", source, "target", s.DevelopBranch)
	outcome, err := MergeBack(ctx, w.host, source, s.DevelopBranch)
	if err != nil {
		// The release stands; report the partial failure distinctly.
		return result, &MergeBackError{Source: source, Target: s.DevelopBranch, ReleaseURL: release.HTMLURL, Err: err}
	}
	result.MergeBack = outcome.Kind
	result.MergeBackPullNumber = outcome.PullNumber

	if err := w.notify(ctx, kind, release); err != nil {
		log.Warn("post-release: notification failed", "error", err)
	}

	log.Info("post-release: success", "release", release.Name, "url", release.HTMLURL)
	return result, nil
}

// notify announces rel when a chat destination is configured. The
// returned error is a *NotificationError and never fatal.
func (w *Workflow) notify(ctx context.Context, kind Candidate, rel *Release) error {
	if w.settings.Slack == "" {
		return nil
	}
	n, err := w.newNotifier(w.settings.Slack)
	if err != nil {
		return &NotificationError{Err: err}
	}
	name := rel.Name
	if name == "" {
		name = rel.TagName
	}
	err = n.Notify(ctx, notify.Release{
		Repository: w.settings.Repository(),
		Name:       name,
		TagName:    rel.TagName,
		URL:        rel.HTMLURL,
		Body:       rel.Body,
		Kind:       string(kind),
	})
	if err != nil {
		return &NotificationError{Err: err}
	}
	return nil
}
