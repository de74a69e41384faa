package gitflow

import (
	"context"
	"fmt"

	"github.com/holon-run/gitflow/pkg/log"
)

// CreateReleasePR cuts a release branch from the development branch and
// opens a pull request into the production branch. With hotfix set, the
// branch is cut from the production branch and no pull request is opened.
//
// In dry-run mode only read calls are made; intended mutations are logged.
// A host failure aborts the run without cleanup.
func (w *Workflow) CreateReleasePR(ctx context.Context, hotfix bool) (*Result, error) {
	s := w.settings

	kind := CandidateRelease
	baseBranch := s.DevelopBranch
	prefix := s.ReleaseBranchPrefix
	if hotfix {
		kind = CandidateHotfix
		baseBranch = s.MainBranch
		prefix = s.HotfixBranchPrefix
	}

	sha, err := w.host.BranchSHA(ctx, baseBranch)
	if err != nil {
		return nil, hostErr(fmt.Sprintf("get branch %s", baseBranch), err)
	}
	log.Info("create_release: resolved base branch", "branch", baseBranch, "sha", sha)

	var latestTag string
	latest, err := w.host.LatestRelease(ctx)
	if err != nil {
		return nil, hostErr("get latest release", err)
	}
	if latest != nil {
		latestTag = latest.TagName
	}

	version, err := ResolveVersion(s, latestTag, sha)
	if err != nil {
		return nil, err
	}
	releaseBranch := prefix + version
	log.Info("create_release: resolved version", "version", version, "latest_release", latestTag, "branch", releaseBranch)

	notes, err := w.host.GenerateReleaseNotes(ctx, ReleaseNotesRequest{
		TagName:         version,
		TargetCommitish: baseBranch,
		PreviousTagName: latestTag,
	})
	if err != nil {
		return nil, hostErr("generate release notes", err)
	}
	body := ReleasePRBody(notes.Body, s.ReleaseSummary)

	result := &Result{
		Type:                 kind,
		Version:              version,
		ReleaseBranch:        releaseBranch,
		PullNumbersInRelease: JoinPullNumbers(PullNumbers(notes.Body)),
		LatestReleaseTagName: latestTag,
	}

	if s.DryRun {
		log.Info("create_release: dry run, no changes made",
			"would_create_branch", releaseBranch,
			"from_sha", sha,
			"open_pull_request", !hotfix,
			"body", body,
		)
		return result, nil
	}

	log.Info("create_release: creating branch", "branch", releaseBranch)
	if err := w.host.CreateBranch(ctx, releaseBranch, sha); err != nil {
		return nil, hostErr(fmt.Sprintf("create branch %s", releaseBranch), err)
	}

	if hotfix {
		log.Info("create_release: hotfix branch created; push the fix and open a pull request manually",
			"branch", releaseBranch, "base", s.MainBranch)
		return result, nil
	}

	title := notes.Name
	if title == "" {
		title = version
	}
	pr, err := w.host.CreatePullRequest(ctx, NewPullRequest{
		Title:               fmt.Sprintf("%s %s", kind.Title(), title),
		Head:                releaseBranch,
		Base:                s.MainBranch,
		Body:                body,
		MaintainerCanModify: false,
	})
	if err != nil {
		return nil, hostErr("create pull request", err)
	}
	result.PullNumber = pr.Number

	if err := w.host.AddLabels(ctx, pr.Number, ReleaseLabel); err != nil {
		return nil, hostErr("add labels", err)
	}
	if err := w.host.CreateComment(ctx, pr.Number, ExplainComment(s, releaseBranch, version)); err != nil {
		return nil, hostErr("create comment", err)
	}

	log.Info("create_release: pull request created", "pull_number", pr.Number, "url", pr.HTMLURL)
	return result, nil
}
