package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
	"github.com/holon-run/gitflow/pkg/gitflow"
)

// Repository implements gitflow.Host for a single repository. Each method
// is one API round trip with no retries.
type Repository struct {
	client *Client
	owner  string
	repo   string
}

var _ gitflow.Host = (*Repository)(nil)

// FullName returns "owner/repo".
func (r *Repository) FullName() string {
	return r.owner + "/" + r.repo
}

func (r *Repository) gh() *github.Client {
	return r.client.GitHubClient()
}

// BranchSHA returns the tip commit of branch.
func (r *Repository) BranchSHA(ctx context.Context, branch string) (string, error) {
	b, _, err := r.gh().Repositories.GetBranch(ctx, r.owner, r.repo, branch, 1)
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s: %w", branch, err)
	}
	sha := b.GetCommit().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("branch %s has no commit", branch)
	}
	return sha, nil
}

// LatestRelease returns the latest published release, or nil when the
// repository has none yet.
func (r *Repository) LatestRelease(ctx context.Context) (*gitflow.Release, error) {
	rel, _, err := r.gh().Repositories.GetLatestRelease(ctx, r.owner, r.repo)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}
	return convertFromGitHubRelease(rel), nil
}

// GenerateReleaseNotes asks GitHub to render notes for the given range.
func (r *Repository) GenerateReleaseNotes(ctx context.Context, req gitflow.ReleaseNotesRequest) (*gitflow.ReleaseNotes, error) {
	opts := &github.GenerateNotesOptions{
		TagName: req.TagName,
	}
	if req.TargetCommitish != "" {
		opts.TargetCommitish = github.Ptr(req.TargetCommitish)
	}
	if req.PreviousTagName != "" {
		opts.PreviousTagName = github.Ptr(req.PreviousTagName)
	}

	notes, _, err := r.gh().Repositories.GenerateReleaseNotes(ctx, r.owner, r.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate release notes: %w", err)
	}
	return &gitflow.ReleaseNotes{Name: notes.Name, Body: notes.Body}, nil
}

// CreateBranch creates refs/heads/<branch> at sha.
func (r *Repository) CreateBranch(ctx context.Context, branch, sha string) error {
	ref := &github.Reference{
		Ref:    github.Ptr("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.Ptr(sha)},
	}
	if _, _, err := r.gh().Git.CreateRef(ctx, r.owner, r.repo, ref); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return nil
}

// CreatePullRequest opens a pull request.
func (r *Repository) CreatePullRequest(ctx context.Context, pr gitflow.NewPullRequest) (*gitflow.PullRequest, error) {
	created, _, err := r.gh().PullRequests.Create(ctx, r.owner, r.repo, &github.NewPullRequest{
		Title:               github.Ptr(pr.Title),
		Head:                github.Ptr(pr.Head),
		Base:                github.Ptr(pr.Base),
		Body:                github.Ptr(pr.Body),
		MaintainerCanModify: github.Ptr(pr.MaintainerCanModify),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request %s -> %s: %w", pr.Head, pr.Base, err)
	}
	return convertFromGitHubPR(created), nil
}

// AddLabels adds labels to an issue or pull request.
func (r *Repository) AddLabels(ctx context.Context, number int, labels ...string) error {
	if _, _, err := r.gh().Issues.AddLabelsToIssue(ctx, r.owner, r.repo, number, labels); err != nil {
		return fmt.Errorf("failed to add labels to #%d: %w", number, err)
	}
	return nil
}

// CreateComment posts a comment on an issue or pull request.
func (r *Repository) CreateComment(ctx context.Context, number int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}
	if _, _, err := r.gh().Issues.CreateComment(ctx, r.owner, r.repo, number, comment); err != nil {
		return fmt.Errorf("failed to comment on #%d: %w", number, err)
	}
	return nil
}

// GetPullRequest fetches a pull request.
func (r *Repository) GetPullRequest(ctx context.Context, number int) (*gitflow.PullRequest, error) {
	pr, _, err := r.gh().PullRequests.Get(ctx, r.owner, r.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR: %w", err)
	}
	return convertFromGitHubPR(pr), nil
}

// CreateRelease publishes a release, creating the tag at TargetCommitish.
func (r *Repository) CreateRelease(ctx context.Context, rel gitflow.NewRelease) (*gitflow.Release, error) {
	created, _, err := r.gh().Repositories.CreateRelease(ctx, r.owner, r.repo, &github.RepositoryRelease{
		TagName:         github.Ptr(rel.TagName),
		TargetCommitish: github.Ptr(rel.TargetCommitish),
		Name:            github.Ptr(rel.Name),
		Body:            github.Ptr(rel.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s: %w", rel.TagName, err)
	}
	return convertFromGitHubRelease(created), nil
}

// Merge merges head into base with the merges API: 201 is a merge commit,
// 204 means nothing to merge and 409 is a conflict.
func (r *Repository) Merge(ctx context.Context, base, head, commitMessage string) (gitflow.MergeStatus, error) {
	req := &github.RepositoryMergeRequest{
		Base:          github.Ptr(base),
		Head:          github.Ptr(head),
		CommitMessage: github.Ptr(commitMessage),
	}
	_, resp, err := r.gh().Repositories.Merge(ctx, r.owner, r.repo, req)
	if err != nil {
		if IsMergeConflictError(err) {
			return gitflow.MergeStatusMerged, errors.Join(gitflow.ErrMergeConflict, err)
		}
		return gitflow.MergeStatusMerged, fmt.Errorf("failed to merge %s into %s: %w", head, base, err)
	}
	if resp != nil && resp.StatusCode == http.StatusNoContent {
		return gitflow.MergeStatusUpToDate, nil
	}
	return gitflow.MergeStatusMerged, nil
}

// convertFromGitHubPR converts a github.PullRequest to the workflow type
func convertFromGitHubPR(pr *github.PullRequest) *gitflow.PullRequest {
	var baseRef, headRef string
	if base := pr.GetBase(); base != nil {
		baseRef = base.GetRef()
	}
	if head := pr.GetHead(); head != nil {
		headRef = head.GetRef()
	}

	info := &gitflow.PullRequest{
		Number:   pr.GetNumber(),
		Title:    pr.GetTitle(),
		Body:     pr.GetBody(),
		HTMLURL:  pr.GetHTMLURL(),
		BaseRef:  baseRef,
		HeadRef:  headRef,
		Merged:   pr.GetMerged(),
		MergedAt: pr.GetMergedAt().Time,
	}
	for _, label := range pr.Labels {
		info.Labels = append(info.Labels, label.GetName())
	}
	return info
}

func convertFromGitHubRelease(rel *github.RepositoryRelease) *gitflow.Release {
	return &gitflow.Release{
		ID:      rel.GetID(),
		TagName: rel.GetTagName(),
		Name:    rel.GetName(),
		Body:    rel.GetBody(),
		HTMLURL: rel.GetHTMLURL(),
	}
}
