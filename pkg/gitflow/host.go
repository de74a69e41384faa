package gitflow

import (
	"context"
	"time"
)

// PullRequest is the read-only view of a pull request consumed by the workflow.
type PullRequest struct {
	Number   int
	Title    string
	Body     string
	HTMLURL  string
	BaseRef  string
	HeadRef  string
	Labels   []string
	Merged   bool
	MergedAt time.Time
}

// Release is a published release on the repository host.
type Release struct {
	ID      int64
	TagName string
	Name    string
	Body    string
	HTMLURL string
}

// ReleaseNotes is the host-generated changelog for a range of commits.
type ReleaseNotes struct {
	Name string
	Body string
}

// ReleaseNotesRequest scopes release-note generation.
type ReleaseNotesRequest struct {
	TagName         string
	TargetCommitish string
	// PreviousTagName is omitted from the request when empty.
	PreviousTagName string
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Title               string
	Head                string
	Base                string
	Body                string
	MaintainerCanModify bool
}

// NewRelease describes a release to create.
type NewRelease struct {
	TagName         string
	TargetCommitish string
	Name            string
	Body            string
}

// MergeStatus is the outcome of a direct branch merge.
type MergeStatus int

const (
	// MergeStatusMerged means a merge commit was created.
	MergeStatusMerged MergeStatus = iota
	// MergeStatusUpToDate means head was already contained in base.
	MergeStatusUpToDate
)

// Host is the repository host API capability. Implementations perform one
// remote round trip per call and never retry.
//
// Merge returns an error wrapping ErrMergeConflict when the branches
// cannot be merged without conflict resolution. LatestRelease returns
// (nil, nil) when the repository has no releases yet.
type Host interface {
	BranchSHA(ctx context.Context, branch string) (string, error)
	LatestRelease(ctx context.Context) (*Release, error)
	GenerateReleaseNotes(ctx context.Context, req ReleaseNotesRequest) (*ReleaseNotes, error)
	CreateBranch(ctx context.Context, branch, sha string) error
	CreatePullRequest(ctx context.Context, pr NewPullRequest) (*PullRequest, error)
	AddLabels(ctx context.Context, number int, labels ...string) error
	CreateComment(ctx context.Context, number int, body string) error
	GetPullRequest(ctx context.Context, number int) (*PullRequest, error)
	CreateRelease(ctx context.Context, rel NewRelease) (*Release, error)
	Merge(ctx context.Context, base, head, commitMessage string) (MergeStatus, error)
}
