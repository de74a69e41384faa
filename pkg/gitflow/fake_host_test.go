package gitflow

import (
	"context"
	"fmt"
	"sync"
)

// fakeHost is an in-memory Host that records every call.
type fakeHost struct {
	mu sync.Mutex

	branches map[string]string
	latest   *Release
	notes    ReleaseNotes
	pulls    map[int]*PullRequest

	// mergeErr, when set, is returned by Merge.
	mergeErr    error
	mergeStatus MergeStatus
	// failOp makes the named operation fail.
	failOp string

	nextNumber int
	calls      []string

	createdBranches map[string]string
	createdPulls    []NewPullRequest
	labels          map[int][]string
	comments        map[int][]string
	releases        []NewRelease
	notesRequests   []ReleaseNotesRequest
	merges          [][2]string
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		branches:        map[string]string{"main": "sha-main", "develop": "sha-develop"},
		pulls:           map[int]*PullRequest{},
		nextNumber:      100,
		createdBranches: map[string]string{},
		labels:          map[int][]string{},
		comments:        map[int][]string{},
	}
}

var mutatingOps = map[string]bool{
	"CreateBranch":      true,
	"CreatePullRequest": true,
	"AddLabels":         true,
	"CreateComment":     true,
	"CreateRelease":     true,
	"Merge":             true,
}

func (f *fakeHost) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	if f.failOp == op {
		return fmt.Errorf("%s: simulated failure", op)
	}
	return nil
}

func (f *fakeHost) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if mutatingOps[c] {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeHost) BranchSHA(ctx context.Context, branch string) (string, error) {
	if err := f.record("BranchSHA"); err != nil {
		return "", err
	}
	sha, ok := f.branches[branch]
	if !ok {
		return "", fmt.Errorf("branch %s not found", branch)
	}
	return sha, nil
}

func (f *fakeHost) LatestRelease(ctx context.Context) (*Release, error) {
	if err := f.record("LatestRelease"); err != nil {
		return nil, err
	}
	return f.latest, nil
}

func (f *fakeHost) GenerateReleaseNotes(ctx context.Context, req ReleaseNotesRequest) (*ReleaseNotes, error) {
	if err := f.record("GenerateReleaseNotes"); err != nil {
		return nil, err
	}
	f.notesRequests = append(f.notesRequests, req)
	notes := f.notes
	return &notes, nil
}

func (f *fakeHost) CreateBranch(ctx context.Context, branch, sha string) error {
	if err := f.record("CreateBranch"); err != nil {
		return err
	}
	f.createdBranches[branch] = sha
	return nil
}

func (f *fakeHost) CreatePullRequest(ctx context.Context, pr NewPullRequest) (*PullRequest, error) {
	if err := f.record("CreatePullRequest"); err != nil {
		return nil, err
	}
	f.createdPulls = append(f.createdPulls, pr)
	f.nextNumber++
	created := &PullRequest{
		Number:  f.nextNumber,
		Title:   pr.Title,
		Body:    pr.Body,
		BaseRef: pr.Base,
		HeadRef: pr.Head,
		HTMLURL: fmt.Sprintf("https://github.com/acme/widgets/pull/%d", f.nextNumber),
	}
	f.pulls[created.Number] = created
	return created, nil
}

func (f *fakeHost) AddLabels(ctx context.Context, number int, labels ...string) error {
	if err := f.record("AddLabels"); err != nil {
		return err
	}
	f.labels[number] = append(f.labels[number], labels...)
	return nil
}

func (f *fakeHost) CreateComment(ctx context.Context, number int, body string) error {
	if err := f.record("CreateComment"); err != nil {
		return err
	}
	f.comments[number] = append(f.comments[number], body)
	return nil
}

func (f *fakeHost) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	if err := f.record("GetPullRequest"); err != nil {
		return nil, err
	}
	pr, ok := f.pulls[number]
	if !ok {
		return nil, fmt.Errorf("pull request #%d not found", number)
	}
	return pr, nil
}

func (f *fakeHost) CreateRelease(ctx context.Context, rel NewRelease) (*Release, error) {
	if err := f.record("CreateRelease"); err != nil {
		return nil, err
	}
	f.releases = append(f.releases, rel)
	return &Release{
		ID:      int64(len(f.releases)),
		TagName: rel.TagName,
		Name:    rel.Name,
		Body:    rel.Body,
		HTMLURL: "https://github.com/acme/widgets/releases/tag/" + rel.TagName,
	}, nil
}

func (f *fakeHost) Merge(ctx context.Context, base, head, commitMessage string) (MergeStatus, error) {
	if err := f.record("Merge"); err != nil {
		return 0, err
	}
	f.merges = append(f.merges, [2]string{head, base})
	if f.mergeErr != nil {
		return 0, f.mergeErr
	}
	return f.mergeStatus, nil
}
