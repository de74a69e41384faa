package gitflow

import (
	"strings"

	"github.com/holon-run/gitflow/pkg/config"
)

// Candidate classifies a pull request for the release workflow.
type Candidate string

const (
	CandidateNone    Candidate = "none"
	CandidateRelease Candidate = "release"
	CandidateHotfix  Candidate = "hotfix"
)

// Classify reports whether pr is a release or hotfix candidate. The first
// matching rule wins:
//
//  1. requireMerged and not merged: none
//  2. head has the release prefix and base is the production branch: release
//  3. head has the hotfix prefix and base is the production branch: hotfix
//  4. otherwise: none
func Classify(pr *PullRequest, requireMerged bool, s config.Settings) Candidate {
	if pr == nil {
		return CandidateNone
	}
	if requireMerged && !pr.Merged {
		return CandidateNone
	}
	if pr.BaseRef != s.MainBranch {
		return CandidateNone
	}
	switch {
	case strings.HasPrefix(pr.HeadRef, s.ReleaseBranchPrefix):
		return CandidateRelease
	case strings.HasPrefix(pr.HeadRef, s.HotfixBranchPrefix):
		return CandidateHotfix
	}
	return CandidateNone
}

// Title is the human label used in PR titles and default release bodies.
func (c Candidate) Title() string {
	if c == CandidateHotfix {
		return "Hotfix"
	}
	return "Release"
}
