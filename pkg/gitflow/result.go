package gitflow

import "strconv"

// Result is the structured output of a workflow run.
type Result struct {
	Type          Candidate `json:"type"`
	Version       string    `json:"version,omitempty"`
	ReleaseBranch string    `json:"release_branch,omitempty"`

	// Release-PR path.
	PullNumber           int    `json:"pull_number,omitempty"`
	PullNumbersInRelease string `json:"pull_numbers_in_release,omitempty"`
	LatestReleaseTagName string `json:"latest_release_tag_name,omitempty"`

	// Post-merge path.
	ReleaseURL          string           `json:"release_url,omitempty"`
	MergeBack           MergeOutcomeKind `json:"merge_back,omitempty"`
	MergeBackPullNumber int              `json:"merge_back_pull_number,omitempty"`
}

// NoneResult is returned when no release path applies.
func NoneResult() *Result {
	return &Result{Type: CandidateNone}
}

// Outputs flattens r into CI output keys. Absent optional fields produce
// no key.
func (r *Result) Outputs() map[string]string {
	if r == nil {
		return nil
	}
	out := map[string]string{"type": string(r.Type)}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	setInt := func(k string, v int) {
		if v > 0 {
			out[k] = strconv.Itoa(v)
		}
	}

	set("version", r.Version)
	set("release_branch", r.ReleaseBranch)
	if r.ReleaseBranch != "" {
		// Always present on the release-PR path, even when empty.
		out["pull_numbers_in_release"] = r.PullNumbersInRelease
	}
	setInt("pull_number", r.PullNumber)
	set("latest_release_tag_name", r.LatestReleaseTagName)
	set("release_url", r.ReleaseURL)
	set("merge_back", string(r.MergeBack))
	setInt("merge_back_pull_number", r.MergeBackPullNumber)
	return out
}
