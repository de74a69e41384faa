package gitflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/holon-run/gitflow/pkg/config"
)

// DefaultBaseVersion is incremented when the repository has no releases.
const DefaultBaseVersion = "0.0.0"

// Increment strategies accepted by NextVersion.
const (
	IncrementMajor      = "major"
	IncrementMinor      = "minor"
	IncrementPatch      = "patch"
	IncrementPremajor   = "premajor"
	IncrementPreminor   = "preminor"
	IncrementPrepatch   = "prepatch"
	IncrementPrerelease = "prerelease"
)

var semverPrefixPattern = regexp.MustCompile(`^\d+\.\d+\.\d+`)

// ResolveVersion picks the version for a new release or hotfix branch: the
// explicit version if set, else the increment of latestTag (or
// DefaultBaseVersion), else the base branch tip SHA.
func ResolveVersion(s config.Settings, latestTag, sha string) (string, error) {
	if s.Version != "" {
		return s.Version, nil
	}
	if s.VersionIncrement != "" {
		base := latestTag
		if base == "" {
			base = DefaultBaseVersion
		}
		return NextVersion(base, s.VersionIncrement)
	}
	return sha, nil
}

// NextVersion applies increment to base. Parsing is loose: a leading "v" or
// "=" and missing minor/patch components are accepted.
func NextVersion(base, increment string) (string, error) {
	v, err := parseLoose(base)
	if err != nil {
		return "", &VersionResolutionError{Base: base, Increment: increment, Err: err}
	}

	major, minor, patch := v.Major(), v.Minor(), v.Patch()
	pre := v.Prerelease()

	var next *semver.Version
	switch strings.ToLower(strings.TrimSpace(increment)) {
	case IncrementMajor:
		if pre != "" && minor == 0 && patch == 0 {
			next = semver.New(major, 0, 0, "", "")
		} else {
			next = semver.New(major+1, 0, 0, "", "")
		}
	case IncrementMinor:
		if pre != "" && patch == 0 {
			next = semver.New(major, minor, 0, "", "")
		} else {
			next = semver.New(major, minor+1, 0, "", "")
		}
	case IncrementPatch:
		if pre != "" {
			next = semver.New(major, minor, patch, "", "")
		} else {
			next = semver.New(major, minor, patch+1, "", "")
		}
	case IncrementPremajor:
		next = semver.New(major+1, 0, 0, "0", "")
	case IncrementPreminor:
		next = semver.New(major, minor+1, 0, "0", "")
	case IncrementPrepatch:
		next = semver.New(major, minor, patch+1, "0", "")
	case IncrementPrerelease:
		if pre == "" {
			next = semver.New(major, minor, patch+1, "0", "")
		} else {
			next = semver.New(major, minor, patch, bumpPrerelease(pre), "")
		}
	default:
		return "", &VersionResolutionError{
			Base:      base,
			Increment: increment,
			Err:       fmt.Errorf("unknown increment strategy %q", increment),
		}
	}
	return next.String(), nil
}

func parseLoose(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "=")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty version")
	}
	return semver.NewVersion(s)
}

// bumpPrerelease increments the last numeric identifier of pre, or
// appends ".0" when there is none.
func bumpPrerelease(pre string) string {
	parts := strings.Split(pre, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if n, err := strconv.ParseUint(parts[i], 10, 64); err == nil {
			parts[i] = strconv.FormatUint(n+1, 10)
			return strings.Join(parts, ".")
		}
	}
	return pre + ".0"
}

// BranchVersion strips prefix from a release or hotfix branch name.
func BranchVersion(branch, prefix string) string {
	return strings.TrimPrefix(branch, prefix)
}

// HotfixVersion derives the tag for a merged hotfix branch. A semantic
// version suffix is kept as-is; anything else becomes
// hotfix-YYYYMMDDHHmm from mergedAt (or now when mergedAt is zero), in UTC.
func HotfixVersion(branch, prefix string, mergedAt, now time.Time) string {
	version := BranchVersion(branch, prefix)
	if semverPrefixPattern.MatchString(version) {
		return version
	}
	at := mergedAt
	if at.IsZero() {
		at = now
	}
	return DateVersion(at)
}

// DateVersion formats t as hotfix-YYYYMMDDHHmm in UTC.
func DateVersion(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("hotfix-%04d%02d%02d%02d%02d", t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

// MergedVersion computes the release tag for a merged candidate. The
// explicit version setting wins over the branch name.
func MergedVersion(c Candidate, pr *PullRequest, s config.Settings, now time.Time) string {
	if s.Version != "" {
		return s.Version
	}
	if c == CandidateHotfix {
		return HotfixVersion(pr.HeadRef, s.HotfixBranchPrefix, pr.MergedAt, now)
	}
	return BranchVersion(pr.HeadRef, s.ReleaseBranchPrefix)
}
