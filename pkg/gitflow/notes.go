package gitflow

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pullRefPattern matches pull request links in generated release notes,
// e.g. "https://github.com/o/r/pull/42". Numbers appear more than once when
// a contributor is also listed under "New Contributors".
var pullRefPattern = regexp.MustCompile(`pull/(\d+)`)

// PullNumbers returns the distinct pull request numbers referenced in body,
// sorted ascending. This is a textual heuristic over the notes, not an
// authoritative list.
func PullNumbers(body string) []int {
	seen := make(map[int]struct{})
	var nums []int
	for _, m := range pullRefPattern.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// JoinPullNumbers renders nums as "7,12".
func JoinPullNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ReleasePRBody appends the release summary section to generated notes.
func ReleasePRBody(notesBody, summary string) string {
	return notesBody + "\n\n## Release summary\n\n" + summary + "\n"
}
