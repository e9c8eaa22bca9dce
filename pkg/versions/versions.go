// Package versions orders free-form version strings.
//
// A version string is split into components on dots; a version is comparable
// only when every component is a plain number. Pre-release tags, local
// identifiers and garbage strings make a version non-comparable, and
// non-comparable versions are excluded from ordering rather than ranked.
package versions

import (
	"sort"
	"strconv"

	"github.com/pkgscout/pkgscout/pkg/store"
)

// Parsed is a version string parsed into its numeric component sequence.
type Parsed struct {
	raw  string
	nums []int
}

// Parse splits s into components and reports whether the version is
// comparable. Components are runs of digits separated by dots; any run of
// non-digit characters (letters, hyphens, plus signs) makes the version
// non-comparable and ok is false.
func Parse(s string) (Parsed, bool) {
	p := Parsed{raw: s}
	if s == "" {
		return p, false
	}

	i := 0
	for i < len(s) {
		switch {
		case s[i] == '.':
			i++
		case s[i] >= '0' && s[i] <= '9':
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(s[i:j])
			if err != nil {
				return p, false
			}
			p.nums = append(p.nums, n)
			i = j
		default:
			// Non-numeric component: pre-release tag, local identifier, junk.
			return p, false
		}
	}
	return p, len(p.nums) > 0
}

// String returns the original version string.
func (p Parsed) String() string { return p.raw }

// Compare orders two comparable versions. Component sequences are compared
// elementwise; a shorter sequence that is a prefix of a longer one sorts
// first ("2.0" before "2.0.0").
func Compare(a, b Parsed) int {
	for i := 0; i < len(a.nums) && i < len(b.nums); i++ {
		if a.nums[i] != b.nums[i] {
			if a.nums[i] < b.nums[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a.nums) < len(b.nums):
		return -1
	case len(a.nums) > len(b.nums):
		return 1
	default:
		return 0
	}
}

// ByVersion filters vs down to versions with comparable numbers and returns
// them in ascending version order. The ascending order is the normalizer's
// default iteration order; its last element is the highest comparable
// version, which is not necessarily the most recently released one.
func ByVersion(vs []store.Version) []store.Version {
	return byVersion(vs, false)
}

// ByVersionVisible is ByVersion restricted to non-hidden versions.
func ByVersionVisible(vs []store.Version) []store.Version {
	return byVersion(vs, true)
}

// ByVersionNotHidden returns the exact reverse of the ascending visible
// ordering: highest comparable version first, hidden and non-comparable
// versions excluded.
func ByVersionNotHidden(vs []store.Version) []store.Version {
	asc := byVersion(vs, true)
	out := make([]store.Version, len(asc))
	for i, v := range asc {
		out[len(asc)-1-i] = v
	}
	return out
}

func byVersion(vs []store.Version, visibleOnly bool) []store.Version {
	type entry struct {
		v store.Version
		p Parsed
	}
	var entries []entry
	for _, v := range vs {
		if visibleOnly && v.Hidden {
			continue
		}
		if p, ok := Parse(v.Number); ok {
			entries = append(entries, entry{v, p})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return Compare(entries[i].p, entries[j].p) < 0
	})
	out := make([]store.Version, len(entries))
	for i, e := range entries {
		out[i] = e.v
	}
	return out
}

// PyPIVersion returns the string form of the maximum comparable version
// among numbers, or "" when none are comparable.
func PyPIVersion(numbers []string) string {
	var best Parsed
	found := false
	for _, s := range numbers {
		p, ok := Parse(s)
		if !ok {
			continue
		}
		if !found || Compare(p, best) > 0 {
			best = p
			found = true
		}
	}
	if !found {
		return ""
	}
	return best.String()
}

// LatestReleased returns the version with the greatest non-nil upload time,
// ignoring comparability entirely, or nil when no version has an upload
// time. Timestamp-based latest and version-number-based highest are distinct
// answers and can disagree.
func LatestReleased(vs []store.Version) *store.Version {
	var latest *store.Version
	for i := range vs {
		v := &vs[i]
		if v.UploadTime == nil {
			continue
		}
		if latest == nil || v.UploadTime.After(*latest.UploadTime) {
			latest = v
		}
	}
	return latest
}
