package deps

import (
	"strconv"
	"strings"
)

// IsUpgrade reports whether candidate should replace current.
//
// Both versions are split on "." and compared segment by segment over the
// shorter length. Segments that both parse as integers compare numerically;
// otherwise they compare lexically as strings. The first differing segment
// decides. When the common prefix is equal, candidate wins unless current has
// strictly more segments, so "1.2" upgrades to "1.2.0" but not the reverse.
//
// Segments are parsed as 32-bit integers; anything else, including values
// that overflow, falls back to string order. Malformed input never fails.
func IsUpgrade(current, candidate string) bool {
	cur := strings.Split(current, ".")
	cand := strings.Split(candidate, ".")

	for i := range min(len(cur), len(cand)) {
		if c := compareSegment(cur[i], cand[i]); c != 0 {
			return c < 0
		}
	}

	return len(cur) <= len(cand)
}

// CompareVersions orders a and b consistently with [IsUpgrade]: it returns
// -1 when b would upgrade a, +1 when a would upgrade b, and 0 when the two
// have identical segments.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	for i := range min(len(as), len(bs)) {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func compareSegment(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 32)
	nb, errB := strconv.ParseInt(b, 10, 32)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return 0
}
