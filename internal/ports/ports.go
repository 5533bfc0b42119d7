// Package ports parses port specifications like "80", "22,80,443", or
// "1-1024" into sorted, deduplicated port sets. Unparseable tokens are
// skipped rather than failing the whole spec; an empty result is the
// caller's condition to handle.
package ports

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// MinPort and MaxPort bound valid TCP port numbers.
	MinPort = 1
	MaxPort = 65535
)

// Parse turns a comma-separated port specification into a sorted,
// deduplicated set. Range tokens ("a-b") are inclusive, swapped when
// inverted, and clamped to [MinPort, MaxPort]. Tokens that fail to parse
// are dropped.
func Parse(spec string) []int {
	set := make(map[int]struct{})

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if strings.Contains(token, "-") {
			lo, hi, ok := parseRange(token)
			if !ok {
				continue
			}
			for p := lo; p <= hi; p++ {
				set[p] = struct{}{}
			}
			continue
		}

		p, err := strconv.Atoi(token)
		if err != nil || p < MinPort || p > MaxPort {
			continue
		}
		set[p] = struct{}{}
	}

	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// parseRange parses an inclusive "a-b" token, swapping inverted bounds and
// clamping into the valid port range.
func parseRange(token string) (lo, hi int, ok bool) {
	bounds := strings.SplitN(token, "-", 2)
	a, errA := strconv.Atoi(strings.TrimSpace(bounds[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	if a > b {
		a, b = b, a
	}
	if a < MinPort {
		a = MinPort
	}
	if b > MaxPort {
		b = MaxPort
	}
	if a > b {
		return 0, 0, false
	}
	return a, b, true
}

// Render formats a sorted port set as comma-separated values. Parsing the
// rendered output yields the same set.
func Render(ports []int) string {
	if len(ports) == 0 {
		return ""
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
