// Package testutil provides small comparison helpers shared by BlazeDB's
// end-to-end tests. Grouped-aggregation output has no specified row order,
// so e2e tests compare output as a multiset of trimmed lines rather than
// byte-for-byte.
package testutil

import (
	"bufio"
	"fmt"
	"sort"
	"strings"
)

// lineFrequencies builds a count of each trimmed, non-empty line in s.
func lineFrequencies(s string) map[string]int {
	freq := make(map[string]int)
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		freq[line]++
	}
	return freq
}

// EqualLineSets reports whether got and want contain the same trimmed lines
// with the same multiplicities, ignoring order. On mismatch it also returns
// a diagnostic message describing the difference.
func EqualLineSets(got, want string) (bool, string) {
	gotFreq := lineFrequencies(got)
	wantFreq := lineFrequencies(want)

	if equalFrequencyMaps(gotFreq, wantFreq) {
		return true, ""
	}
	return false, diffFrequencyMaps(gotFreq, wantFreq)
}

func equalFrequencyMaps(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for line, count := range a {
		if b[line] != count {
			return false
		}
	}
	return true
}

func diffFrequencyMaps(got, want map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "line sets differ:\n  got:  %s\n  want: %s", formatFrequencyMap(got), formatFrequencyMap(want))
	return b.String()
}

func formatFrequencyMap(freq map[string]int) string {
	lines := make([]string, 0, len(freq))
	for line := range freq {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%q x%d", line, freq[line]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
