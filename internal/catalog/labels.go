package catalog

import (
	"sort"
	"strings"
)

// NormalizeLabels trims every label and drops the empty ones. Order and duplicates are kept.
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// SplitLabels parses the comma-separated form used by the editor.
func SplitLabels(s string) []string {
	return NormalizeLabels(strings.Split(s, ","))
}

func JoinLabels(labels []string) string {
	return strings.Join(labels, ", ")
}

// Facet merges label lists into a sorted set.
func Facet(lists [][]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, l := range NormalizeLabels(list) {
			seen[l] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)

	return out
}
