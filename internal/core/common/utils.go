package common

import (
	"cmp"
	"slices"
	"strconv"
)

// Rate returns 100*n/total, or 0 when total is 0.
func Rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// NaturalCompare orders numeric strings by value and falls back to plain
// string order otherwise, so entry "2" sorts before entry "10".
func NaturalCompare(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		if c := cmp.Compare(ai, bi); c != 0 {
			return c
		}
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return cmp.Compare(a, b)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Difference returns the distinct elements of a that are not in b, sorted.
func Difference(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range a {
		if _, ok := inB[s]; ok {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Distinct returns the number of distinct elements in s.
func Distinct(s []string) int {
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	return len(set)
}
