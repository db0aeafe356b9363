package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSimilarityThreshold is the lowest Similarity at which two names are
// considered the same person by the matcher.
const DefaultSimilarityThreshold = 0.6

const similarityEpsilon = 1e-9

type Name struct {
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Surname string `json:"surname,omitempty" yaml:"surname,omitempty"`
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

func (n Name) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{n.Prefix, n.Given, n.Surname, n.Suffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// IsEmpty reports whether the name has neither a given name nor a surname.
func (n Name) IsEmpty() bool {
	return normalize(n.Given) == "" && normalize(n.Surname) == ""
}

// ExactMatch compares given name and surname after case and accent folding.
// An empty name never matches anything.
func (n Name) ExactMatch(other Name) bool {
	if n.IsEmpty() || other.IsEmpty() {
		return false
	}
	return normalize(n.Given) == normalize(other.Given) &&
		normalize(n.Surname) == normalize(other.Surname)
}

// Similarity returns a score in [0,1]. When both surnames are known the score
// is the weaker of the given-name and surname ratios; otherwise the full
// names are compared.
func (n Name) Similarity(other Name) float64 {
	if n.IsEmpty() || other.IsEmpty() {
		return 0
	}
	g1, g2 := normalize(n.Given), normalize(other.Given)
	s1, s2 := normalize(n.Surname), normalize(other.Surname)

	if s1 == "" || s2 == "" {
		return ratio(joinNonEmpty(g1, s1), joinNonEmpty(g2, s2))
	}
	if g1 == "" && g2 == "" {
		return ratio(s1, s2)
	}
	return min(ratio(g1, g2), ratio(s1, s2))
}

// SimilarAt is the fuzzy equivalence used by the matcher's weaker passes:
// an exact match, or a Similarity of at least threshold.
func (n Name) SimilarAt(other Name, threshold float64) bool {
	if n.ExactMatch(other) {
		return true
	}
	return n.Similarity(other) >= threshold-similarityEpsilon
}

func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// normalize lower-cases, strips diacritics and punctuation, and collapses
// whitespace.
func normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}
