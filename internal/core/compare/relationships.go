package compare

import (
	"github.com/agenthands/regcompare/internal/core/common"
	"github.com/agenthands/regcompare/internal/core/relationship"
)

// MismatchKind classifies a relationship disagreement.
type MismatchKind string

const (
	// MismatchMissing: one side has no code for its person.
	MismatchMissing MismatchKind = "missing"
	// MismatchTrunk: exactly one side places the person at a component trunk.
	MismatchTrunk MismatchKind = "trunk"
	// MismatchDepth: the derivations have different lengths.
	MismatchDepth MismatchKind = "depth"
	// MismatchRole: same length, different steps.
	MismatchRole MismatchKind = "role"
)

type RelationshipError struct {
	Pair          `yaml:",inline"`
	Relationship1 string       `json:"relationship1" yaml:"relationship1"`
	Relationship2 string       `json:"relationship2" yaml:"relationship2"`
	Suffix1       string       `json:"suffix1" yaml:"suffix1"`
	Suffix2       string       `json:"suffix2" yaml:"suffix2"`
	Kind          MismatchKind `json:"kind" yaml:"kind"`
}

type RelationshipsEntry struct {
	EntryID      string              `json:"entry_id" yaml:"entry_id"`
	RecallErrors []RelationshipError `json:"recall_errors" yaml:"recall_errors"`
}

type RelationshipsTotals struct {
	TotalMatches    int     `json:"total_matches" yaml:"total_matches"`
	RecallErrors    int     `json:"recall_errors" yaml:"recall_errors"`
	RecallErrorRate float64 `json:"recall_error_rate" yaml:"recall_error_rate"`
}

type RelationshipsReport struct {
	RelationshipsTotals `yaml:",inline"`
	Details             []RelationshipsEntry `json:"details" yaml:"details"`
}

// CompareRelationships compares the relationship codes of matched pairs.
// Component numbers are arbitrary per source, so only the letter suffixes
// have to agree.
func (c *Comparer) CompareRelationships() RelationshipsReport {
	r := RelationshipsReport{Details: []RelationshipsEntry{}}

	for _, st := range c.states {
		entry := RelationshipsEntry{EntryID: st.id, RecallErrors: []RelationshipError{}}
		for _, mp := range st.pairs() {
			r.TotalMatches++
			code1 := st.sideA.Codes.Of(mp.Person1ID)
			code2 := st.sideB.Codes.Of(mp.Person2ID)
			s1, s2 := relationship.Suffix(code1), relationship.Suffix(code2)
			if code1 != "" && code2 != "" && s1 == s2 {
				continue
			}
			entry.RecallErrors = append(entry.RecallErrors, RelationshipError{
				Pair:          mp.Pair,
				Relationship1: code1,
				Relationship2: code2,
				Suffix1:       s1,
				Suffix2:       s2,
				Kind:          classify(code1, code2),
			})
		}
		r.RecallErrors += len(entry.RecallErrors)
		if len(entry.RecallErrors) > 0 {
			r.Details = append(r.Details, entry)
		}
	}

	r.RecallErrorRate = common.Rate(r.RecallErrors, r.TotalMatches)
	return r
}

func classify(code1, code2 string) MismatchKind {
	s1, s2 := relationship.Suffix(code1), relationship.Suffix(code2)
	switch {
	case code1 == "" || code2 == "":
		return MismatchMissing
	case (s1 == "") != (s2 == ""):
		return MismatchTrunk
	case len(s1) != len(s2):
		return MismatchDepth
	}
	return MismatchRole
}
