package compare

import (
	"github.com/agenthands/regcompare/internal/core/common"
)

// ReferenceRecallError records a pair whose second side lists fewer distinct
// references than the first.
type ReferenceRecallError struct {
	Pair              `yaml:",inline"`
	ExpectedCount     int      `json:"expected_count" yaml:"expected_count"`
	ActualCount       int      `json:"actual_count" yaml:"actual_count"`
	MissingReferences []string `json:"missing_references" yaml:"missing_references"`
}

// ReferencePrecisionError records a pair whose reference sets differ in
// either direction.
type ReferencePrecisionError struct {
	Pair                 `yaml:",inline"`
	DifferentReferences1 []string `json:"different_references1" yaml:"different_references1"`
	DifferentReferences2 []string `json:"different_references2" yaml:"different_references2"`
}

type ReferencesEntry struct {
	EntryID         string                    `json:"entry_id" yaml:"entry_id"`
	RecallErrors    []ReferenceRecallError    `json:"recall_errors" yaml:"recall_errors"`
	PrecisionErrors []ReferencePrecisionError `json:"precision_errors" yaml:"precision_errors"`
}

type ReferencesTotals struct {
	TotalMatches       int     `json:"total_matches" yaml:"total_matches"`
	RecallErrors       int     `json:"recall_errors" yaml:"recall_errors"`
	PrecisionErrors    int     `json:"precision_errors" yaml:"precision_errors"`
	RecallErrorRate    float64 `json:"recall_error_rate" yaml:"recall_error_rate"`
	PrecisionErrorRate float64 `json:"precision_error_rate" yaml:"precision_error_rate"`
}

type ReferencesReport struct {
	ReferencesTotals `yaml:",inline"`
	Details          []ReferencesEntry `json:"details" yaml:"details"`
}

// CompareReferences treats each matched pair's references as sets. Rates are
// per matched pair.
func (c *Comparer) CompareReferences() ReferencesReport {
	r := ReferencesReport{Details: []ReferencesEntry{}}

	for _, st := range c.states {
		entry := ReferencesEntry{
			EntryID:         st.id,
			RecallErrors:    []ReferenceRecallError{},
			PrecisionErrors: []ReferencePrecisionError{},
		}
		for _, mp := range st.pairs() {
			r.TotalMatches++
			refs1, refs2 := mp.p1.References, mp.p2.References
			n1, n2 := common.Distinct(refs1), common.Distinct(refs2)
			only1 := common.Difference(refs1, refs2)
			only2 := common.Difference(refs2, refs1)

			if n1 > n2 {
				entry.RecallErrors = append(entry.RecallErrors, ReferenceRecallError{
					Pair:              mp.Pair,
					ExpectedCount:     n1,
					ActualCount:       n2,
					MissingReferences: only1,
				})
			}
			if len(only1) > 0 || len(only2) > 0 {
				entry.PrecisionErrors = append(entry.PrecisionErrors, ReferencePrecisionError{
					Pair:                 mp.Pair,
					DifferentReferences1: only1,
					DifferentReferences2: only2,
				})
			}
		}
		r.RecallErrors += len(entry.RecallErrors)
		r.PrecisionErrors += len(entry.PrecisionErrors)
		if len(entry.RecallErrors) > 0 || len(entry.PrecisionErrors) > 0 {
			r.Details = append(r.Details, entry)
		}
	}

	r.RecallErrorRate = common.Rate(r.RecallErrors, r.TotalMatches)
	r.PrecisionErrorRate = common.Rate(r.PrecisionErrors, r.TotalMatches)
	return r
}
