package compare

import (
	"slices"

	"github.com/agenthands/regcompare/internal/core/common"
	"github.com/agenthands/regcompare/internal/core/model"
)

type PersonSummary struct {
	ID           model.PersonID `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Relationship string         `json:"relationship" yaml:"relationship"`
}

type PeopleEntry struct {
	EntryID         string              `json:"entry_id" yaml:"entry_id"`
	Matches         []model.MatchRecord `json:"matches" yaml:"matches"`
	UnmatchedFirst  []PersonSummary     `json:"unmatched_first" yaml:"unmatched_first"`
	UnmatchedSecond []PersonSummary     `json:"unmatched_second" yaml:"unmatched_second"`
}

type PeopleTotals struct {
	PeopleFirst     int                     `json:"people_first" yaml:"people_first"`
	PeopleSecond    int                     `json:"people_second" yaml:"people_second"`
	TotalMatches    int                     `json:"total_matches" yaml:"total_matches"`
	Precise         int                     `json:"precise" yaml:"precise"`
	Imprecise       int                     `json:"imprecise" yaml:"imprecise"`
	ByType          map[model.MatchType]int `json:"by_type" yaml:"by_type"`
	UnmatchedFirst  int                     `json:"unmatched_first" yaml:"unmatched_first"`
	UnmatchedSecond int                     `json:"unmatched_second" yaml:"unmatched_second"`
	PrecisionRate   float64                 `json:"precision_rate" yaml:"precision_rate"`
	RecallRate      float64                 `json:"recall_rate" yaml:"recall_rate"`
}

type PeopleReport struct {
	PeopleTotals `yaml:",inline"`
	Details      []PeopleEntry `json:"details" yaml:"details"`
}

// ComparePeople reports match counts per type and the persons left unmatched
// on either side, which are this facet's errors.
func (c *Comparer) ComparePeople() PeopleReport {
	r := PeopleReport{
		PeopleTotals: PeopleTotals{ByType: make(map[model.MatchType]int, len(model.MatchTypes))},
		Details:      []PeopleEntry{},
	}
	for _, t := range model.MatchTypes {
		r.ByType[t] = 0
	}

	for _, st := range c.states {
		res := st.result
		r.PeopleFirst += st.first.Len()
		r.PeopleSecond += st.second.Len()
		r.TotalMatches += res.Total()
		r.Precise += res.Precise()
		r.Imprecise += res.Imprecise()
		r.UnmatchedFirst += len(res.UnmatchedA)
		r.UnmatchedSecond += len(res.UnmatchedB)
		for t, n := range res.CountByType() {
			r.ByType[t] += n
		}

		r.Details = append(r.Details, PeopleEntry{
			EntryID:         st.id,
			Matches:         slices.Clone(res.Matches),
			UnmatchedFirst:  summarize(res.UnmatchedA, st.sideA.Codes),
			UnmatchedSecond: summarize(res.UnmatchedB, st.sideB.Codes),
		})
	}

	r.PrecisionRate = common.Rate(r.Precise, r.TotalMatches)
	r.RecallRate = common.Rate(r.TotalMatches, r.PeopleFirst)
	return r
}

func summarize(people []model.Person, codes map[model.PersonID]string) []PersonSummary {
	out := make([]PersonSummary, 0, len(people))
	for _, p := range people {
		out = append(out, PersonSummary{ID: p.ID, Name: p.Name.String(), Relationship: codes[p.ID]})
	}
	return out
}
