// Package matcher pairs the persons of one entry as read from two
// independently numbered sources.
package matcher

import (
	"log/slog"
	"slices"

	"github.com/agenthands/regcompare/internal/core/common"
	"github.com/agenthands/regcompare/internal/core/model"
	"github.com/agenthands/regcompare/internal/core/relationship"
)

// Side is one source's view of an entry: its persons and their relationship codes.
type Side struct {
	People map[model.PersonID]model.Person
	Codes  relationship.Codes
}

// NewSide builds a Side from an entry, computing relationship codes once.
func NewSide(entry *model.Entry) Side {
	return Side{
		People: entry.People(),
		Codes:  relationship.Compute(entry),
	}
}

type Options struct {
	// SimilarityThreshold is the lowest name similarity accepted by the
	// relationship_similar and similar_name passes.
	SimilarityThreshold float64
}

func DefaultOptions() Options {
	return Options{SimilarityThreshold: model.DefaultSimilarityThreshold}
}

type Matcher struct {
	Options Options
	Logger  *slog.Logger
}

func NewMatcher(opts Options, logger *slog.Logger) *Matcher {
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = model.DefaultSimilarityThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{Options: opts, Logger: logger}
}

type Result struct {
	Matches    []model.MatchRecord `json:"matches"`
	UnmatchedA []model.Person      `json:"unmatched_a"`
	UnmatchedB []model.Person      `json:"unmatched_b"`
}

func (r Result) Total() int {
	return len(r.Matches)
}

func (r Result) Precise() int {
	n := 0
	for _, m := range r.Matches {
		if m.MatchType.Precise() {
			n++
		}
	}
	return n
}

func (r Result) Imprecise() int {
	return r.Total() - r.Precise()
}

// PrecisionRate is the share of exact-name matches, 0 when nothing matched.
func (r Result) PrecisionRate() float64 {
	return common.Rate(r.Precise(), r.Total())
}

func (r Result) CountByType() map[model.MatchType]int {
	counts := make(map[model.MatchType]int, len(model.MatchTypes))
	for _, t := range model.MatchTypes {
		counts[t] = 0
	}
	for _, m := range r.Matches {
		counts[m.MatchType]++
	}
	return counts
}

type pass struct {
	kind  model.MatchType
	match func(a, b model.Person) bool
}

// Match runs the pass cascade over a and b. Each pass walks the unconsumed
// persons of a in ascending id order and pairs each with the first
// compatible unconsumed person of b; a paired person is never reconsidered.
// Persons without family links carry no role, so the relationship pass
// leaves them to similar_name.
func (m *Matcher) Match(a, b Side) Result {
	threshold := m.Options.SimilarityThreshold
	passes := []pass{
		{model.MatchExactName, func(x, y model.Person) bool {
			return x.Name.ExactMatch(y.Name)
		}},
		{model.MatchEventReference, func(x, y model.Person) bool {
			return SharesReference(x, y) || SharesEvent(x, y)
		}},
		{model.MatchRelationshipSimilar, func(x, y model.Person) bool {
			if a.Codes.Isolated(x.ID) || b.Codes.Isolated(y.ID) {
				return false
			}
			ca, cb := a.Codes.Of(x.ID), b.Codes.Of(y.ID)
			return ca == cb && x.Name.SimilarAt(y.Name, threshold)
		}},
		{model.MatchSimilarName, func(x, y model.Person) bool {
			return x.Name.SimilarAt(y.Name, threshold)
		}},
	}

	poolA := common.SortedKeys(a.People)
	poolB := common.SortedKeys(b.People)

	var result Result
	for _, p := range passes {
		if len(poolA) == 0 || len(poolB) == 0 {
			break
		}
		before := len(result.Matches)
		poolA, poolB = m.run(p, a, b, poolA, poolB, &result)
		m.Logger.Debug("matcher pass complete",
			"pass", p.kind,
			"matched", len(result.Matches)-before,
			"remaining_a", len(poolA),
			"remaining_b", len(poolB))
	}

	for _, id := range poolA {
		result.UnmatchedA = append(result.UnmatchedA, a.People[id].Clone())
	}
	for _, id := range poolB {
		result.UnmatchedB = append(result.UnmatchedB, b.People[id].Clone())
	}
	return result
}

func (m *Matcher) run(p pass, a, b Side, poolA, poolB []model.PersonID, result *Result) ([]model.PersonID, []model.PersonID) {
	var restA []model.PersonID
	for _, ida := range poolA {
		pa := a.People[ida]
		j := slices.IndexFunc(poolB, func(idb model.PersonID) bool {
			return p.match(pa, b.People[idb])
		})
		if j < 0 {
			restA = append(restA, ida)
			continue
		}
		pb := b.People[poolB[j]]
		result.Matches = append(result.Matches, model.MatchRecord{
			Person1ID:   pa.ID,
			Person2ID:   pb.ID,
			Person1Name: pa.Name.String(),
			Person2Name: pb.Name.String(),
			MatchType:   p.kind,
		})
		poolB = slices.Delete(poolB, j, j+1)
	}
	return restA, poolB
}

// SharesReference reports whether the two persons list a common reference string.
func SharesReference(a, b model.Person) bool {
	for _, r := range a.References {
		if r != "" && slices.Contains(b.References, r) {
			return true
		}
	}
	return false
}

// SharesEvent reports whether the two persons record the same non-empty
// birth or death, date and place both equal.
func SharesEvent(a, b model.Person) bool {
	for _, kind := range []model.EventKind{model.EventBirth, model.EventDeath} {
		ea, eb := a.Event(kind), b.Event(kind)
		if !ea.IsEmpty() && ea.Equal(eb) {
			return true
		}
	}
	return false
}
