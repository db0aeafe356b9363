// Package compare runs the entity matcher over every entry two pages share
// and measures the resulting correspondence along four facets: people,
// references, relationships and events.
//
// The first page is the trusted reference; the second is the candidate under
// evaluation. A Comparer never mutates either page.
package compare

import (
	"log/slog"
	"slices"

	"github.com/agenthands/regcompare/internal/core/common"
	"github.com/agenthands/regcompare/internal/core/matcher"
	"github.com/agenthands/regcompare/internal/core/model"
)

// Side labels used in detail records.
const (
	First  = "first"
	Second = "second"
)

type Comparer struct {
	first   *model.Page
	second  *model.Page
	matcher *matcher.Matcher
	logger  *slog.Logger

	entries EntriesReport
	states  []*entryState
}

type Option func(*Comparer)

func WithMatcher(m *matcher.Matcher) Option {
	return func(c *Comparer) {
		c.matcher = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Comparer) {
		c.logger = l
	}
}

// entryState is everything derived once for one common entry.
type entryState struct {
	id     string
	first  *model.Entry
	second *model.Entry
	sideA  matcher.Side
	sideB  matcher.Side
	result matcher.Result
}

// New matches every common entry of first and second. The facet methods only
// read the resulting state.
func New(first, second *model.Page, opts ...Option) *Comparer {
	c := &Comparer{first: first, second: second}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.matcher == nil {
		c.matcher = matcher.NewMatcher(matcher.DefaultOptions(), c.logger)
	}

	c.entries = splitEntries(first.EntryIDs(), second.EntryIDs())
	for _, id := range c.entries.Common {
		e1, _ := first.Entry(id)
		e2, _ := second.Entry(id)
		st := &entryState{
			id:     id,
			first:  e1,
			second: e2,
			sideA:  matcher.NewSide(e1),
			sideB:  matcher.NewSide(e2),
		}
		st.result = c.matcher.Match(st.sideA, st.sideB)
		c.logger.Debug("entry matched",
			"entry", id,
			"matches", st.result.Total(),
			"unmatched_first", len(st.result.UnmatchedA),
			"unmatched_second", len(st.result.UnmatchedB))
		c.states = append(c.states, st)
	}
	return c
}

type EntriesReport struct {
	Common       []string `json:"common" yaml:"common"`
	OnlyInFirst  []string `json:"only_in_first" yaml:"only_in_first"`
	OnlyInSecond []string `json:"only_in_second" yaml:"only_in_second"`
}

// CompareEntries reports which entry ids the pages share. Entries on one side
// only take no part in the other facets.
func (c *Comparer) CompareEntries() EntriesReport {
	return EntriesReport{
		Common:       slices.Clone(c.entries.Common),
		OnlyInFirst:  slices.Clone(c.entries.OnlyInFirst),
		OnlyInSecond: slices.Clone(c.entries.OnlyInSecond),
	}
}

func splitEntries(ids1, ids2 []string) EntriesReport {
	r := EntriesReport{Common: []string{}, OnlyInFirst: []string{}, OnlyInSecond: []string{}}
	in2 := make(map[string]bool, len(ids2))
	for _, id := range ids2 {
		in2[id] = true
	}
	in1 := make(map[string]bool, len(ids1))
	for _, id := range ids1 {
		in1[id] = true
		if in2[id] {
			r.Common = append(r.Common, id)
		} else {
			r.OnlyInFirst = append(r.OnlyInFirst, id)
		}
	}
	for _, id := range ids2 {
		if !in1[id] {
			r.OnlyInSecond = append(r.OnlyInSecond, id)
		}
	}
	slices.SortFunc(r.Common, common.NaturalCompare)
	slices.SortFunc(r.OnlyInFirst, common.NaturalCompare)
	slices.SortFunc(r.OnlyInSecond, common.NaturalCompare)
	return r
}

// Pair identifies a matched couple of persons in detail records.
type Pair struct {
	EntryID     string         `json:"entry_id" yaml:"entry_id"`
	Person1ID   model.PersonID `json:"person1_id" yaml:"person1_id"`
	Person2ID   model.PersonID `json:"person2_id" yaml:"person2_id"`
	Person1Name string         `json:"person1_name" yaml:"person1_name"`
	Person2Name string         `json:"person2_name" yaml:"person2_name"`
}

type matchedPair struct {
	Pair
	p1, p2 model.Person
}

// pairs lists the matched persons of an entry in match order.
func (st *entryState) pairs() []matchedPair {
	out := make([]matchedPair, 0, len(st.result.Matches))
	for _, m := range st.result.Matches {
		out = append(out, matchedPair{
			Pair: Pair{
				EntryID:     st.id,
				Person1ID:   m.Person1ID,
				Person2ID:   m.Person2ID,
				Person1Name: m.Person1Name,
				Person2Name: m.Person2Name,
			},
			p1: st.sideA.People[m.Person1ID],
			p2: st.sideB.People[m.Person2ID],
		})
	}
	return out
}

// Participant is one person of a common entry as the comparison saw it.
type Participant struct {
	Side         string
	EntryID      string
	PersonID     model.PersonID
	Name         string
	Relationship string
	Matched      bool
}

// Participants lists every person of every common entry, first side before
// second, in ascending id order within an entry.
func (c *Comparer) Participants() []Participant {
	var out []Participant
	for _, st := range c.states {
		matched1 := make(map[model.PersonID]bool, len(st.result.Matches))
		matched2 := make(map[model.PersonID]bool, len(st.result.Matches))
		for _, m := range st.result.Matches {
			matched1[m.Person1ID] = true
			matched2[m.Person2ID] = true
		}
		for _, side := range []struct {
			label   string
			s       matcher.Side
			matched map[model.PersonID]bool
		}{{First, st.sideA, matched1}, {Second, st.sideB, matched2}} {
			for _, id := range common.SortedKeys(side.s.People) {
				out = append(out, Participant{
					Side:         side.label,
					EntryID:      st.id,
					PersonID:     id,
					Name:         side.s.People[id].Name.String(),
					Relationship: side.s.Codes.Of(id),
					Matched:      side.matched[id],
				})
			}
		}
	}
	return out
}

// Run invokes every facet in reporting order and collects the results.
func (c *Comparer) Run() *Report {
	return &Report{
		FirstLocation:  c.first.Location,
		SecondLocation: c.second.Location,
		Entries:        c.CompareEntries(),
		People:         c.ComparePeople(),
		References:     c.CompareReferences(),
		Relationships:  c.CompareRelationships(),
		Events:         c.CompareEvents(),
		Summary:        c.Summary(),
	}
}

// Report is the fully materialized outcome of one comparison.
type Report struct {
	ID             string              `json:"id,omitempty" yaml:"id,omitempty"`
	FirstLocation  string              `json:"first_location" yaml:"first_location"`
	SecondLocation string              `json:"second_location" yaml:"second_location"`
	Entries        EntriesReport       `json:"entries" yaml:"entries"`
	People         PeopleReport        `json:"people" yaml:"people"`
	References     ReferencesReport    `json:"references" yaml:"references"`
	Relationships  RelationshipsReport `json:"relationships" yaml:"relationships"`
	Events         EventsReport        `json:"events" yaml:"events"`
	Summary        Summary             `json:"summary" yaml:"summary"`
}
