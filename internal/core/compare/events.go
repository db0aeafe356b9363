package compare

import (
	"strings"

	"github.com/agenthands/regcompare/internal/core/common"
	"github.com/agenthands/regcompare/internal/core/dates"
	"github.com/agenthands/regcompare/internal/core/model"
)

// EventRecallError records an event present on one side only. MissingIn
// names the side that lacks it.
type EventRecallError struct {
	Pair      `yaml:",inline"`
	Event     model.EventKind `json:"event" yaml:"event"`
	MissingIn string          `json:"missing_in" yaml:"missing_in"`
	Present   model.Event     `json:"present" yaml:"present"`
	Family1ID *model.FamilyID `json:"family1_id,omitempty" yaml:"family1_id,omitempty"`
	Family2ID *model.FamilyID `json:"family2_id,omitempty" yaml:"family2_id,omitempty"`
}

// EventPrecisionError records an event present on both sides with a
// different date, place, or both.
type EventPrecisionError struct {
	Pair         `yaml:",inline"`
	Event        model.EventKind `json:"event" yaml:"event"`
	First        model.Event     `json:"first" yaml:"first"`
	Second       model.Event     `json:"second" yaml:"second"`
	DatesDiffer  bool            `json:"dates_differ" yaml:"dates_differ"`
	PlacesDiffer bool            `json:"places_differ" yaml:"places_differ"`
	Family1ID    *model.FamilyID `json:"family1_id,omitempty" yaml:"family1_id,omitempty"`
	Family2ID    *model.FamilyID `json:"family2_id,omitempty" yaml:"family2_id,omitempty"`
}

type EventsEntry struct {
	EntryID         string                `json:"entry_id" yaml:"entry_id"`
	RecallErrors    []EventRecallError    `json:"recall_errors" yaml:"recall_errors"`
	PrecisionErrors []EventPrecisionError `json:"precision_errors" yaml:"precision_errors"`
}

type EventsTotals struct {
	TotalMatches       int     `json:"total_matches" yaml:"total_matches"`
	EventsCompared     int     `json:"events_compared" yaml:"events_compared"`
	RecallErrors       int     `json:"recall_errors" yaml:"recall_errors"`
	PrecisionErrors    int     `json:"precision_errors" yaml:"precision_errors"`
	RecallErrorRate    float64 `json:"recall_error_rate" yaml:"recall_error_rate"`
	PrecisionErrorRate float64 `json:"precision_error_rate" yaml:"precision_error_rate"`
}

type EventsReport struct {
	EventsTotals `yaml:",inline"`
	Details      []EventsEntry `json:"details" yaml:"details"`
}

// CompareEvents compares the life events of matched pairs and the marriage
// of each family the pair heads. Rates are per compared event, that is per
// event present on at least one side.
func (c *Comparer) CompareEvents() EventsReport {
	r := EventsReport{Details: []EventsEntry{}}

	for _, st := range c.states {
		ec := &eventCollector{entry: EventsEntry{
			EntryID:         st.id,
			RecallErrors:    []EventRecallError{},
			PrecisionErrors: []EventPrecisionError{},
		}}

		for _, mp := range st.pairs() {
			r.TotalMatches++
			for _, kind := range model.PersonEvents {
				ec.compare(mp.Pair, kind, mp.p1.Event(kind), mp.p2.Event(kind), nil, nil)
			}
		}
		compareMarriages(st, ec)

		r.EventsCompared += ec.compared
		r.RecallErrors += len(ec.entry.RecallErrors)
		r.PrecisionErrors += len(ec.entry.PrecisionErrors)
		if len(ec.entry.RecallErrors) > 0 || len(ec.entry.PrecisionErrors) > 0 {
			r.Details = append(r.Details, ec.entry)
		}
	}

	r.RecallErrorRate = common.Rate(r.RecallErrors, r.EventsCompared)
	r.PrecisionErrorRate = common.Rate(r.PrecisionErrors, r.EventsCompared)
	return r
}

type eventCollector struct {
	entry    EventsEntry
	compared int
}

func (ec *eventCollector) compare(p Pair, kind model.EventKind, e1, e2 model.Event, f1, f2 *model.FamilyID) {
	empty1, empty2 := e1.IsEmpty(), e2.IsEmpty()
	if empty1 && empty2 {
		return
	}
	ec.compared++

	switch {
	case empty2:
		ec.entry.RecallErrors = append(ec.entry.RecallErrors, EventRecallError{
			Pair: p, Event: kind, MissingIn: Second, Present: e1, Family1ID: f1, Family2ID: f2,
		})
	case empty1:
		ec.entry.RecallErrors = append(ec.entry.RecallErrors, EventRecallError{
			Pair: p, Event: kind, MissingIn: First, Present: e2, Family1ID: f1, Family2ID: f2,
		})
	default:
		datesDiffer := dates.Differ(e1.Date, e2.Date)
		placesDiffer := placesDiffer(e1.Place, e2.Place)
		if datesDiffer || placesDiffer {
			ec.entry.PrecisionErrors = append(ec.entry.PrecisionErrors, EventPrecisionError{
				Pair: p, Event: kind, First: e1, Second: e2,
				DatesDiffer: datesDiffer, PlacesDiffer: placesDiffer,
				Family1ID: f1, Family2ID: f2,
			})
		}
	}
}

func placesDiffer(a, b string) bool {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return norm(a) != norm(b)
}

// compareMarriages compares the marriage of every family headed by a matched
// person, each family once per entry. Families are paired in phases over all
// matched couples: first through a matched spouse, then in family order
// within each couple. Only families left unpaired after both phases count as
// missing on the other side.
func compareMarriages(st *entryState, ec *eventCollector) {
	partner := make(map[model.PersonID]model.PersonID, len(st.result.Matches))
	for _, m := range st.result.Matches {
		partner[m.Person1ID] = m.Person2ID
	}
	seen1 := make(map[model.FamilyID]bool)
	seen2 := make(map[model.FamilyID]bool)
	pairs := st.pairs()

	unseen := func(fams []model.Family, seen map[model.FamilyID]bool) []model.Family {
		var out []model.Family
		for _, f := range fams {
			if !seen[f.ID] {
				out = append(out, f)
			}
		}
		return out
	}

	for _, mp := range pairs {
		fams2 := st.second.ParentFamilies(mp.Person2ID)
		for _, f1 := range unseen(st.first.ParentFamilies(mp.Person1ID), seen1) {
			s2, ok := partner[f1.Spouse(mp.Person1ID)]
			if !ok {
				continue
			}
			for _, f2 := range unseen(fams2, seen2) {
				if f2.Spouse(mp.Person2ID) == s2 {
					compareFamilies(mp.Pair, &f1, &f2, seen1, seen2, ec)
					break
				}
			}
		}
	}

	for _, mp := range pairs {
		rest1 := unseen(st.first.ParentFamilies(mp.Person1ID), seen1)
		rest2 := unseen(st.second.ParentFamilies(mp.Person2ID), seen2)
		for i := range min(len(rest1), len(rest2)) {
			compareFamilies(mp.Pair, &rest1[i], &rest2[i], seen1, seen2, ec)
		}
	}

	for _, mp := range pairs {
		for _, f1 := range unseen(st.first.ParentFamilies(mp.Person1ID), seen1) {
			compareFamilies(mp.Pair, &f1, nil, seen1, seen2, ec)
		}
		for _, f2 := range unseen(st.second.ParentFamilies(mp.Person2ID), seen2) {
			compareFamilies(mp.Pair, nil, &f2, seen1, seen2, ec)
		}
	}
}

func compareFamilies(p Pair, f1, f2 *model.Family, seen1, seen2 map[model.FamilyID]bool, ec *eventCollector) {
	var e1, e2 model.Event
	var id1, id2 *model.FamilyID
	if f1 != nil {
		seen1[f1.ID] = true
		e1 = f1.Marriage
		id := f1.ID
		id1 = &id
	}
	if f2 != nil {
		seen2[f2.ID] = true
		e2 = f2.Marriage
		id := f2.ID
		id2 = &id
	}
	ec.compare(p, model.EventMarriage, e1, e2, id1, id2)
}
