package model

import (
	"slices"
	"strings"
)

type PersonID int

// NoPerson fills an empty parent slot of a Family.
const NoPerson PersonID = -1

type FamilyID int

type EventKind string

const (
	EventBirth       EventKind = "birth"
	EventDeath       EventKind = "death"
	EventChristening EventKind = "christening"
	EventBurial      EventKind = "burial"
	EventMarriage    EventKind = "marriage"
)

// PersonEvents lists the life events carried directly by a Person, in report order.
var PersonEvents = []EventKind{EventBirth, EventDeath, EventChristening, EventBurial}

type Event struct {
	Date  string `json:"date,omitempty" yaml:"date,omitempty"`
	Place string `json:"place,omitempty" yaml:"place,omitempty"`
}

func (e Event) IsEmpty() bool {
	return strings.TrimSpace(e.Date) == "" && strings.TrimSpace(e.Place) == ""
}

// Equal compares date and place verbatim apart from surrounding and repeated
// whitespace.
func (e Event) Equal(other Event) bool {
	return collapse(e.Date) == collapse(other.Date) && collapse(e.Place) == collapse(other.Place)
}

type Person struct {
	ID          PersonID   `json:"id"`
	UID         string     `json:"uid,omitempty"`
	Name        Name       `json:"name"`
	Birth       Event      `json:"birth"`
	Death       Event      `json:"death"`
	Christening Event      `json:"christening"`
	Burial      Event      `json:"burial"`
	FamilyIDs   []FamilyID `json:"family_ids,omitempty"`
	References  []string   `json:"references,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// Event returns the person's event of the given kind. Marriage lives on
// Family and yields the zero Event here.
func (p Person) Event(kind EventKind) Event {
	switch kind {
	case EventBirth:
		return p.Birth
	case EventDeath:
		return p.Death
	case EventChristening:
		return p.Christening
	case EventBurial:
		return p.Burial
	}
	return Event{}
}

func (p Person) Clone() Person {
	c := p
	c.FamilyIDs = slices.Clone(p.FamilyIDs)
	c.References = slices.Clone(p.References)
	return c
}

type Family struct {
	ID       FamilyID   `json:"id"`
	Father   PersonID   `json:"father"`
	Mother   PersonID   `json:"mother"`
	Children []PersonID `json:"children,omitempty"`
	Marriage Event      `json:"marriage"`
}

func (f Family) Clone() Family {
	c := f
	c.Children = slices.Clone(f.Children)
	return c
}

// HasParent reports whether id occupies the father or mother slot.
func (f Family) HasParent(id PersonID) bool {
	return id != NoPerson && (f.Father == id || f.Mother == id)
}

// Spouse returns the other parent of the family, or NoPerson.
func (f Family) Spouse(id PersonID) PersonID {
	switch id {
	case NoPerson:
		return NoPerson
	case f.Father:
		return f.Mother
	case f.Mother:
		return f.Father
	}
	return NoPerson
}

// Members returns the parents followed by the children, skipping empty slots.
func (f Family) Members() []PersonID {
	ids := make([]PersonID, 0, len(f.Children)+2)
	if f.Father != NoPerson {
		ids = append(ids, f.Father)
	}
	if f.Mother != NoPerson {
		ids = append(ids, f.Mother)
	}
	return append(ids, f.Children...)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
