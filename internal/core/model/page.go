package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agenthands/regcompare/internal/core/common"
)

// Page is every entry transcribed or extracted from one source for one
// register page.
type Page struct {
	Location string
	entries  map[string]*Entry
}

func NewPage(location string) *Page {
	return &Page{
		Location: location,
		entries:  make(map[string]*Entry),
	}
}

// AddEntry stores a copy of e; later changes to e do not affect the page.
func (p *Page) AddEntry(e *Entry) error {
	if _, ok := p.entries[e.ID]; ok {
		return fmt.Errorf("page %q: entry %s: %w", p.Location, e.ID, ErrDuplicateEntry)
	}
	p.entries[e.ID] = e.Clone()
	return nil
}

// Entry returns a deep copy of the entry with the given id.
func (p *Page) Entry(id string) (*Entry, bool) {
	e, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// EntryIDs returns entry ids in natural order.
func (p *Page) EntryIDs() []string {
	ids := make([]string, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, common.NaturalCompare)
	return ids
}

// PersonKey addresses a person across a whole page.
type PersonKey struct {
	EntryID  string
	PersonID PersonID
}

// AllPeople returns a flat copy of every person on the page.
func (p *Page) AllPeople() map[PersonKey]Person {
	out := make(map[PersonKey]Person)
	for eid, e := range p.entries {
		for pid, person := range e.people {
			out[PersonKey{EntryID: eid, PersonID: pid}] = person.Clone()
		}
	}
	return out
}

func (p *Page) Validate() error {
	var errs []error
	for _, id := range p.EntryIDs() {
		if err := p.entries[id].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("page %q: %w", p.Location, err)
	}
	return nil
}
