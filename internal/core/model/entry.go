package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agenthands/regcompare/internal/core/common"
)

var (
	ErrDuplicatePerson   = errors.New("duplicate person id")
	ErrDuplicateFamily   = errors.New("duplicate family id")
	ErrDuplicateEntry    = errors.New("duplicate entry id")
	ErrDanglingReference = errors.New("dangling reference")
)

// Entry is the family forest of one register block. Person ids are unique
// within the entry only.
type Entry struct {
	ID       string
	people   map[PersonID]Person
	families map[FamilyID]Family
	uids     map[string]PersonID
}

func NewEntry(id string) *Entry {
	return &Entry{
		ID:       id,
		people:   make(map[PersonID]Person),
		families: make(map[FamilyID]Family),
		uids:     make(map[string]PersonID),
	}
}

func (e *Entry) AddPerson(p Person) error {
	if p.ID == NoPerson {
		return fmt.Errorf("entry %s: person id %d is reserved", e.ID, p.ID)
	}
	if _, ok := e.people[p.ID]; ok {
		return fmt.Errorf("entry %s: person %d: %w", e.ID, p.ID, ErrDuplicatePerson)
	}
	e.people[p.ID] = p.Clone()
	if p.UID != "" {
		e.uids[p.UID] = p.ID
	}
	return nil
}

func (e *Entry) AddFamily(f Family) error {
	if _, ok := e.families[f.ID]; ok {
		return fmt.Errorf("entry %s: family %d: %w", e.ID, f.ID, ErrDuplicateFamily)
	}
	e.families[f.ID] = f.Clone()
	return nil
}

func (e *Entry) Person(id PersonID) (Person, bool) {
	p, ok := e.people[id]
	if !ok {
		return Person{}, false
	}
	return p.Clone(), true
}

func (e *Entry) Family(id FamilyID) (Family, bool) {
	f, ok := e.families[id]
	if !ok {
		return Family{}, false
	}
	return f.Clone(), true
}

// LookupUID resolves a parser-assigned string alias to its person id.
func (e *Entry) LookupUID(uid string) (PersonID, bool) {
	id, ok := e.uids[uid]
	return id, ok
}

// People returns a deep copy of the entry's persons.
func (e *Entry) People() map[PersonID]Person {
	out := make(map[PersonID]Person, len(e.people))
	for id, p := range e.people {
		out[id] = p.Clone()
	}
	return out
}

// Families returns a deep copy of the entry's families.
func (e *Entry) Families() map[FamilyID]Family {
	out := make(map[FamilyID]Family, len(e.families))
	for id, f := range e.families {
		out[id] = f.Clone()
	}
	return out
}

func (e *Entry) PersonIDs() []PersonID {
	return common.SortedKeys(e.people)
}

func (e *Entry) FamilyIDs() []FamilyID {
	return common.SortedKeys(e.families)
}

func (e *Entry) Len() int {
	return len(e.people)
}

// Validate checks that every family member and every person family link
// resolves inside the entry.
func (e *Entry) Validate() error {
	var errs []error
	for _, fid := range e.FamilyIDs() {
		for _, pid := range e.families[fid].Members() {
			if _, ok := e.people[pid]; !ok {
				errs = append(errs, fmt.Errorf("entry %s: family %d names person %d: %w", e.ID, fid, pid, ErrDanglingReference))
			}
		}
	}
	for _, pid := range e.PersonIDs() {
		for _, fid := range e.people[pid].FamilyIDs {
			if _, ok := e.families[fid]; !ok {
				errs = append(errs, fmt.Errorf("entry %s: person %d names family %d: %w", e.ID, pid, fid, ErrDanglingReference))
			}
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := NewEntry(e.ID)
	c.people = e.People()
	c.families = e.Families()
	for uid, id := range e.uids {
		c.uids[uid] = id
	}
	return c
}

// ParentFamilies returns, in ascending id order, the families in which id is
// father or mother.
func (e *Entry) ParentFamilies(id PersonID) []Family {
	var out []Family
	for _, fid := range e.FamilyIDs() {
		if f := e.families[fid]; f.HasParent(id) {
			out = append(out, f.Clone())
		}
	}
	return out
}

// ChildFamilies returns, in ascending id order, the families listing id as a child.
func (e *Entry) ChildFamilies(id PersonID) []Family {
	var out []Family
	for _, fid := range e.FamilyIDs() {
		if f := e.families[fid]; slices.Contains(f.Children, id) {
			out = append(out, f.Clone())
		}
	}
	return out
}
