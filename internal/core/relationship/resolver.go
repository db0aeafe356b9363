// Package relationship derives a role code for every person of an entry from
// the shape of its family forest.
//
// Persons are split into connected components (spouse, parent, child and
// sibling links all connect). Components are numbered 0, 1, 2, ... by their
// smallest person id, which is also the component's trunk. Every other
// person's code is the trunk's number followed by one letter per step of the
// shortest path from the trunk:
//
//	W  spouse, seen from the husband slot
//	H  spouse, seen from the wife slot
//	F  father
//	M  mother
//	C  child
//	S  sibling
package relationship

import (
	"strconv"
	"strings"

	"github.com/agenthands/regcompare/internal/core/model"
)

const (
	Wife    = 'W'
	Husband = 'H'
	Father  = 'F'
	Mother  = 'M'
	Child   = 'C'
	Sibling = 'S'
)

// Codes maps person id to relationship code for one entry.
type Codes map[model.PersonID]string

// Of returns the code of id, or "" when id is not part of the entry.
func (c Codes) Of(id model.PersonID) string {
	return c[id]
}

// Isolated reports whether id is alone in its component, that is whether
// its bare trunk code comes from numbering and not from any family link.
// Persons outside the entry are isolated.
func (c Codes) Isolated(id model.PersonID) bool {
	code, ok := c[id]
	if !ok {
		return true
	}
	if Suffix(code) != "" {
		return false
	}
	for other, oc := range c {
		if other != id && Component(oc) == code {
			return false
		}
	}
	return true
}

type edge struct {
	to     model.PersonID
	letter byte
}

// Compute returns the code of every person in the entry. It is a pure
// function of the entry's persons and families.
func Compute(entry *model.Entry) Codes {
	ids := entry.PersonIDs()
	adj := adjacency(entry)

	codes := make(Codes, len(ids))
	component := 0
	for _, trunk := range ids {
		if _, seen := codes[trunk]; seen {
			continue
		}
		codes[trunk] = strconv.Itoa(component)
		component++

		queue := []model.PersonID{trunk}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, e := range adj[u] {
				if _, seen := codes[e.to]; seen {
					continue
				}
				codes[e.to] = codes[u] + string(e.letter)
				queue = append(queue, e.to)
			}
		}
	}
	return codes
}

// Relationship computes the code of a single person.
func Relationship(entry *model.Entry, id model.PersonID) string {
	return Compute(entry).Of(id)
}

// ByRef resolves ref as a numeric person id or a parser UID alias and returns
// its code; unknown references yield "".
func ByRef(entry *model.Entry, ref string) string {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return Relationship(entry, model.PersonID(n))
	}
	if id, ok := entry.LookupUID(ref); ok {
		return Relationship(entry, id)
	}
	return ""
}

// Suffix returns the letter part of a code.
func Suffix(code string) string {
	return strings.TrimLeft(code, "0123456789")
}

// Component returns the numeric prefix of a code.
func Component(code string) string {
	return code[:len(code)-len(Suffix(code))]
}

// adjacency lists, for every person, the typed links in a fixed order that
// does not depend on id numbering beyond family order: spouses, parents,
// children, siblings.
func adjacency(entry *model.Entry) map[model.PersonID][]edge {
	people := entry.People()
	exists := func(id model.PersonID) bool {
		_, ok := people[id]
		return id != model.NoPerson && ok
	}

	adj := make(map[model.PersonID][]edge, len(people))
	for _, id := range entry.PersonIDs() {
		var spouses, parents, children, siblings []edge
		for _, f := range entry.ParentFamilies(id) {
			if s := f.Spouse(id); exists(s) && s != id {
				letter := byte(Wife)
				if f.Mother == id {
					letter = Husband
				}
				spouses = append(spouses, edge{to: s, letter: letter})
			}
			for _, c := range f.Children {
				if exists(c) && c != id {
					children = append(children, edge{to: c, letter: Child})
				}
			}
		}
		for _, f := range entry.ChildFamilies(id) {
			if exists(f.Father) && f.Father != id {
				parents = append(parents, edge{to: f.Father, letter: Father})
			}
			if exists(f.Mother) && f.Mother != id {
				parents = append(parents, edge{to: f.Mother, letter: Mother})
			}
			for _, c := range f.Children {
				if exists(c) && c != id {
					siblings = append(siblings, edge{to: c, letter: Sibling})
				}
			}
		}
		edges := make([]edge, 0, len(spouses)+len(parents)+len(children)+len(siblings))
		edges = append(edges, spouses...)
		edges = append(edges, parents...)
		edges = append(edges, children...)
		adj[id] = append(edges, siblings...)
	}
	return adj
}
