// Package document reads page documents: the serialized form of one page as
// produced by a transcriber or an extraction parser. JSON, YAML and TOML are
// accepted and share one schema.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/regcompare/internal/core/model"
)

var (
	ErrUnknownFormat = errors.New("unknown document format")
	ErrInvalid       = errors.New("invalid page document")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Event struct {
	Date  string `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
	Place string `json:"place,omitempty" yaml:"place,omitempty" toml:"place,omitempty"`
}

type Person struct {
	ID          int      `json:"id" yaml:"id" toml:"id" validate:"gte=0"`
	UID         string   `json:"uid,omitempty" yaml:"uid,omitempty" toml:"uid,omitempty"`
	Given       string   `json:"given,omitempty" yaml:"given,omitempty" toml:"given,omitempty"`
	Surname     string   `json:"surname,omitempty" yaml:"surname,omitempty" toml:"surname,omitempty"`
	Prefix      string   `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Suffix      string   `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty"`
	Birth       Event    `json:"birth" yaml:"birth,omitempty" toml:"birth,omitempty"`
	Death       Event    `json:"death" yaml:"death,omitempty" toml:"death,omitempty"`
	Christening Event    `json:"christening" yaml:"christening,omitempty" toml:"christening,omitempty"`
	Burial      Event    `json:"burial" yaml:"burial,omitempty" toml:"burial,omitempty"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty" toml:"references,omitempty" validate:"dive,required"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
}

// Family parents are optional; a nil parent is an empty slot.
type Family struct {
	ID       int   `json:"id" yaml:"id" toml:"id" validate:"gte=0"`
	Father   *int  `json:"father,omitempty" yaml:"father,omitempty" toml:"father,omitempty" validate:"omitnil,gte=0"`
	Mother   *int  `json:"mother,omitempty" yaml:"mother,omitempty" toml:"mother,omitempty" validate:"omitnil,gte=0"`
	Children []int `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" validate:"dive,gte=0"`
	Marriage Event `json:"marriage" yaml:"marriage,omitempty" toml:"marriage,omitempty"`
}

type Entry struct {
	ID       string   `json:"id" yaml:"id" toml:"id" validate:"required"`
	People   []Person `json:"people" yaml:"people" toml:"people" validate:"dive"`
	Families []Family `json:"families,omitempty" yaml:"families,omitempty" toml:"families,omitempty" validate:"dive"`
}

type Page struct {
	Location string  `json:"location" yaml:"location" toml:"location" validate:"required"`
	Entries  []Entry `json:"entries" yaml:"entries" toml:"entries" validate:"dive"`
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

func Decode(r io.Reader, format Format) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc Page
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&doc)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", format, err)
	}
	return &doc, nil
}

// Validate checks field constraints. Cross references are checked by
// ToPage once the model is built.
func (d *Page) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ToPage converts the document into a validated model page. Person family
// links are derived from the families.
func (d *Page) ToPage() (*model.Page, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	page := model.NewPage(d.Location)
	for _, ed := range d.Entries {
		entry, err := ed.toEntry()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if err := page.AddEntry(entry); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return page, nil
}

func (ed Entry) toEntry() (*model.Entry, error) {
	links := make(map[model.PersonID][]model.FamilyID)
	families := make([]model.Family, 0, len(ed.Families))
	for _, fd := range ed.Families {
		f := model.Family{
			ID:       model.FamilyID(fd.ID),
			Father:   slot(fd.Father),
			Mother:   slot(fd.Mother),
			Marriage: model.Event(fd.Marriage),
		}
		for _, c := range fd.Children {
			f.Children = append(f.Children, model.PersonID(c))
		}
		for _, m := range f.Members() {
			links[m] = append(links[m], f.ID)
		}
		families = append(families, f)
	}

	entry := model.NewEntry(ed.ID)
	for _, pd := range ed.People {
		p := model.Person{
			ID:          model.PersonID(pd.ID),
			UID:         pd.UID,
			Name:        model.Name{Given: pd.Given, Surname: pd.Surname, Prefix: pd.Prefix, Suffix: pd.Suffix},
			Birth:       model.Event(pd.Birth),
			Death:       model.Event(pd.Death),
			Christening: model.Event(pd.Christening),
			Burial:      model.Event(pd.Burial),
			FamilyIDs:   links[model.PersonID(pd.ID)],
			References:  pd.References,
			Source:      pd.Source,
		}
		if err := entry.AddPerson(p); err != nil {
			return nil, err
		}
	}
	for _, f := range families {
		if err := entry.AddFamily(f); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func slot(id *int) model.PersonID {
	if id == nil {
		return model.NoPerson
	}
	return model.PersonID(*id)
}

// LoadFile reads, validates and converts the page document at path.
func LoadFile(path string) (*model.Page, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page document: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	page, err := doc.ToPage()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}

// FromPage is the inverse of ToPage.
func FromPage(p *model.Page) *Page {
	doc := &Page{Location: p.Location, Entries: []Entry{}}
	for _, id := range p.EntryIDs() {
		e, _ := p.Entry(id)
		ed := Entry{ID: id, People: []Person{}}
		for _, pid := range e.PersonIDs() {
			person, _ := e.Person(pid)
			ed.People = append(ed.People, Person{
				ID:          int(person.ID),
				UID:         person.UID,
				Given:       person.Name.Given,
				Surname:     person.Name.Surname,
				Prefix:      person.Name.Prefix,
				Suffix:      person.Name.Suffix,
				Birth:       Event(person.Birth),
				Death:       Event(person.Death),
				Christening: Event(person.Christening),
				Burial:      Event(person.Burial),
				References:  person.References,
				Source:      person.Source,
			})
		}
		for _, fid := range e.FamilyIDs() {
			f, _ := e.Family(fid)
			fd := Family{ID: int(f.ID), Father: parentRef(f.Father), Mother: parentRef(f.Mother), Marriage: Event(f.Marriage)}
			for _, c := range f.Children {
				fd.Children = append(fd.Children, int(c))
			}
			ed.Families = append(ed.Families, fd)
		}
		doc.Entries = append(doc.Entries, ed)
	}
	return doc
}

func parentRef(id model.PersonID) *int {
	if id == model.NoPerson {
		return nil
	}
	v := int(id)
	return &v
}

// Encode writes v in the given format.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}
