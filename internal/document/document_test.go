package document

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/regcompare/internal/core/model"
)

func sample(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":    FormatJSON,
		"a.YAML":    FormatYAML,
		"dir/a.yml": FormatYAML,
		"a.toml":    FormatTOML,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("page.xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile_YAML(t *testing.T) {
	page, err := LoadFile(sample("reference.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, page.EntryIDs())
	e, ok := page.Entry("1")
	require.True(t, ok)
	john, _ := e.Person(1)
	assert.Equal(t, "John Doe", john.Name.String())
	assert.Equal(t, model.Event{Date: "3 MAR 1845", Place: "Riga"}, john.Birth)
	assert.Equal(t, []string{"A", "B"}, john.References)
	assert.Equal(t, []model.FamilyID{1}, john.FamilyIDs)

	fam, _ := e.Family(1)
	assert.Equal(t, []model.PersonID{3, 4}, fam.Children)
	assert.Equal(t, "12 JUN 1870", fam.Marriage.Date)
}

func TestLoadFile_JSON(t *testing.T) {
	page, err := LoadFile(sample("extracted.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "4"}, page.EntryIDs())
	assert.Len(t, page.AllPeople(), 6)
}

func TestLoadFile_TOMLMissingParent(t *testing.T) {
	page, err := LoadFile(sample("extracted.toml"))
	require.NoError(t, err)

	e, ok := page.Entry("5")
	require.True(t, ok)
	f, _ := e.Family(1)
	assert.Equal(t, model.NoPerson, f.Father)
	assert.Equal(t, model.PersonID(1), f.Mother)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"location":"x","entries":[],"extra":1}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("location: x\nentries: []\nextra: 1\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestToPage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  Page
	}{
		{"missing location", Page{Entries: []Entry{{ID: "1"}}}},
		{"missing entry id", Page{Location: "x", Entries: []Entry{{}}}},
		{"negative person id", Page{Location: "x", Entries: []Entry{{ID: "1", People: []Person{{ID: -3}}}}}},
		{"empty reference", Page{Location: "x", Entries: []Entry{{ID: "1", People: []Person{{ID: 1, References: []string{""}}}}}}},
		{"duplicate person", Page{Location: "x", Entries: []Entry{{ID: "1", People: []Person{{ID: 1}, {ID: 1}}}}}},
		{"duplicate entry", Page{Location: "x", Entries: []Entry{{ID: "1"}, {ID: "1"}}}},
		{"dangling child", Page{Location: "x", Entries: []Entry{{
			ID:       "1",
			People:   []Person{{ID: 1}},
			Families: []Family{{ID: 1, Father: ptr(1), Children: []int{2}}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.ToPage()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func ptr(v int) *int { return &v }

func TestFromPage_RoundTrip(t *testing.T) {
	page, err := LoadFile(sample("reference.yaml"))
	require.NoError(t, err)

	back, err := FromPage(page).ToPage()
	require.NoError(t, err)
	assert.Equal(t, page.AllPeople(), back.AllPeople())
	assert.Equal(t, page.Location, back.Location)
}

func TestEncode(t *testing.T) {
	v := map[string]int{"matches": 4}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, v))
	var fromJSON map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, v, fromJSON)

	buf.Reset()
	require.NoError(t, Encode(&buf, FormatYAML, v))
	var fromYAML map[string]int
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, v, fromYAML)

	assert.ErrorIs(t, Encode(&buf, Format("xml"), v), ErrUnknownFormat)
}
