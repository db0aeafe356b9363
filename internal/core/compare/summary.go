package compare

// Summary aggregates the totals of every facet without their detail records.
type Summary struct {
	FirstLocation  string              `json:"first_location" yaml:"first_location"`
	SecondLocation string              `json:"second_location" yaml:"second_location"`
	CommonEntries  int                 `json:"common_entries" yaml:"common_entries"`
	OnlyInFirst    int                 `json:"only_in_first" yaml:"only_in_first"`
	OnlyInSecond   int                 `json:"only_in_second" yaml:"only_in_second"`
	People         PeopleTotals        `json:"people" yaml:"people"`
	References     ReferencesTotals    `json:"references" yaml:"references"`
	Relationships  RelationshipsTotals `json:"relationships" yaml:"relationships"`
	Events         EventsTotals        `json:"events" yaml:"events"`
}

// TotalErrors counts every error record across facets, unmatched persons
// included.
func (s Summary) TotalErrors() int {
	return s.People.UnmatchedFirst + s.People.UnmatchedSecond +
		s.References.RecallErrors + s.References.PrecisionErrors +
		s.Relationships.RecallErrors +
		s.Events.RecallErrors + s.Events.PrecisionErrors
}

func (c *Comparer) Summary() Summary {
	return Summary{
		FirstLocation:  c.first.Location,
		SecondLocation: c.second.Location,
		CommonEntries:  len(c.entries.Common),
		OnlyInFirst:    len(c.entries.OnlyInFirst),
		OnlyInSecond:   len(c.entries.OnlyInSecond),
		People:         c.ComparePeople().PeopleTotals,
		References:     c.CompareReferences().ReferencesTotals,
		Relationships:  c.CompareRelationships().RelationshipsTotals,
		Events:         c.CompareEvents().EventsTotals,
	}
}
