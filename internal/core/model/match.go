package model

// MatchType names the matcher pass that paired two persons, strongest first.
type MatchType string

const (
	MatchExactName           MatchType = "exact_name"
	MatchEventReference      MatchType = "event_reference"
	MatchRelationshipSimilar MatchType = "relationship_similar"
	MatchSimilarName         MatchType = "similar_name"
)

// MatchTypes lists every match type in pass order.
var MatchTypes = []MatchType{
	MatchExactName,
	MatchEventReference,
	MatchRelationshipSimilar,
	MatchSimilarName,
}

// Precise reports whether the pairing rests on an exact name.
func (t MatchType) Precise() bool {
	return t == MatchExactName
}

type MatchRecord struct {
	Person1ID   PersonID  `json:"person1_id" yaml:"person1_id"`
	Person2ID   PersonID  `json:"person2_id" yaml:"person2_id"`
	Person1Name string    `json:"person1_name" yaml:"person1_name"`
	Person2Name string    `json:"person2_name" yaml:"person2_name"`
	MatchType   MatchType `json:"match_type" yaml:"match_type"`
}
