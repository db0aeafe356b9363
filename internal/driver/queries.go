package driver

// IndexQueries back the lookups of the run archive.
var IndexQueries = []string{
	"CREATE INDEX ON :ComparisonRun(uuid);",
	"CREATE INDEX ON :ComparisonRun(created_at);",
	"CREATE INDEX ON :RegisterPerson(run_uuid);",
}

const (
	SaveRunQuery = `
		MERGE (r:ComparisonRun {uuid: $uuid})
		SET r.first_location = $first_location,
			r.second_location = $second_location,
			r.created_at = $created_at,
			r.total_matches = $total_matches,
			r.precision_rate = $precision_rate,
			r.recall_rate = $recall_rate,
			r.total_errors = $total_errors,
			r.summary = $summary
		RETURN r.uuid AS uuid
	`

	// SavePeopleQuery expects rows of {side, entry_id, person_id, name,
	// relationship, matched}.
	SavePeopleQuery = `
		MATCH (r:ComparisonRun {uuid: $run_uuid})
		UNWIND $people AS row
		CREATE (p:RegisterPerson {
			run_uuid: $run_uuid,
			side: row.side,
			entry_id: row.entry_id,
			person_id: row.person_id,
			name: row.name,
			relationship: row.relationship,
			matched: row.matched
		})
		CREATE (r)-[:HAS_PERSON]->(p)
		RETURN count(p) AS saved
	`

	// SaveMatchesQuery expects rows of {entry_id, person1_id, person2_id,
	// match_type}.
	SaveMatchesQuery = `
		UNWIND $matches AS row
		MATCH (a:RegisterPerson {run_uuid: $run_uuid, side: "first", entry_id: row.entry_id, person_id: row.person1_id})
		MATCH (b:RegisterPerson {run_uuid: $run_uuid, side: "second", entry_id: row.entry_id, person_id: row.person2_id})
		CREATE (a)-[m:MATCHED {type: row.match_type}]->(b)
		RETURN count(m) AS saved
	`

	GetRunQuery = `
		MATCH (r:ComparisonRun {uuid: $uuid})
		RETURN r.uuid AS uuid, r.first_location AS first_location, r.second_location AS second_location,
			r.created_at AS created_at, r.summary AS summary
	`

	ListRunsQuery = `
		MATCH (r:ComparisonRun)
		RETURN r.uuid AS uuid, r.first_location AS first_location, r.second_location AS second_location,
			r.created_at AS created_at, r.summary AS summary
		ORDER BY r.created_at DESC
		LIMIT $limit
	`

	CountMatchesByTypeQuery = `
		MATCH (:ComparisonRun {uuid: $uuid})-[:HAS_PERSON]->(:RegisterPerson)-[m:MATCHED]->(:RegisterPerson)
		RETURN m.type AS type, count(m) AS count
	`

	DeleteRunQuery = `
		MATCH (r:ComparisonRun {uuid: $uuid})
		OPTIONAL MATCH (r)-[:HAS_PERSON]->(p:RegisterPerson)
		DETACH DELETE p, r
	`
)
