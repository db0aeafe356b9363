package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type MockCall struct {
	Query  string
	Params map[string]any
}

// MockDriver records every query. Results are served per query from
// Results, falling back to MockResult.
type MockDriver struct {
	Calls      []MockCall
	Results    map[string]neo4j.EagerResult
	MockResult neo4j.EagerResult
	Err        error
	// FailOn makes only the named query fail with Err.
	FailOn  string
	Indexed bool
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Calls = append(m.Calls, MockCall{Query: query, Params: params})
	if m.Err != nil && (m.FailOn == "" || m.FailOn == query) {
		return neo4j.EagerResult{}, m.Err
	}
	if r, ok := m.Results[query]; ok {
		return r, nil
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.Indexed = true
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}
