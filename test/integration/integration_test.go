//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/regcompare/internal/core"
	"github.com/agenthands/regcompare/internal/core/matcher"
	"github.com/agenthands/regcompare/internal/core/model"
	"github.com/agenthands/regcompare/internal/document"
	"github.com/agenthands/regcompare/internal/driver"
	"github.com/agenthands/regcompare/internal/metrics"
)

func connect(t *testing.T) *driver.MemgraphDriver {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	d, err := driver.NewMemgraphDriver(context.Background(), uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close(context.Background()) })
	require.NoError(t, d.BuildIndices(context.Background()))
	return d
}

func TestArchiveRoundTrip(t *testing.T) {
	d := connect(t)
	ctx := context.Background()

	first, err := document.LoadFile("../../testdata/reference.yaml")
	require.NoError(t, err)
	second, err := document.LoadFile("../../testdata/extracted.json")
	require.NoError(t, err)

	engine := core.NewEngine(d, matcher.DefaultOptions(), metrics.New(), nil)
	runID := "it-" + uuid.New().String()
	engine.UUIDGenerator = func() string { return runID }
	t.Cleanup(func() { _ = engine.DeleteRun(context.Background(), runID) })

	rep, err := engine.Compare(ctx, first, second)
	require.NoError(t, err)
	require.Equal(t, runID, rep.ID)

	run, err := engine.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, rep.FirstLocation, run.FirstLocation)
	assert.Equal(t, rep.Summary.People.TotalMatches, run.Summary.People.TotalMatches)
	assert.Equal(t, rep.Summary.TotalErrors(), run.Summary.TotalErrors())

	counts, err := engine.MatchCounts(ctx, runID)
	require.NoError(t, err)
	for _, mt := range model.MatchTypes {
		assert.Equal(t, rep.Summary.People.ByType[mt], counts[mt], mt)
	}

	runs, err := engine.ListRuns(ctx, 50)
	require.NoError(t, err)
	var found bool
	for _, r := range runs {
		found = found || r.ID == runID
	}
	assert.True(t, found)

	require.NoError(t, engine.DeleteRun(ctx, runID))
	_, err = engine.GetRun(ctx, runID)
	assert.ErrorIs(t, err, core.ErrRunNotFound)
}
