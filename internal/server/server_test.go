package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/regcompare/internal/core"
	"github.com/agenthands/regcompare/internal/core/compare"
	"github.com/agenthands/regcompare/internal/core/matcher"
	"github.com/agenthands/regcompare/internal/document"
	"github.com/agenthands/regcompare/internal/driver"
	"github.com/agenthands/regcompare/internal/metrics"
)

// stubDriver answers every query with an empty result.
type stubDriver struct {
	queries []string
}

func (d *stubDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	d.queries = append(d.queries, query)
	return neo4j.EagerResult{}, nil
}

func (d *stubDriver) BuildIndices(ctx context.Context) error { return nil }
func (d *stubDriver) Close(ctx context.Context) error        { return nil }

func setup(t *testing.T, drv driver.GraphDriver) (*gin.Engine, *metrics.Collector) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	engine := core.NewEngine(drv, matcher.DefaultOptions(), m, nil)
	return NewServer(engine, m, nil).SetupRouter(), m
}

func loadDoc(t *testing.T, name string) *document.Page {
	path := filepath.Join("..", "..", "testdata", name)
	format, err := document.FormatOf(path)
	require.NoError(t, err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := document.Decode(f, format)
	require.NoError(t, err)
	return doc
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := setup(t, nil)

	w := do(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","archive":false}`, w.Body.String())
}

func TestCompare(t *testing.T) {
	r, _ := setup(t, nil)
	req := CompareRequest{First: loadDoc(t, "reference.yaml"), Second: loadDoc(t, "extracted.json")}

	w := do(r, http.MethodPost, "/compare", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rep compare.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, []string{"1", "2"}, rep.Entries.Common)
	assert.Equal(t, 4, rep.People.TotalMatches)
	assert.Equal(t, 1, rep.References.PrecisionErrors)
	assert.Equal(t, rep.People.PeopleTotals, rep.Summary.People)
}

func TestCompare_SummaryView(t *testing.T) {
	r, _ := setup(t, nil)
	req := CompareRequest{First: loadDoc(t, "reference.yaml"), Second: loadDoc(t, "extracted.json")}

	w := do(r, http.MethodPost, "/compare?view=summary", req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ID      string          `json:"id"`
		Summary compare.Summary `json:"summary"`
		People  json.RawMessage `json:"people"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, 2, body.Summary.CommonEntries)
	assert.Nil(t, body.People)
}

func TestCompare_BadRequests(t *testing.T) {
	r, _ := setup(t, nil)

	w := do(r, http.MethodPost, "/compare", map[string]any{"first": nil})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	invalid := CompareRequest{
		First:  &document.Page{Entries: []document.Entry{{ID: "1"}}},
		Second: loadDoc(t, "extracted.json"),
	}
	w = do(r, http.MethodPost, "/compare", invalid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "first:")
}

func TestCompare_Archives(t *testing.T) {
	drv := &stubDriver{}
	r, _ := setup(t, drv)
	req := CompareRequest{First: loadDoc(t, "reference.yaml"), Second: loadDoc(t, "extracted.json")}

	w := do(r, http.MethodPost, "/compare", req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Archive-Status"))
	assert.Equal(t, []string{driver.SaveRunQuery, driver.SavePeopleQuery, driver.SaveMatchesQuery}, drv.queries)
}

func TestRuns(t *testing.T) {
	r, _ := setup(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/runs", nil).Code)

	r, _ = setup(t, &stubDriver{})
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/runs/missing", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/runs/missing", nil).Code)

	w := do(r, http.MethodGet, "/runs?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs":[]}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setup(t, nil)
	req := CompareRequest{First: loadDoc(t, "reference.yaml"), Second: loadDoc(t, "extracted.json")}
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/compare", req).Code)

	w := do(r, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `regcompare_runs_total{outcome="ok"} 1`)
}
