package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/regcompare/internal/core/compare"
)

func sample(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("MEMGRAPH_URI", "")
	compareOutput, compareSummary, compareArchive, compareThreshold = "yaml", false, false, 0
	compareCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCompareCommand_SummaryJSON(t *testing.T) {
	out, err := run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "--summary", "-o", "json")
	require.NoError(t, err)

	var s compare.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 2, s.CommonEntries)
	assert.Equal(t, 1, s.OnlyInFirst)
	assert.Equal(t, 4, s.People.TotalMatches)
	assert.Equal(t, 1, s.Events.RecallErrors)
}

func TestCompareCommand_FullYAML(t *testing.T) {
	out, err := run(t, "compare", sample("reference.yaml"), sample("extracted.toml"))
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Contains(t, rep, "people")
	assert.Contains(t, rep, "summary")
	assert.Equal(t, "LVVA 235-1-12, page 41 (transcription)", rep["first_location"])
}

func TestCompareCommand_Errors(t *testing.T) {
	_, err := run(t, "compare", sample("reference.yaml"))
	assert.Error(t, err)

	_, err = run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = run(t, "compare", sample("reference.yaml"), sample("missing.json"))
	assert.Error(t, err)

	_, err = run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "--threshold", "2")
	assert.ErrorContains(t, err, "similarity_threshold")

	_, err = run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "--archive")
	assert.ErrorContains(t, err, "no memgraph uri")
}

func TestCompareCommand_ExplicitThresholdIsValidated(t *testing.T) {
	for _, v := range []string{"0", "-0.5"} {
		_, err := run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "--threshold", v)
		assert.ErrorContains(t, err, "similarity_threshold", "threshold %s", v)
	}

	out, err := run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "-s", "-o", "json", "--threshold", "1")
	require.NoError(t, err)
	var s compare.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 0, s.People.ByType["similar_name"])

	_, err = run(t, "compare", sample("reference.yaml"), sample("extracted.json"), "-s")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "regcompare "+Version+"\n", out)
}

func TestRunsRequireArchive(t *testing.T) {
	_, err := run(t, "runs", "list")
	assert.ErrorContains(t, err, "no memgraph uri")
}
