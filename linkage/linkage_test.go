package linkage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/recipegraph/extract"
	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/loader"
	"github.com/c360studio/recipegraph/vocabulary/standard"
)

func record(uri string, source loader.SourceTag, label string) extract.LabelRecord {
	return extract.LabelRecord{
		URI:    uri,
		Source: source,
		Kind:   extract.KindIngredient,
		Label:  label,
		Key:    extract.NormalizeKey(label),
	}
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg, nil)
	require.NoError(t, err)
	return e
}

func mappingFor(result *Result, uri string) (Mapping, bool) {
	for _, m := range result.Mappings {
		if m.Subject == uri || m.Object == uri {
			return m, true
		}
	}
	return Mapping{}, false
}

func TestExactMatchAcrossSources(t *testing.T) {
	records := []extract.LabelRecord{
		record("http://a.example/sugar", loader.SourceMealDB, "Brown Sugar"),
		record("http://b.example/sugar", loader.SourceRecipesNLG, "sugar, brown"),
	}

	result, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Mappings, 1)
	m := result.Mappings[0]
	assert.Equal(t, MatchExact, m.Kind)
	assert.Equal(t, standard.OwlSameAs, m.Predicate)
	assert.Equal(t, 1.0, m.Similarity)
	// Subject/object are ordered lexicographically, independent of input order.
	assert.Equal(t, "http://a.example/sugar", m.Subject)
	assert.Equal(t, "http://b.example/sugar", m.Object)
}

func TestExactMatchIsDirectionIndependent(t *testing.T) {
	forward := []extract.LabelRecord{
		record("http://a.example/salt", loader.SourceMealDB, "Salt"),
		record("http://b.example/salt", loader.SourceRecipesNLG, "salt"),
	}
	reversed := []extract.LabelRecord{forward[1], forward[0]}

	e := newEngine(t, Config{Cutoff: 0.2})
	r1, err := e.Link(context.Background(), forward)
	require.NoError(t, err)
	r2, err := e.Link(context.Background(), reversed)
	require.NoError(t, err)

	assert.Equal(t, r1.Mappings, r2.Mappings)
}

func TestSameSourceNeverMatches(t *testing.T) {
	records := []extract.LabelRecord{
		record("http://a.example/sugar1", loader.SourceMealDB, "Sugar"),
		record("http://a.example/sugar2", loader.SourceMealDB, "Sugar"),
	}

	result, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, result.Mappings)
}

func TestFuzzyCutoffBoundary(t *testing.T) {
	// Keys "abcde" and "abcdX" have distance 1 over length 5 = 0.2.
	records := []extract.LabelRecord{
		record("http://a.example/1", loader.SourceMealDB, "abcde"),
		record("http://b.example/1", loader.SourceRecipesNLG, "abcdx"),
	}

	// Exactly on the cutoff: candidate (boundary is inclusive).
	onBoundary, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, onBoundary.Mappings, 1)
	assert.Equal(t, MatchFuzzy, onBoundary.Mappings[0].Kind)
	assert.InDelta(t, 0.8, onBoundary.Mappings[0].Similarity, 1e-9)

	// Just under the ratio: no candidate.
	below, err := newEngine(t, Config{Cutoff: 0.19}).Link(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, below.Mappings)
}

func TestFuzzyDisabledAtZeroCutoff(t *testing.T) {
	records := []extract.LabelRecord{
		record("http://a.example/1", loader.SourceMealDB, "abcde"),
		record("http://b.example/1", loader.SourceRecipesNLG, "abcdx"),
	}

	result, err := newEngine(t, Config{Cutoff: 0}).Link(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, result.Mappings)
}

func TestThreeSourceLinkScenario(t *testing.T) {
	// Two sources agree on the normalized key; the third carries a typo
	// within the fuzzy cutoff. All three end up linked.
	records := []extract.LabelRecord{
		record("http://a.example/brown-sugar", loader.SourceMealDB, "Brown Sugar"),
		record("http://b.example/sugar_brown", loader.SourceRecipesNLG, "sugar, brown"),
		record("http://c.example/brownsugar", loader.SourceSpoonacular, "Browns ugar"),
	}

	result, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)

	require.Equal(t, 1, result.Stats.ExactCandidates)
	assert.GreaterOrEqual(t, result.Stats.FuzzyCandidates, 1)

	exactFound, fuzzyToC := false, 0
	for _, m := range result.Mappings {
		switch m.Kind {
		case MatchExact:
			exactFound = true
		case MatchFuzzy:
			if m.Subject == "http://c.example/brownsugar" || m.Object == "http://c.example/brownsugar" {
				fuzzyToC++
			}
			assert.Equal(t, standard.SkosCloseMatch, m.Predicate)
		}
	}
	assert.True(t, exactFound)
	assert.GreaterOrEqual(t, fuzzyToC, 1)
}

func TestAcceptanceKeepsBestPerOpposingSource(t *testing.T) {
	// Two fuzzy candidates from the same opposing source compete for one
	// record; only the higher similarity survives.
	records := []extract.LabelRecord{
		record("http://a.example/target", loader.SourceMealDB, "abcdef"),
		record("http://b.example/near", loader.SourceRecipesNLG, "abcdex"),
		record("http://b.example/far", loader.SourceRecipesNLG, "abcdxx"),
	}

	result, err := newEngine(t, Config{Cutoff: 0.4}).Link(context.Background(), records)
	require.NoError(t, err)

	m, ok := mappingFor(result, "http://a.example/target")
	require.True(t, ok)
	other := m.Subject
	if other == "http://a.example/target" {
		other = m.Object
	}
	assert.Equal(t, "http://b.example/near", other)

	// The far candidate found no remaining slot with the mealdb source.
	for _, mp := range result.Mappings {
		assert.NotEqual(t, "http://b.example/far", mp.Subject)
		assert.NotEqual(t, "http://b.example/far", mp.Object)
	}
}

func TestTieBreakByURIOrder(t *testing.T) {
	// Two candidates with identical similarity and key lengths; the pair
	// with the lexicographically smaller URIs wins the slot.
	records := []extract.LabelRecord{
		record("http://a.example/target", loader.SourceMealDB, "abcde"),
		record("http://b.example/x1", loader.SourceRecipesNLG, "abcdx"),
		record("http://b.example/x2", loader.SourceRecipesNLG, "abcdy"),
	}

	result, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Mappings, 1)
	assert.Equal(t, "http://a.example/target", result.Mappings[0].Subject)
	assert.Equal(t, "http://b.example/x1", result.Mappings[0].Object)
}

func TestEmptyKeysAreExcluded(t *testing.T) {
	records := []extract.LabelRecord{
		{URI: "http://a.example/1", Source: loader.SourceMealDB, Label: "---", Key: ""},
		{URI: "http://b.example/1", Source: loader.SourceRecipesNLG, Label: "***", Key: ""},
	}

	result, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)
	assert.Empty(t, result.Mappings)
	assert.Equal(t, 0, result.Stats.Records)
}

func TestOverridesClaimSlotsFirst(t *testing.T) {
	records := []extract.LabelRecord{
		record("http://a.example/clove", loader.SourceMealDB, "clove"),
		record("http://b.example/close", loader.SourceRecipesNLG, "close"),
		record("http://b.example/glove", loader.SourceRecipesNLG, "glove"),
	}

	result, err := newEngine(t, Config{
		Cutoff: 0.2,
		Overrides: []Override{
			{A: "http://a.example/clove", B: "http://b.example/glove"},
		},
	}).Link(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Overrides)

	m, ok := mappingFor(result, "http://a.example/clove")
	require.True(t, ok)
	assert.Equal(t, MatchOverride, m.Kind)
	assert.Equal(t, standard.OwlSameAs, m.Predicate)
	assert.Equal(t, "http://b.example/glove", m.Object)

	// The fuzzy candidate for "close" lost its slot to the override.
	for _, mp := range result.Mappings {
		assert.NotEqual(t, "http://b.example/close", mp.Subject)
		assert.NotEqual(t, "http://b.example/close", mp.Object)
	}
}

func TestMappingGraph(t *testing.T) {
	records := []extract.LabelRecord{
		record("http://a.example/salt", loader.SourceMealDB, "Salt"),
		record("http://b.example/salt", loader.SourceRecipesNLG, "salt"),
	}

	result, err := newEngine(t, Config{Cutoff: 0.2}).Link(context.Background(), records)
	require.NoError(t, err)

	g := result.MappingGraph()
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(graph.Triple{
		Subject:   "http://a.example/salt",
		Predicate: standard.OwlSameAs,
		Object:    graph.URI("http://b.example/salt"),
	}))
}

func TestInvalidCutoffRejected(t *testing.T) {
	_, err := New(Config{Cutoff: 1.5}, nil)
	assert.Error(t, err)
	_, err = New(Config{Cutoff: -0.1}, nil)
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`pairs:
  - a: http://a.example/clove
    b: http://b.example/glove
`), 0o644))

	pairs, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "http://a.example/clove", pairs[0].A)

	// Missing file is not an error.
	pairs, err = LoadOverrides(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, pairs)

	// Self-mapping pairs are rejected.
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`pairs:
  - a: http://a.example/x
    b: http://a.example/x
`), 0o644))
	_, err = LoadOverrides(bad)
	assert.Error(t, err)
}
