package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/loader"
	"github.com/c360studio/recipegraph/vocabulary/standard"
	"github.com/c360studio/recipegraph/vocabulary/unified"
)

func fixedMerger() *Merger {
	m := New(nil)
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	m.newID = func() string { return "run-1" }
	return m
}

func sourceGraph(triples ...graph.Triple) *graph.Graph {
	g := graph.New()
	for _, t := range triples {
		g.Add(t)
	}
	return g
}

func uriTriple(s, p, o string) graph.Triple {
	return graph.Triple{Subject: s, Predicate: p, Object: graph.URI(o)}
}

func TestMergeUnionsDistinctTriples(t *testing.T) {
	a := sourceGraph(
		uriTriple("http://example.org/r1", "http://example.org/p", "http://example.org/o1"),
		uriTriple("http://example.org/shared", "http://example.org/p", "http://example.org/o"),
	)
	b := sourceGraph(
		uriTriple("http://example.org/r2", "http://example.org/p", "http://example.org/o2"),
		uriTriple("http://example.org/shared", "http://example.org/p", "http://example.org/o"),
	)

	result, err := fixedMerger().Merge([]loader.TaggedGraph{
		{Source: loader.SourceMealDB, Graph: a},
		{Source: loader.SourceRecipesNLG, Graph: b},
	})
	require.NoError(t, err)

	// 3 distinct data triples; the rest is the dataset description.
	dataTriples := 0
	for _, tr := range result.Unified.Triples() {
		if tr.Subject == "http://example.org/r1" ||
			tr.Subject == "http://example.org/r2" ||
			tr.Subject == "http://example.org/shared" {
			dataTriples++
		}
	}
	assert.Equal(t, 3, dataTriples)
	assert.Equal(t, 2, result.Provenance.Counts[loader.SourceMealDB])
	assert.Equal(t, 2, result.Provenance.Counts[loader.SourceRecipesNLG])
}

func TestMergeNeverDropsInputTriples(t *testing.T) {
	a := sourceGraph(
		uriTriple("http://example.org/r1", "http://example.org/p", "http://example.org/o1"),
	)
	b := sourceGraph(
		graph.Triple{Subject: "http://example.org/r1", Predicate: "http://example.org/p", Object: graph.Literal("o1")},
	)

	result, err := fixedMerger().Merge([]loader.TaggedGraph{
		{Source: loader.SourceMealDB, Graph: a},
		{Source: loader.SourceRecipesNLG, Graph: b},
	})
	require.NoError(t, err)

	for _, in := range []*graph.Graph{a, b} {
		for _, tr := range in.Triples() {
			assert.True(t, result.Unified.Has(tr), "missing %v", tr)
		}
	}
}

func TestMergePreservesLiteralDistinctions(t *testing.T) {
	// Literals differing only in case are distinct triples; conflating them
	// is the linkage engine's job, not the merger's.
	a := sourceGraph(graph.Triple{
		Subject: "http://example.org/i1", Predicate: standard.RdfsLabel, Object: graph.Literal("Sugar"),
	})
	b := sourceGraph(graph.Triple{
		Subject: "http://example.org/i1", Predicate: standard.RdfsLabel, Object: graph.Literal("sugar"),
	})

	result, err := fixedMerger().Merge([]loader.TaggedGraph{
		{Source: loader.SourceMealDB, Graph: a},
		{Source: loader.SourceRecipesNLG, Graph: b},
	})
	require.NoError(t, err)

	labels := result.Unified.Objects("http://example.org/i1", standard.RdfsLabel)
	assert.Len(t, labels, 2)
}

func TestMergeIsIdempotentModuloTimestamp(t *testing.T) {
	input := func() []loader.TaggedGraph {
		return []loader.TaggedGraph{{
			Source: loader.SourceMealDB,
			Graph: sourceGraph(
				uriTriple("http://example.org/r1", "http://example.org/p", "http://example.org/o1"),
			),
		}}
	}

	first, err := fixedMerger().Merge(input())
	require.NoError(t, err)
	second, err := fixedMerger().Merge(input())
	require.NoError(t, err)

	assert.Equal(t, first.Unified.Triples(), second.Unified.Triples())
}

func TestMergeProvenanceTriples(t *testing.T) {
	result, err := fixedMerger().Merge([]loader.TaggedGraph{{
		Source: loader.SourceSpoonacular,
		Graph: sourceGraph(
			uriTriple("http://example.org/r1", "http://example.org/p", "http://example.org/o1"),
		),
	}})
	require.NoError(t, err)

	g := result.Unified
	ds := unified.DatasetURI
	assert.True(t, g.Has(graph.Triple{Subject: ds, Predicate: standard.RdfType, Object: graph.URI(standard.OwlOntology)}))
	assert.True(t, g.Has(graph.Triple{Subject: ds, Predicate: standard.RdfType, Object: graph.URI(standard.VoidDataset)}))
	assert.True(t, g.Has(graph.Triple{Subject: ds, Predicate: standard.DcIdentifier, Object: graph.Literal("run-1")}))
	assert.True(t, g.Has(graph.Triple{
		Subject:   ds,
		Predicate: standard.DcCreated,
		Object:    graph.TypedLiteral("2026-01-02T03:04:05Z", standard.XsdDateTime),
	}))

	srcDS := unified.SourceDatasetURI("spoonacular")
	assert.True(t, g.Has(graph.Triple{Subject: ds, Predicate: standard.ProvWasDerivedFrom, Object: graph.URI(srcDS)}))
	assert.True(t, g.Has(graph.Triple{Subject: ds, Predicate: standard.VoidSubset, Object: graph.URI(srcDS)}))
	assert.True(t, g.Has(graph.Triple{
		Subject:   srcDS,
		Predicate: standard.VoidTriples,
		Object:    graph.TypedLiteral("1", standard.XsdInteger),
	}))
}

func TestMergeRejectsEmptyInput(t *testing.T) {
	_, err := fixedMerger().Merge(nil)
	assert.Error(t, err)
}

func TestMergeRejectsNilGraph(t *testing.T) {
	_, err := fixedMerger().Merge([]loader.TaggedGraph{{Source: loader.SourceMealDB}})
	assert.Error(t, err)
}
