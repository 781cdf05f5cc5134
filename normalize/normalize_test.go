package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/recipegraph/config"
	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/vocabulary/food"
	"github.com/c360studio/recipegraph/vocabulary/schemaorg"
	"github.com/c360studio/recipegraph/vocabulary/spoon"
	"github.com/c360studio/recipegraph/vocabulary/standard"
	"github.com/c360studio/recipegraph/vocabulary/unified"
)

func uriTriple(s, p, o string) graph.Triple {
	return graph.Triple{Subject: s, Predicate: p, Object: graph.URI(o)}
}

func TestAddsCanonicalRecipeClass(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", standard.RdfType, schemaorg.ClassRecipe))
	g.Add(uriTriple("http://example.org/r2", standard.RdfType, food.ClassRecipe))

	stats := New(nil, nil).Apply(g)

	assert.Equal(t, 1, stats.ClassTriples)
	assert.True(t, g.Has(uriTriple("http://example.org/r1", standard.RdfType, food.ClassRecipe)))
	// The source class assertion is kept.
	assert.True(t, g.Has(uriTriple("http://example.org/r1", standard.RdfType, schemaorg.ClassRecipe)))
}

func TestFlattensIngredientLineChain(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", standard.RdfType, food.ClassRecipe))
	g.Add(uriTriple("http://example.org/r1", food.HasIngredient, "http://example.org/line1"))
	g.Add(uriTriple("http://example.org/line1", food.Ingredient, "http://example.org/flour"))
	g.Add(graph.Triple{
		Subject:   "http://example.org/line1",
		Predicate: food.Quantity,
		Object:    graph.Literal("2 cups"),
	})

	stats := New(nil, nil).Apply(g)

	assert.Equal(t, 1, stats.DirectLinks)
	assert.True(t, g.Has(uriTriple("http://example.org/r1", food.Ingredient, "http://example.org/flour")))
	// The original chain survives, quantity context included.
	assert.True(t, g.Has(uriTriple("http://example.org/r1", food.HasIngredient, "http://example.org/line1")))
	assert.True(t, g.Has(uriTriple("http://example.org/line1", food.Ingredient, "http://example.org/flour")))
	assert.Len(t, g.Objects("http://example.org/line1", food.Quantity), 1)
}

func TestFlattensUsageNodeChain(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", standard.RdfType, schemaorg.ClassRecipe))
	g.Add(uriTriple("http://example.org/r1", spoon.IngredientUsage, "http://example.org/u1"))
	g.Add(uriTriple("http://example.org/u1", spoon.UsesIngredient, "http://example.org/leek"))

	stats := New(nil, nil).Apply(g)

	assert.Equal(t, 1, stats.DirectLinks)
	assert.True(t, g.Has(uriTriple("http://example.org/r1", food.Ingredient, "http://example.org/leek")))
}

func TestApplyIsIdempotent(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", standard.RdfType, schemaorg.ClassRecipe))
	g.Add(uriTriple("http://example.org/r1", food.HasIngredient, "http://example.org/line1"))
	g.Add(uriTriple("http://example.org/line1", food.Ingredient, "http://example.org/flour"))

	n := New(nil, nil)
	first := n.Apply(g)
	require.Equal(t, 1, first.ClassTriples)
	require.Equal(t, 1, first.DirectLinks)
	lenAfterFirst := g.Len()

	second := n.Apply(g)
	assert.Equal(t, 0, second.ClassTriples)
	assert.Equal(t, 0, second.DirectLinks)
	assert.Equal(t, lenAfterFirst, g.Len())
}

func TestApplyAddsNothingWhenClockAdvances(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", standard.RdfType, schemaorg.ClassRecipe))
	g.Add(uriTriple("http://example.org/r1", food.HasIngredient, "http://example.org/line1"))
	g.Add(uriTriple("http://example.org/line1", food.Ingredient, "http://example.org/flour"))

	n := New(nil, nil)
	tick := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	n.Apply(g)
	lenAfterFirst := g.Len()
	stamped := g.Objects(unified.NormalizationURI, standard.ProvGeneratedAtTime)
	require.Len(t, stamped, 1)

	n.Apply(g)
	assert.Equal(t, lenAfterFirst, g.Len())
	// The node keeps its first timestamp instead of accumulating one per pass.
	assert.Equal(t, stamped, g.Objects(unified.NormalizationURI, standard.ProvGeneratedAtTime))
}

func TestDirectLinkAlreadyPresent(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", food.HasIngredient, "http://example.org/line1"))
	g.Add(uriTriple("http://example.org/line1", food.Ingredient, "http://example.org/flour"))
	// The direct link already exists.
	g.Add(uriTriple("http://example.org/r1", food.Ingredient, "http://example.org/flour"))

	stats := New(nil, nil).Apply(g)
	assert.Equal(t, 0, stats.DirectLinks)
}

func TestChainsFromConfig(t *testing.T) {
	chains := ChainsFromConfig(nil)
	require.Len(t, chains, 2)
	assert.Equal(t, food.HasIngredient, chains[0].First)
	assert.Equal(t, spoon.UsesIngredient, chains[1].Second)

	custom := ChainsFromConfig([]config.ChainConfig{
		{First: "http://example.org/uses", Second: "http://example.org/of"},
	})
	require.Len(t, custom, 1)
	assert.Equal(t, "http://example.org/uses", custom[0].First)
}

func TestMetadataTriples(t *testing.T) {
	g := graph.New()
	g.Add(uriTriple("http://example.org/r1", standard.RdfType, schemaorg.ClassRecipe))

	New(nil, nil).Apply(g)

	subjects := g.SubjectsOfClass(standard.RdfType, standard.ProvActivity)
	require.Len(t, subjects, 1)
	assert.NotEmpty(t, g.Objects(subjects[0], standard.ProvGeneratedAtTime))
}
