// Package normalize rewrites the unified graph onto canonical structural
// conventions: one recipe class and one direct recipe-to-ingredient link.
// All rewrites are additive. Source triples are never removed, so provenance
// queries against the original vocabularies keep working.
package normalize

import (
	"log/slog"
	"time"

	"github.com/c360studio/recipegraph/config"
	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/vocabulary/food"
	"github.com/c360studio/recipegraph/vocabulary/schemaorg"
	"github.com/c360studio/recipegraph/vocabulary/spoon"
	"github.com/c360studio/recipegraph/vocabulary/standard"
	"github.com/c360studio/recipegraph/vocabulary/unified"
)

// Chain is a recognized two-hop recipe-to-ingredient path. First leads from
// a recipe to an intermediate node, Second from the intermediate to the
// ingredient.
type Chain struct {
	First  string
	Second string
}

// DefaultChains covers the two intermediate-node conventions seen in the
// source datasets: ingredient-line nodes and usage nodes.
func DefaultChains() []Chain {
	return []Chain{
		{First: food.HasIngredient, Second: food.Ingredient},
		{First: spoon.IngredientUsage, Second: spoon.UsesIngredient},
	}
}

// ChainsFromConfig converts configured chains, falling back to the defaults.
func ChainsFromConfig(cfgs []config.ChainConfig) []Chain {
	if len(cfgs) == 0 {
		return DefaultChains()
	}
	chains := make([]Chain, 0, len(cfgs))
	for _, c := range cfgs {
		chains = append(chains, Chain{First: c.First, Second: c.Second})
	}
	return chains
}

// Stats counts what one normalization pass added.
type Stats struct {
	ClassTriples int
	DirectLinks  int
}

// Normalizer applies canonical class and direct-link rewrites in place.
type Normalizer struct {
	chains []Chain
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Normalizer over the given chains.
func New(chains []Chain, logger *slog.Logger) *Normalizer {
	if len(chains) == 0 {
		chains = DefaultChains()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{chains: chains, logger: logger, now: time.Now}
}

// Apply normalizes g in place and returns what was added. Running Apply a
// second time on its own output adds nothing: every rewrite checks for the
// triple it would add.
func (n *Normalizer) Apply(g *graph.Graph) Stats {
	var stats Stats
	stats.ClassTriples = n.addCanonicalClasses(g)
	stats.DirectLinks = n.flattenChains(g)
	n.addMetadata(g)

	n.logger.Info("normalization complete",
		slog.Int("class_triples", stats.ClassTriples),
		slog.Int("direct_links", stats.DirectLinks))
	return stats
}

// addCanonicalClasses asserts the canonical recipe class on every node typed
// with an equivalent source class.
func (n *Normalizer) addCanonicalClasses(g *graph.Graph) int {
	canonical := graph.URI(food.ClassRecipe)
	added := 0
	for _, t := range g.WithPredicate(standard.RdfType) {
		if t.Object.Literal || t.Object.Value != schemaorg.ClassRecipe {
			continue
		}
		if g.Add(graph.Triple{Subject: t.Subject, Predicate: standard.RdfType, Object: canonical}) {
			added++
		}
	}
	return added
}

// flattenChains adds a direct link for every recognized two-hop path. The
// intermediate nodes and their quantity or unit triples stay in the graph.
func (n *Normalizer) flattenChains(g *graph.Graph) int {
	direct := food.Ingredient
	added := 0
	for _, chain := range n.chains {
		seconds := make(map[string][]graph.Object)
		for _, t := range g.WithPredicate(chain.Second) {
			if t.Object.Literal {
				continue
			}
			seconds[t.Subject] = append(seconds[t.Subject], t.Object)
		}
		for _, t := range g.WithPredicate(chain.First) {
			if t.Object.Literal {
				continue
			}
			for _, target := range seconds[t.Object.Value] {
				// A chain whose second hop is already the direct predicate
				// would otherwise re-link the recipe to itself.
				if target.Value == t.Subject {
					continue
				}
				if g.Add(graph.Triple{Subject: t.Subject, Predicate: direct, Object: target}) {
					added++
				}
			}
		}
	}
	return added
}

// addMetadata describes the pass on the normalization activity node. The
// timestamp is written only when the node has none yet, so re-running on
// already normalized data adds nothing.
func (n *Normalizer) addMetadata(g *graph.Graph) {
	subject := unified.NormalizationURI
	g.Add(graph.Triple{Subject: subject, Predicate: standard.RdfType, Object: graph.URI(standard.ProvActivity)})
	g.Add(graph.Triple{Subject: subject, Predicate: standard.RdfsLabel, Object: graph.LangLiteral("Structural normalization", "en")})
	if len(g.Objects(subject, standard.ProvGeneratedAtTime)) > 0 {
		return
	}
	g.Add(graph.Triple{
		Subject:   subject,
		Predicate: standard.ProvGeneratedAtTime,
		Object:    graph.TypedLiteral(n.now().UTC().Format(time.RFC3339), standard.XsdDateTime),
	})
}
