// Package extract walks tagged source graphs and produces the flat label
// records the linkage engine matches on. Each source encodes
// "recipe has ingredient" through its own predicate chain; the extractor
// dispatches over a closed set of pattern variants, one per known idiom.
// Adding a source means adding a variant, never guessing.
package extract

import (
	"log/slog"

	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/loader"
	"github.com/c360studio/recipegraph/vocabulary/food"
	"github.com/c360studio/recipegraph/vocabulary/schemaorg"
	"github.com/c360studio/recipegraph/vocabulary/spoon"
	"github.com/c360studio/recipegraph/vocabulary/standard"
)

// Kind distinguishes what a label record denotes.
type Kind string

const (
	// KindIngredient marks ingredient labels.
	KindIngredient Kind = "ingredient"

	// KindRecipe marks recipe titles.
	KindRecipe Kind = "recipe"
)

// LabelRecord carries one labeled entity from one source. The record is
// derived and recomputable; it is never persisted. Key is the normalized
// form of Label used for matching (see NormalizeKey).
type LabelRecord struct {
	URI    string
	Source loader.SourceTag
	Kind   Kind
	Label  string
	Key    string
}

// Pattern is a recognized per-source structural idiom.
type Pattern string

const (
	// PatternDirect: recipes typed schema:Recipe with direct
	// food:ingredient links (MealDB conversion).
	PatternDirect Pattern = "direct"

	// PatternIngredientLine: recipe -> food:hasIngredient -> line ->
	// food:ingredient -> ingredient (RecipesNLG conversion).
	PatternIngredientLine Pattern = "ingredient-line"

	// PatternUsageNode: recipe -> spoon:ingredientUsage -> usage ->
	// spoon:usesIngredient -> ingredient (Spoonacular conversion).
	PatternUsageNode Pattern = "usage-node"
)

// Stats counts soft failures during extraction. A label-less entity is
// skipped and tallied, never an error.
type Stats struct {
	Ingredients int
	Recipes     int
	Skipped     int
}

// Extractor produces label records from tagged graphs.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract walks one tagged source graph with its pattern and returns the
// label records found. The result is a set keyed by (URI, kind): extraction
// order never changes its contents, and the returned slice order (first-seen)
// exists only for stable tie-breaking downstream.
func (e *Extractor) Extract(in loader.TaggedGraph, pattern Pattern) ([]LabelRecord, Stats) {
	var records []LabelRecord
	var stats Stats
	seen := make(map[string]struct{})

	add := func(uri string, kind Kind, label string) {
		key := NormalizeKey(label)
		if label == "" || key == "" {
			stats.Skipped++
			return
		}
		dedupeKey := string(kind) + "\x00" + uri
		if _, ok := seen[dedupeKey]; ok {
			return
		}
		seen[dedupeKey] = struct{}{}
		records = append(records, LabelRecord{
			URI:    uri,
			Source: in.Source,
			Kind:   kind,
			Label:  label,
			Key:    key,
		})
		if kind == KindIngredient {
			stats.Ingredients++
		} else {
			stats.Recipes++
		}
	}

	g := in.Graph
	labels := labelIndex(g)

	for _, uri := range ingredientNodes(g, pattern) {
		add(uri, KindIngredient, labels[uri])
	}
	for _, uri := range recipeNodes(g, pattern) {
		add(uri, KindRecipe, labels[uri])
	}

	e.logger.Debug("extracted labels",
		slog.String("source", string(in.Source)),
		slog.String("pattern", string(pattern)),
		slog.Int("ingredients", stats.Ingredients),
		slog.Int("recipes", stats.Recipes),
		slog.Int("skipped", stats.Skipped))

	return records, stats
}

// labelIndex maps each subject to its best display label: schema:name wins
// over skos:prefLabel over rdfs:label, first occurrence within a predicate.
func labelIndex(g *graph.Graph) map[string]string {
	index := make(map[string]string)
	rank := make(map[string]int)
	pick := func(predicate string, priority int) {
		for _, t := range g.WithPredicate(predicate) {
			if !t.Object.Literal {
				continue
			}
			if current, ok := rank[t.Subject]; ok && current <= priority {
				continue
			}
			index[t.Subject] = t.Object.Value
			rank[t.Subject] = priority
		}
	}
	pick(schemaorg.Name, 0)
	pick(standard.SkosPrefLabel, 1)
	pick(standard.RdfsLabel, 2)
	return index
}

// ingredientNodes locates ingredient URIs for a pattern. Explicit
// food:Ingredient typings are honored for every pattern; the chain terminal
// objects cover sources whose converters skipped the class assertion.
func ingredientNodes(g *graph.Graph, pattern Pattern) []string {
	var out []string
	seen := make(map[string]struct{})
	collect := func(uri string) {
		if _, ok := seen[uri]; ok {
			return
		}
		seen[uri] = struct{}{}
		out = append(out, uri)
	}

	for _, uri := range g.SubjectsOfClass(standard.RdfType, food.ClassIngredient) {
		collect(uri)
	}

	switch pattern {
	case PatternDirect:
		for _, t := range g.WithPredicate(food.Ingredient) {
			if !t.Object.Literal {
				collect(t.Object.Value)
			}
		}
	case PatternIngredientLine:
		lines := make(map[string]struct{})
		for _, t := range g.WithPredicate(food.HasIngredient) {
			if !t.Object.Literal {
				lines[t.Object.Value] = struct{}{}
			}
		}
		for _, t := range g.WithPredicate(food.Ingredient) {
			if t.Object.Literal {
				continue
			}
			if _, ok := lines[t.Subject]; ok {
				collect(t.Object.Value)
			}
		}
	case PatternUsageNode:
		for _, t := range g.WithPredicate(spoon.UsesIngredient) {
			if !t.Object.Literal {
				collect(t.Object.Value)
			}
		}
	}
	return out
}

// recipeNodes locates recipe URIs for a pattern.
func recipeNodes(g *graph.Graph, pattern Pattern) []string {
	var out []string
	seen := make(map[string]struct{})
	collect := func(uris []string) {
		for _, uri := range uris {
			if _, ok := seen[uri]; ok {
				continue
			}
			seen[uri] = struct{}{}
			out = append(out, uri)
		}
	}

	switch pattern {
	case PatternDirect:
		collect(g.SubjectsOfClass(standard.RdfType, schemaorg.ClassRecipe))
		collect(g.SubjectsOfClass(standard.RdfType, food.ClassRecipe))
	default:
		collect(g.SubjectsOfClass(standard.RdfType, food.ClassRecipe))
		collect(g.SubjectsOfClass(standard.RdfType, schemaorg.ClassRecipe))
	}
	return out
}
