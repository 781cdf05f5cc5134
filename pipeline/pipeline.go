// Package pipeline orchestrates a full unification run: load the source
// graphs, merge them, link entities across sources, normalize structure,
// serialize, and hand the documents to the store. Nothing reaches the store
// until every stage has succeeded, so a failed run leaves the previous
// output untouched.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/c360studio/recipegraph/config"
	"github.com/c360studio/recipegraph/export"
	"github.com/c360studio/recipegraph/extract"
	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/linkage"
	"github.com/c360studio/recipegraph/loader"
	"github.com/c360studio/recipegraph/merge"
	"github.com/c360studio/recipegraph/metrics"
	"github.com/c360studio/recipegraph/normalize"
	"github.com/c360studio/recipegraph/store"
	"github.com/c360studio/recipegraph/vocabulary/standard"
	"github.com/c360studio/recipegraph/vocabulary/unified"
)

// SourceFailure records a source that could not be loaded during a
// tolerate-partial run.
type SourceFailure struct {
	Tag loader.SourceTag
	Err error
}

// Summary reports what one run did.
type Summary struct {
	RunID          string
	SourceTriples  map[loader.SourceTag]int
	Failures       []SourceFailure
	MergedTriples  int
	Skipped        int
	Ingredients    linkage.Stats
	Recipes        linkage.Stats
	Normalized     normalize.Stats
	OutputTriples  int
	MappingTriples int
	Elapsed        time.Duration
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   store.Loader
}

// New creates a Pipeline. The store may be nil, in which case it is built
// from the configuration on the first run.
func New(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, st store.Loader) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	if st == nil {
		var err error
		st, err = store.FromConfig(cfg.Store, cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	return &Pipeline{cfg: cfg, logger: logger, metrics: m, store: st}, nil
}

// Run executes every stage and returns the run summary.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{SourceTriples: make(map[loader.SourceTag]int)}

	inputs, err := p.loadSources(summary)
	if err != nil {
		return nil, err
	}

	merged, err := p.timedMerge(inputs)
	if err != nil {
		return nil, err
	}
	summary.RunID = merged.Provenance.RunID
	summary.MergedTriples = merged.Unified.Len()
	p.metrics.TriplesMerged.Add(float64(summary.MergedTriples))

	mappings, err := p.linkEntities(ctx, merged, summary)
	if err != nil {
		return nil, err
	}
	summary.MappingTriples = mappings.Len()
	merged.Unified.AddAll(mappings)

	normStart := time.Now()
	normalizer := normalize.New(normalize.ChainsFromConfig(p.cfg.Normalize.Chains), p.logger)
	summary.Normalized = normalizer.Apply(merged.Unified)
	p.metrics.ObserveStage("normalize", time.Since(normStart))

	summary.OutputTriples = merged.Unified.Len()
	if err := p.deliver(ctx, merged.Unified, mappings, summary.RunID); err != nil {
		return nil, err
	}

	summary.Elapsed = time.Since(start)
	p.logger.Info("run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("sources", len(summary.SourceTriples)),
		slog.Int("failures", len(summary.Failures)),
		slog.Int("merged_triples", summary.MergedTriples),
		slog.Int("output_triples", summary.OutputTriples),
		slog.Int("mapping_triples", summary.MappingTriples),
		slog.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// loadSources parses every configured dataset. A source that fails to parse
// or is empty aborts the run unless tolerate_partial is set, in which case
// it is recorded and the run proceeds with the remaining sources.
func (p *Pipeline) loadSources(summary *Summary) ([]loader.TaggedGraph, error) {
	stageStart := time.Now()
	defer func() { p.metrics.ObserveStage("load", time.Since(stageStart)) }()

	var inputs []loader.TaggedGraph
	for _, src := range p.cfg.Sources.Datasets {
		tag := loader.SourceTag(src.Tag)
		g, err := p.loadSource(src)
		if err != nil {
			if !p.cfg.Sources.ToleratePartial {
				return nil, fmt.Errorf("load %s: %w", src.Tag, err)
			}
			p.logger.Warn("source skipped",
				slog.String("source", src.Tag),
				slog.String("error", err.Error()))
			summary.Failures = append(summary.Failures, SourceFailure{Tag: tag, Err: err})
			continue
		}
		summary.SourceTriples[tag] = g.Len()
		p.metrics.TriplesLoaded.WithLabelValues(src.Tag).Add(float64(g.Len()))
		inputs = append(inputs, loader.TaggedGraph{Source: tag, Graph: g})
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no sources loaded")
	}
	return inputs, nil
}

// loadSource reads every file a source's path patterns resolve to and unions
// them into one graph.
func (p *Pipeline) loadSource(src config.SourceConfig) (*graph.Graph, error) {
	paths, err := src.ExpandPaths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &loader.EmptyGraphError{Source: loader.SourceTag(src.Tag)}
	}
	g := graph.New()
	for _, path := range paths {
		fg, err := loader.LoadFile(path, loader.SourceTag(src.Tag))
		if err != nil {
			return nil, err
		}
		g.AddAll(fg)
	}
	if g.Len() == 0 {
		return nil, &loader.EmptyGraphError{Source: loader.SourceTag(src.Tag)}
	}
	return g, nil
}

func (p *Pipeline) timedMerge(inputs []loader.TaggedGraph) (*merge.Result, error) {
	stageStart := time.Now()
	defer func() { p.metrics.ObserveStage("merge", time.Since(stageStart)) }()
	return merge.New(p.logger).Merge(inputs)
}

// linkEntities extracts label records per source, links ingredients (and
// recipes when enabled), and returns the combined mapping graph.
func (p *Pipeline) linkEntities(ctx context.Context, merged *merge.Result, summary *Summary) (*graph.Graph, error) {
	stageStart := time.Now()
	defer func() { p.metrics.ObserveStage("link", time.Since(stageStart)) }()

	extractor := extract.New(p.logger)
	var ingredients, recipes []extract.LabelRecord
	for _, in := range merged.Inputs {
		pattern := p.patternFor(in.Source)
		records, stats := extractor.Extract(in, pattern)
		summary.Skipped += stats.Skipped
		p.metrics.EntitiesSkipped.WithLabelValues(string(in.Source)).Add(float64(stats.Skipped))
		for _, r := range records {
			switch r.Kind {
			case extract.KindIngredient:
				ingredients = append(ingredients, r)
			case extract.KindRecipe:
				recipes = append(recipes, r)
			}
		}
	}

	overrides, err := linkage.LoadOverrides(p.cfg.Linkage.OverridesPath)
	if err != nil {
		return nil, err
	}
	engine, err := linkage.New(linkage.Config{
		Cutoff:    p.cfg.Linkage.FuzzyCutoff(),
		Workers:   p.cfg.Linkage.Workers,
		Overrides: overrides,
	}, p.logger)
	if err != nil {
		return nil, err
	}

	mappings := graph.New()

	ingResult, err := engine.Link(ctx, ingredients)
	if err != nil {
		return nil, fmt.Errorf("link ingredients: %w", err)
	}
	summary.Ingredients = ingResult.Stats
	p.countMappings(ingResult)
	mappings.AddAll(ingResult.MappingGraph())

	if p.cfg.Linkage.LinkRecipes {
		recResult, err := engine.Link(ctx, recipes)
		if err != nil {
			return nil, fmt.Errorf("link recipes: %w", err)
		}
		summary.Recipes = recResult.Stats
		p.countMappings(recResult)
		mappings.AddAll(recResult.MappingGraph())
	}
	return mappings, nil
}

func (p *Pipeline) countMappings(r *linkage.Result) {
	for _, m := range r.Mappings {
		p.metrics.MappingsByKind.WithLabelValues(string(m.Kind)).Inc()
	}
}

func (p *Pipeline) patternFor(tag loader.SourceTag) extract.Pattern {
	for _, src := range p.cfg.Sources.Datasets {
		if src.Tag == string(tag) {
			return extract.Pattern(src.Pattern)
		}
	}
	return extract.PatternDirect
}

// deliver serializes the unified graph (and the mappings document when
// configured) and hands them to the store.
func (p *Pipeline) deliver(ctx context.Context, unified, mappings *graph.Graph, runID string) error {
	stageStart := time.Now()
	defer func() { p.metrics.ObserveStage("store", time.Since(stageStart)) }()

	format := export.Format(p.cfg.Output.Format)
	info, ok := export.GetFormatInfo(format)
	if !ok {
		return fmt.Errorf("deliver: unsupported format %q", p.cfg.Output.Format)
	}

	data, err := export.Serialize(unified, format)
	if err != nil {
		return fmt.Errorf("serialize unified graph: %w", err)
	}
	if err := p.store.Load(ctx, store.Document{
		Name:        store.DocumentUnified,
		Data:        []byte(data),
		ContentType: info.MIMEType,
		TripleCount: unified.Len(),
		RunID:       runID,
	}); err != nil {
		return fmt.Errorf("store unified graph: %w", err)
	}

	if p.cfg.Output.MappingsPath == "" && p.cfg.Store.Backend != config.BackendNATS {
		return nil
	}
	mapDoc := graph.Union(mappingDescription(mappings.Len()), mappings)
	mapData, err := export.Serialize(mapDoc, format)
	if err != nil {
		return fmt.Errorf("serialize mappings: %w", err)
	}
	if err := p.store.Load(ctx, store.Document{
		Name:        store.DocumentMappings,
		Data:        []byte(mapData),
		ContentType: info.MIMEType,
		TripleCount: mapDoc.Len(),
		RunID:       runID,
	}); err != nil {
		return fmt.Errorf("store mappings: %w", err)
	}
	return nil
}

// mappingDescription mints the linkset description heading the mappings
// document. The count covers the mapping triples, not the description itself.
func mappingDescription(count int) *graph.Graph {
	g := graph.New()
	subject := unified.MappingsURI
	g.Add(graph.Triple{Subject: subject, Predicate: standard.RdfType, Object: graph.URI(standard.VoidLinkset)})
	g.Add(graph.Triple{Subject: subject, Predicate: standard.RdfsLabel, Object: graph.LangLiteral("Cross-source entity mappings", "en")})
	g.Add(graph.Triple{Subject: subject, Predicate: standard.VoidTriples, Object: graph.TypedLiteral(strconv.Itoa(count), standard.XsdInteger)})
	return g
}
