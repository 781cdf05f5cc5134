// Package linkage finds label records from different sources that denote the
// same real-world ingredient or recipe and materializes the accepted matches
// as equivalence triples.
//
// Matching runs in two passes: exact grouping on normalized keys, then
// bucketed Levenshtein comparison for records the exact pass left unmatched.
// Candidates are transient; only accepted mappings survive, as triples.
package linkage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/c360studio/recipegraph/extract"
	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/loader"
	"github.com/c360studio/recipegraph/vocabulary/standard"
)

// MatchKind distinguishes how a candidate was produced.
type MatchKind string

const (
	// MatchExact marks candidates whose normalized keys are identical.
	MatchExact MatchKind = "exact"

	// MatchFuzzy marks candidates produced by edit-distance comparison.
	MatchFuzzy MatchKind = "fuzzy"

	// MatchOverride marks manually reviewed pairs asserted via the
	// override list.
	MatchOverride MatchKind = "override"
)

// Candidate is a scored cross-source pair. Candidates exist only during a
// run; they are never persisted or logged as triples.
type Candidate struct {
	A          extract.LabelRecord
	B          extract.LabelRecord
	Kind       MatchKind
	Similarity float64
}

// Mapping is an accepted candidate, ready to materialize as a triple.
// Subject and Object are ordered lexicographically so that a candidate and
// its mirror image produce the same mapping.
type Mapping struct {
	Subject    string
	Object     string
	Predicate  string
	Kind       MatchKind
	Similarity float64
}

// Override is a manually reviewed URI pair accepted ahead of the matcher.
type Override struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// Config parameterizes the engine.
type Config struct {
	// Cutoff is the fuzzy distance ratio cutoff: a pair is a candidate when
	// distance/max(len) <= Cutoff. The boundary is inclusive.
	Cutoff float64

	// Workers bounds the fuzzy comparison goroutines (0 = one per CPU).
	Workers int

	// Overrides are accepted before algorithmic acceptance and occupy their
	// (entity, source-pair) slots.
	Overrides []Override
}

// Stats summarizes one linkage run.
type Stats struct {
	Records         int
	ExactCandidates int
	FuzzyCandidates int
	Overrides       int
	Accepted        int
}

// Result carries the accepted mappings and run statistics.
type Result struct {
	Mappings []Mapping
	Stats    Stats
}

// MappingGraph materializes the accepted mappings as triples.
func (r *Result) MappingGraph() *graph.Graph {
	g := graph.New()
	for _, m := range r.Mappings {
		g.Add(graph.Triple{Subject: m.Subject, Predicate: m.Predicate, Object: graph.URI(m.Object)})
	}
	return g
}

// Engine computes cross-source equivalences.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Engine.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Cutoff < 0 || cfg.Cutoff > 1 {
		return nil, fmt.Errorf("linkage: cutoff %v outside [0,1]", cfg.Cutoff)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Link matches records of one kind across sources. Records with an empty
// normalized key are excluded from all candidate generation. The fuzzy pass
// may fan out across workers; everything after candidate collection is
// single-threaded and deterministic.
func (e *Engine) Link(ctx context.Context, records []extract.LabelRecord) (*Result, error) {
	valid := records[:0:0]
	for _, r := range records {
		if r.Key != "" {
			valid = append(valid, r)
		}
	}

	exact := exactCandidates(valid)

	// The fuzzy pass serves records the exact pass left unmatched. Pairs of
	// two exact-matched records are skipped; an unmatched record still gets
	// compared against matched ones, which is how a third source's typo
	// variant reaches the records that already linked exactly.
	matched := make(map[string]struct{}, len(exact)*2)
	for _, c := range exact {
		matched[recordID(c.A)] = struct{}{}
		matched[recordID(c.B)] = struct{}{}
	}

	fuzzy, err := e.fuzzyCandidates(ctx, valid, matched)
	if err != nil {
		return nil, err
	}

	candidates := append(exact, fuzzy...)
	mappings, overrides := e.accept(candidates, valid)

	stats := Stats{
		Records:         len(valid),
		ExactCandidates: len(exact),
		FuzzyCandidates: len(fuzzy),
		Overrides:       overrides,
		Accepted:        len(mappings),
	}

	e.logger.Info("linkage complete",
		slog.Int("records", stats.Records),
		slog.Int("exact_candidates", stats.ExactCandidates),
		slog.Int("fuzzy_candidates", stats.FuzzyCandidates),
		slog.Int("overrides", stats.Overrides),
		slog.Int("accepted", stats.Accepted))

	return &Result{Mappings: mappings, Stats: stats}, nil
}

func recordID(r extract.LabelRecord) string {
	return string(r.Source) + "\x00" + r.URI
}

// exactCandidates groups records by normalized key and emits one candidate
// per cross-source pair inside each group.
func exactCandidates(records []extract.LabelRecord) []Candidate {
	groups := make(map[string][]extract.LabelRecord)
	var keys []string
	for _, r := range records {
		if _, ok := groups[r.Key]; !ok {
			keys = append(keys, r.Key)
		}
		groups[r.Key] = append(groups[r.Key], r)
	}

	var out []Candidate
	for _, key := range keys {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Source == group[j].Source {
					continue
				}
				out = append(out, Candidate{A: group[i], B: group[j], Kind: MatchExact, Similarity: 1.0})
			}
		}
	}
	return out
}

// accept applies overrides, then greedily accepts the best candidate per
// (entity, opposing source) slot. The candidate order is fully determined
// before acceptance: similarity descending, then shorter combined key
// length, then lexicographic URI order - so the outcome is reproducible
// regardless of how candidates were produced.
func (e *Engine) accept(candidates []Candidate, records []extract.LabelRecord) ([]Mapping, int) {
	type slot struct {
		uri    string
		source loader.SourceTag
	}
	taken := make(map[slot]struct{})
	pairSeen := make(map[[2]string]struct{})
	var mappings []Mapping

	claim := func(a, b extract.LabelRecord, kind MatchKind, sim float64) bool {
		sa := slot{uri: a.URI, source: b.Source}
		sb := slot{uri: b.URI, source: a.Source}
		if _, ok := taken[sa]; ok {
			return false
		}
		if _, ok := taken[sb]; ok {
			return false
		}
		subject, object := orderPair(a.URI, b.URI)
		if _, ok := pairSeen[[2]string{subject, object}]; ok {
			return false
		}
		taken[sa] = struct{}{}
		taken[sb] = struct{}{}
		pairSeen[[2]string{subject, object}] = struct{}{}
		mappings = append(mappings, Mapping{
			Subject:    subject,
			Object:     object,
			Predicate:  mappingPredicate(kind, sim),
			Kind:       kind,
			Similarity: sim,
		})
		return true
	}

	// Manually reviewed pairs come first and always map with the
	// equivalence predicate.
	overrides := 0
	byURI := make(map[string][]extract.LabelRecord, len(records))
	for _, r := range records {
		byURI[r.URI] = append(byURI[r.URI], r)
	}
	for _, o := range e.cfg.Overrides {
		a, b := resolveOverride(byURI, o)
		if claim(a, b, MatchOverride, 1.0) {
			overrides++
		}
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci, cj := ordered[i], ordered[j]
		if ci.Similarity != cj.Similarity {
			return ci.Similarity > cj.Similarity
		}
		li := len(ci.A.Key) + len(ci.B.Key)
		lj := len(cj.A.Key) + len(cj.B.Key)
		if li != lj {
			return li < lj
		}
		si, oi := orderPair(ci.A.URI, ci.B.URI)
		sj, oj := orderPair(cj.A.URI, cj.B.URI)
		if si != sj {
			return si < sj
		}
		return oi < oj
	})

	for _, c := range ordered {
		claim(c.A, c.B, c.Kind, c.Similarity)
	}

	return mappings, overrides
}

// resolveOverride attaches whatever record context exists for the override
// URIs; unknown URIs still map, they just cannot block other slots by source.
func resolveOverride(byURI map[string][]extract.LabelRecord, o Override) (extract.LabelRecord, extract.LabelRecord) {
	a := extract.LabelRecord{URI: o.A}
	if recs := byURI[o.A]; len(recs) > 0 {
		a = recs[0]
	}
	b := extract.LabelRecord{URI: o.B}
	if recs := byURI[o.B]; len(recs) > 0 {
		b = recs[0]
	}
	return a, b
}

// mappingPredicate tiers the asserted relation by confidence: equivalence
// for exact and high-similarity fuzzy matches, SKOS close/related matches
// below that.
func mappingPredicate(kind MatchKind, similarity float64) string {
	if kind == MatchExact || kind == MatchOverride {
		return standard.OwlSameAs
	}
	switch {
	case similarity >= 0.9:
		return standard.OwlSameAs
	case similarity >= 0.7:
		return standard.SkosCloseMatch
	default:
		return standard.SkosRelatedMatch
	}
}

func orderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
