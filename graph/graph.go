package graph

// Graph is an insertion-ordered set of triples. Duplicate (s,p,o) tuples are
// collapsed on Add, and iteration order is the order triples were first
// added, which keeps every downstream stage deterministic without sorting.
//
// Graph is not safe for concurrent mutation; the pipeline threads a single
// owned Graph through its stages and only ever reads it concurrently.
type Graph struct {
	triples []Triple
	index   map[Triple]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[Triple]struct{})}
}

// Add inserts t if absent. It reports whether the triple was added.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.index[t]; ok {
		return false
	}
	g.index[t] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.index[t]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in insertion order. The returned slice is a
// copy; mutating it does not affect the graph.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// AddAll inserts every triple of other, preserving other's order for triples
// not already present. The receiver never loses a triple: the operation is
// strictly monotonic.
func (g *Graph) AddAll(other *Graph) int {
	added := 0
	for _, t := range other.triples {
		if g.Add(t) {
			added++
		}
	}
	return added
}

// Union returns a new graph containing every triple of g followed by every
// triple of other not already present.
func Union(g, other *Graph) *Graph {
	out := New()
	out.AddAll(g)
	out.AddAll(other)
	return out
}

// WithPredicate returns all triples whose predicate equals p, in insertion
// order.
func (g *Graph) WithPredicate(p string) []Triple {
	var out []Triple
	for _, t := range g.triples {
		if t.Predicate == p {
			out = append(out, t)
		}
	}
	return out
}

// SubjectsOfClass returns the distinct subjects carrying an rdf:type
// assertion for the given class IRI, in first-seen order.
func (g *Graph) SubjectsOfClass(typePredicate, class string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range g.triples {
		if t.Predicate != typePredicate || t.Object.Literal || t.Object.Value != class {
			continue
		}
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// Objects returns the objects of all triples with the given subject and
// predicate, in insertion order.
func (g *Graph) Objects(subject, predicate string) []Object {
	var out []Object
	for _, t := range g.triples {
		if t.Subject == subject && t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}
