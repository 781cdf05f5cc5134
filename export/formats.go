package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/vocabulary/standard"
)

// TurtleWriter writes a graph in Turtle format. Subjects are grouped into
// blocks in first-seen order; predicates within a block keep insertion order.
type TurtleWriter struct {
	prefixes map[string]string
}

// NewTurtleWriter creates a new Turtle writer with the default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{prefixes: defaultPrefixes()}
}

// Write renders the graph as a Turtle document.
func (w *TurtleWriter) Write(g *graph.Graph) string {
	var sb strings.Builder
	w.writePrefixes(&sb)

	// Group triples by subject, first-seen order.
	order := make([]string, 0)
	bySubject := make(map[string][]graph.Triple)
	for _, t := range g.Triples() {
		if _, ok := bySubject[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for _, subject := range order {
		triples := bySubject[subject]
		sb.WriteString(fmt.Sprintf("<%s>\n", subject))
		for i, t := range triples {
			terminator := " ;"
			if i == len(triples)-1 {
				terminator = " ."
			}
			if t.Predicate == standard.RdfType && !t.Object.Literal {
				sb.WriteString(fmt.Sprintf("    a <%s>%s\n", t.Object.Value, terminator))
				continue
			}
			sb.WriteString(fmt.Sprintf("    <%s> %s%s\n", t.Predicate, w.formatObject(t.Object), terminator))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// writePrefixes writes prefix declarations sorted for consistent output.
func (w *TurtleWriter) writePrefixes(sb *strings.Builder) {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	sb.WriteString("\n")
}

func (w *TurtleWriter) formatObject(o graph.Object) string {
	if !o.Literal {
		return fmt.Sprintf("<%s>", o.Value)
	}
	lit := fmt.Sprintf("\"%s\"", escapeString(o.Value))
	switch {
	case o.Lang != "":
		return lit + "@" + o.Lang
	case o.Datatype != "":
		return fmt.Sprintf("%s^^<%s>", lit, o.Datatype)
	default:
		return lit
	}
}

// NTriplesWriter writes a graph in N-Triples format, one triple per line.
type NTriplesWriter struct{}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// Write renders the graph as an N-Triples document.
func (w *NTriplesWriter) Write(g *graph.Graph) string {
	var sb strings.Builder
	for _, t := range g.Triples() {
		sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", t.Subject, t.Predicate, w.formatObject(t.Object)))
	}
	return sb.String()
}

func (w *NTriplesWriter) formatObject(o graph.Object) string {
	if !o.Literal {
		return fmt.Sprintf("<%s>", o.Value)
	}
	lit := fmt.Sprintf("\"%s\"", escapeString(o.Value))
	switch {
	case o.Lang != "":
		return lit + "@" + o.Lang
	case o.Datatype != "":
		return fmt.Sprintf("%s^^<%s>", lit, o.Datatype)
	default:
		return lit
	}
}
