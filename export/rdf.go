// Package export serializes graphs to RDF documents for the external
// persistence layer. Turtle and N-Triples are supported; both render
// triples in graph insertion order so repeated runs over the same input
// produce byte-identical documents apart from timestamp literals.
package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/vocabulary/food"
	"github.com/c360studio/recipegraph/vocabulary/schemaorg"
	"github.com/c360studio/recipegraph/vocabulary/spoon"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name      Format
	MIMEType  string
	Extension string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:      FormatTurtle,
		MIMEType:  "text/turtle",
		Extension: ".ttl",
	},
	FormatNTriples: {
		Name:      FormatNTriples,
		MIMEType:  "application/n-triples",
		Extension: ".nt",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// defaultPrefixes returns the namespace prefixes bound in Turtle output.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
		"owl":     "http://www.w3.org/2002/07/owl#",
		"xsd":     "http://www.w3.org/2001/XMLSchema#",
		"skos":    "http://www.w3.org/2004/02/skos/core#",
		"dcterms": "http://purl.org/dc/terms/",
		"prov":    "http://www.w3.org/ns/prov#",
		"void":    "http://rdfs.org/ns/void#",
		"food":    food.Namespace,
		"schema":  schemaorg.Namespace,
		"spoon":   spoon.Namespace,
	}
}

// Serialize renders g in the given format.
func Serialize(g *graph.Graph, format Format) (string, error) {
	switch format {
	case FormatTurtle:
		w := NewTurtleWriter()
		return w.Write(g), nil
	case FormatNTriples:
		w := NewNTriplesWriter()
		return w.Write(g), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
