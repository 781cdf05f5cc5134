package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/vocabulary/standard"
)

func sampleGraph() *graph.Graph {
	g := graph.New()
	g.Add(graph.Triple{
		Subject:   "http://example.org/recipe/1",
		Predicate: standard.RdfType,
		Object:    graph.URI("https://schema.org/Recipe"),
	})
	g.Add(graph.Triple{
		Subject:   "http://example.org/recipe/1",
		Predicate: "https://schema.org/name",
		Object:    graph.Literal("Pancakes"),
	})
	g.Add(graph.Triple{
		Subject:   "http://example.org/recipe/1",
		Predicate: standard.RdfsLabel,
		Object:    graph.LangLiteral("Pfannkuchen", "de"),
	})
	g.Add(graph.Triple{
		Subject:   "http://example.org/dataset",
		Predicate: standard.VoidTriples,
		Object:    graph.TypedLiteral("3", standard.XsdInteger),
	})
	return g
}

func TestSerializeTurtle(t *testing.T) {
	out, err := Serialize(sampleGraph(), FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix schema: <https://schema.org/> .")
	assert.Contains(t, out, "<http://example.org/recipe/1>")
	assert.Contains(t, out, "a <https://schema.org/Recipe> ;")
	assert.Contains(t, out, `"Pancakes"`)
	assert.Contains(t, out, `"Pfannkuchen"@de`)
	assert.Contains(t, out, `"3"^^<http://www.w3.org/2001/XMLSchema#integer>`)

	// Subject blocks appear in first-seen order.
	assert.Less(t,
		strings.Index(out, "http://example.org/recipe/1"),
		strings.Index(out, "http://example.org/dataset"))
}

func TestSerializeNTriples(t *testing.T) {
	out, err := Serialize(sampleGraph(), FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t,
		"<http://example.org/recipe/1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <https://schema.org/Recipe> .",
		lines[0])
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}
}

func TestSerializeUnsupportedFormat(t *testing.T) {
	_, err := Serialize(sampleGraph(), Format("rdfxml"))
	assert.Error(t, err)
}

func TestSerializeIsDeterministic(t *testing.T) {
	g := sampleGraph()
	first, err := Serialize(g, FormatTurtle)
	require.NoError(t, err)
	second, err := Serialize(g, FormatTurtle)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `plain`, want: `plain`},
		{in: "tab\there", want: `tab\there`},
		{in: "line\nbreak", want: `line\nbreak`},
		{in: `back\slash`, want: `back\\slash`},
		{in: `say "hi"`, want: `say \"hi\"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeString(tt.in), tt.in)
	}
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := GetFormatInfo(FormatTurtle)
	require.True(t, ok)
	assert.Equal(t, "text/turtle", info.MIMEType)
	assert.Equal(t, ".ttl", info.Extension)

	_, ok = GetFormatInfo(Format("bogus"))
	assert.False(t, ok)
}
