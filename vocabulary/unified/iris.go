// Package unified provides the synthetic IRIs the pipeline mints for its own
// dataset-level resources: the merged dataset description, the mapping graph
// description, and the normalization metadata node. These are stable across
// runs; the idempotence guarantees of the merger and normalizer depend on it.
package unified

// DatasetURI is the subject of the merged dataset description triples.
const DatasetURI = "http://example.org/unified-recipe-kg"

// MappingsURI is the subject of the mapping graph description triples.
const MappingsURI = "http://example.org/ingredient-mappings"

// NormalizationURI is the subject of the normalization metadata triples.
const NormalizationURI = "http://example.org/normalization"

// SourceDatasetURI returns the dataset description IRI for a source tag.
func SourceDatasetURI(tag string) string {
	return "http://example.org/dataset/" + tag
}
