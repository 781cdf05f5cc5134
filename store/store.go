// Package store delivers serialized graph documents to their destination.
// The pipeline hands a document to exactly one Loader only after every stage
// has succeeded, so a destination never sees a partial run.
package store

import (
	"context"
	"fmt"

	"github.com/c360studio/recipegraph/config"
)

// Document names produced by a pipeline run.
const (
	DocumentUnified  = "unified"
	DocumentMappings = "mappings"
)

// Document is one serialized graph ready for delivery.
type Document struct {
	// Name distinguishes the documents of one run ("unified", "mappings").
	Name string

	// Data is the serialized graph.
	Data []byte

	// ContentType is the MIME type of Data.
	ContentType string

	// TripleCount is the number of triples serialized into Data.
	TripleCount int

	// RunID identifies the pipeline run that produced the document.
	RunID string
}

// Loader delivers documents to a destination.
type Loader interface {
	Load(ctx context.Context, doc Document) error
}

// FromConfig builds the configured Loader.
func FromConfig(cfg config.StoreConfig, out config.OutputConfig) (Loader, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(FileStoreConfig{
			Path:         out.Path,
			MappingsPath: out.MappingsPath,
		})
	case config.BackendNATS:
		return NewNATSStore(cfg.NATS)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
