package store

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/recipegraph/config"
)

// NATSStore publishes documents to a JetStream subject so a downstream
// graph database can consume them durably. The subject gets the document
// name appended ("graph.unified.load.unified") so consumers can filter
// mappings from the main graph.
type NATSStore struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSStore connects to the configured server.
func NewNATSStore(cfg config.NATSConfig) (*NATSStore, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("recipegraph"))
	if err != nil {
		return nil, fmt.Errorf("nats store: connect %s: %w", cfg.URL, err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("nats store: jetstream: %w", err)
	}
	return &NATSStore{nc: nc, js: js, subject: cfg.Subject}, nil
}

// Load publishes the document and waits for the stream acknowledgment.
func (s *NATSStore) Load(ctx context.Context, doc Document) error {
	msg := &nats.Msg{
		Subject: s.subject + "." + doc.Name,
		Data:    doc.Data,
		Header: nats.Header{
			"Content-Type":       []string{doc.ContentType},
			"Recipegraph-Run-Id": []string{doc.RunID},
			"Triple-Count":       []string{fmt.Sprintf("%d", doc.TripleCount)},
		},
	}
	if _, err := s.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("nats store: publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Close drains the connection.
func (s *NATSStore) Close() {
	s.nc.Close()
}
