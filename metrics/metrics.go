// Package metrics exposes pipeline instrumentation on a private Prometheus
// registry so tests can run collectors side by side without collisions.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	registry *prometheus.Registry

	TriplesLoaded   *prometheus.CounterVec
	TriplesMerged   prometheus.Counter
	EntitiesSkipped *prometheus.CounterVec
	MappingsByKind  *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TriplesLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipegraph",
			Name:      "triples_loaded_total",
			Help:      "Triples parsed from each source dataset.",
		}, []string{"source"}),
		TriplesMerged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "recipegraph",
			Name:      "triples_merged_total",
			Help:      "Distinct triples in the unified graph after merging.",
		}),
		EntitiesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipegraph",
			Name:      "entities_skipped_total",
			Help:      "Entities excluded from linkage for missing labels.",
		}, []string{"source"}),
		MappingsByKind: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipegraph",
			Name:      "mappings_accepted_total",
			Help:      "Accepted cross-source mappings by match kind.",
		}, []string{"kind"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recipegraph",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"stage"}),
	}
}

// ObserveStage records a stage duration.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a metrics endpoint on addr until ctx is canceled. A pipeline
// run is short-lived, so the listener is best effort and shuts down with
// the run.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener stopped", slog.String("error", err.Error()))
		}
	}()
}
