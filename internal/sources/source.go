// Package sources provides the catalog backends and the collaborator that
// turns their failures into empty results for the catalog store.
package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/metrics"
	"github.com/curations/storefront/internal/telemetry"
)

// Source is a catalog backend
type Source interface {
	Name() string
	Fetch(ctx context.Context, category catalog.Category) ([]catalog.RawProductRecord, error)
}

// Configurable is implemented by sources that can be left unconfigured.
// An unconfigured source is never called.
type Configurable interface {
	Configured() bool
}

// Collaborator adapts a Source to catalog.Fetcher
type Collaborator struct {
	source   Source
	logger   zerolog.Logger
	recorder *metrics.Recorder
	tracer   trace.Tracer
	fetches  metric.Int64Counter
	duration metric.Float64Histogram
}

// NewCollaborator wraps source
func NewCollaborator(source Source, logger zerolog.Logger) *Collaborator {
	meter := telemetry.Meter()
	fetches, err := meter.Int64Counter("storefront.source.fetches",
		metric.WithDescription("Catalog fetches by category, source and outcome"))
	if err != nil {
		fetches, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("")
	}
	duration, err := meter.Float64Histogram("storefront.source.fetch.duration",
		metric.WithDescription("Catalog fetch duration"), metric.WithUnit("s"))
	if err != nil {
		duration, _ = metricnoop.NewMeterProvider().Meter("").Float64Histogram("")
	}

	return &Collaborator{
		source:   source,
		logger:   logger.With().Str("component", "collaborator").Str("source", source.Name()).Logger(),
		recorder: metrics.NewRecorder(),
		tracer:   telemetry.Tracer(),
		fetches:  fetches,
		duration: duration,
	}
}

// Source returns the wrapped source
func (c *Collaborator) Source() Source {
	return c.source
}

// FetchProducts never fails: errors and panics yield an empty slice.
func (c *Collaborator) FetchProducts(ctx context.Context, category catalog.Category) (records []catalog.RawProductRecord) {
	name := c.source.Name()
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "sources.fetch", trace.WithAttributes(
		attribute.String("catalog.category", category.String()),
		attribute.String("catalog.source", name),
	))
	defer span.End()

	if cfg, ok := c.source.(Configurable); ok && !cfg.Configured() {
		c.logger.Debug().Str("category", category.String()).Msg("Source not configured, skipping fetch")
		c.record(ctx, category, metrics.OutcomeSkipped, time.Since(start))
		return []catalog.RawProductRecord{}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("source panicked: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Error().Err(err).Str("category", category.String()).Msg("Failed to fetch products")
			c.record(ctx, category, metrics.OutcomePanic, time.Since(start))
			records = []catalog.RawProductRecord{}
		}
	}()

	fetched, err := c.source.Fetch(ctx, category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error().Err(err).Str("category", category.String()).Msg("Failed to fetch products")
		c.record(ctx, category, metrics.OutcomeError, time.Since(start))
		return []catalog.RawProductRecord{}
	}
	if fetched == nil {
		fetched = []catalog.RawProductRecord{}
	}

	span.SetAttributes(attribute.Int("catalog.records", len(fetched)))
	c.record(ctx, category, metrics.OutcomeOK, time.Since(start))
	c.logger.Debug().
		Str("category", category.String()).
		Int("records", len(fetched)).
		Dur("duration", time.Since(start)).
		Msg("Fetched products")
	return fetched
}

// record reports one fetch to Prometheus and to the OpenTelemetry meter
func (c *Collaborator) record(ctx context.Context, category catalog.Category, outcome string, d time.Duration) {
	name := c.source.Name()
	c.recorder.RecordFetch(category.String(), name, outcome, d)

	attrs := metric.WithAttributes(
		attribute.String("catalog.category", category.String()),
		attribute.String("catalog.source", name),
		attribute.String("outcome", outcome),
	)
	c.fetches.Add(ctx, 1, attrs)
	c.duration.Record(ctx, d.Seconds(), attrs)
}
