package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	prometheusexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	meterScope         = "github.com/synahire/screening/internal/observability"
	defaultServiceName = "screening-api"
)

// latencyHistogramBoundaries are Prometheus-style buckets (seconds) for
// screening and embedding duration histograms.
var latencyHistogramBoundaries = []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5}

// Metrics groups the instrument sets used across the service.
type Metrics struct {
	HTTP       HTTPMetrics
	Screenings ScreeningMetrics
	Search     SearchMetrics
	Embeddings EmbeddingMetrics
}

// HTTPMetrics records HTTP request counts and latency.
type HTTPMetrics interface {
	RecordRequest(ctx context.Context, method, route, statusClass string, duration time.Duration)
	RecordRequestBodyTooLarge(ctx context.Context)
}

// ScreeningMetrics records screening pipeline outcomes.
type ScreeningMetrics interface {
	RecordScreening(ctx context.Context, tier string, duration time.Duration)
	RecordScreeningError(ctx context.Context, reason string)
}

// SearchMetrics records similarity search outcomes and cache behavior.
type SearchMetrics interface {
	RecordSearch(ctx context.Context, duration time.Duration)
	RecordCacheHit(ctx context.Context, cache string)
	RecordCacheMiss(ctx context.Context, cache string)
}

// EmbeddingMetrics records embedding-call outcomes.
type EmbeddingMetrics interface {
	RecordEmbedding(ctx context.Context, outcome string, duration time.Duration)
}

// MeterProviderShutdown is the subset of the SDK MeterProvider needed for shutdown.
type MeterProviderShutdown interface {
	Shutdown(ctx context.Context) error
}

// NewMeterProvider creates a MeterProvider with a Prometheus exporter and
// returns the provider, an HTTP handler for /metrics, and the metric sets.
// Caller must call provider.Shutdown on exit.
func NewMeterProvider(serviceName string) (MeterProviderShutdown, http.Handler, *Metrics, error) {
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	reg := prometheus.NewRegistry()

	exporter, err := prometheusexporter.New(
		prometheusexporter.WithRegisterer(reg),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(
			sdkmetric.NewView(
				sdkmetric.Instrument{Name: "screening_duration_seconds"},
				sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: latencyHistogramBoundaries}},
			),
			sdkmetric.NewView(
				sdkmetric.Instrument{Name: "embedding_duration_seconds"},
				sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: latencyHistogramBoundaries}},
			),
		),
	)

	meter := mp.Meter(meterScope)

	metrics, err := newMetricsFromMeter(meter)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create metrics instruments: %w", err)
	}

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return mp, handler, metrics, nil
}

func newMetricsFromMeter(meter metric.Meter) (*Metrics, error) {
	httpMetrics, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	screenings, err := newScreeningMetrics(meter)
	if err != nil {
		return nil, err
	}

	search, err := newSearchMetrics(meter)
	if err != nil {
		return nil, err
	}

	embeddings, err := newEmbeddingMetrics(meter)
	if err != nil {
		return nil, err
	}

	return &Metrics{HTTP: httpMetrics, Screenings: screenings, Search: search, Embeddings: embeddings}, nil
}

type httpMetrics struct {
	total    metric.Int64Counter
	tooLarge metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	total, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("HTTP requests by method, route, and status class"),
	)
	if err != nil {
		return nil, fmt.Errorf("http_requests_total: %w", err)
	}

	tooLarge, err := meter.Int64Counter(
		"http_request_body_too_large_total",
		metric.WithDescription("Requests rejected for exceeding the body size limit"),
	)
	if err != nil {
		return nil, fmt.Errorf("http_request_body_too_large_total: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("http_request_duration_seconds: %w", err)
	}

	return &httpMetrics{total: total, tooLarge: tooLarge, duration: duration}, nil
}

func (m *httpMetrics) RecordRequest(ctx context.Context, method, route, statusClass string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status_class", statusClass),
	)
	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)
}

func (m *httpMetrics) RecordRequestBodyTooLarge(ctx context.Context) {
	m.tooLarge.Add(ctx, 1)
}

type screeningMetrics struct {
	total    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newScreeningMetrics(meter metric.Meter) (*screeningMetrics, error) {
	total, err := meter.Int64Counter(
		"screenings_total",
		metric.WithDescription("Completed screenings by tier"),
	)
	if err != nil {
		return nil, fmt.Errorf("screenings_total: %w", err)
	}

	errs, err := meter.Int64Counter(
		"screening_errors_total",
		metric.WithDescription("Screening failures by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("screening_errors_total: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"screening_duration_seconds",
		metric.WithDescription("End-to-end screening duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("screening_duration_seconds: %w", err)
	}

	return &screeningMetrics{total: total, errors: errs, duration: duration}, nil
}

func (m *screeningMetrics) RecordScreening(ctx context.Context, tier string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("tier", tier))
	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)
}

func (m *screeningMetrics) RecordScreeningError(ctx context.Context, reason string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

type searchMetrics struct {
	total    metric.Int64Counter
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	duration metric.Float64Histogram
}

func newSearchMetrics(meter metric.Meter) (*searchMetrics, error) {
	total, err := meter.Int64Counter(
		"similarity_searches_total",
		metric.WithDescription("Similarity search requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("similarity_searches_total: %w", err)
	}

	hits, err := meter.Int64Counter(
		"cache_hits_total",
		metric.WithDescription("Cache hits by cache name"),
	)
	if err != nil {
		return nil, fmt.Errorf("cache_hits_total: %w", err)
	}

	misses, err := meter.Int64Counter(
		"cache_misses_total",
		metric.WithDescription("Cache misses by cache name"),
	)
	if err != nil {
		return nil, fmt.Errorf("cache_misses_total: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"similarity_search_duration_seconds",
		metric.WithDescription("Similarity search duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("similarity_search_duration_seconds: %w", err)
	}

	return &searchMetrics{total: total, hits: hits, misses: misses, duration: duration}, nil
}

func (m *searchMetrics) RecordSearch(ctx context.Context, duration time.Duration) {
	m.total.Add(ctx, 1)
	m.duration.Record(ctx, duration.Seconds())
}

func (m *searchMetrics) RecordCacheHit(ctx context.Context, cache string) {
	m.hits.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", cache)))
}

func (m *searchMetrics) RecordCacheMiss(ctx context.Context, cache string) {
	m.misses.Add(ctx, 1, metric.WithAttributes(attribute.String("cache", cache)))
}

type embeddingMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

func newEmbeddingMetrics(meter metric.Meter) (*embeddingMetrics, error) {
	total, err := meter.Int64Counter(
		"embedding_calls_total",
		metric.WithDescription("Embedding provider calls by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding_calls_total: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"embedding_duration_seconds",
		metric.WithDescription("Embedding call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding_duration_seconds: %w", err)
	}

	return &embeddingMetrics{total: total, duration: duration}, nil
}

func (m *embeddingMetrics) RecordEmbedding(ctx context.Context, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, duration.Seconds(), attrs)
}
