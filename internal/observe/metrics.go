// Package observe provides application-wide observability primitives for
// Protokollo: OpenTelemetry metrics and the Prometheus exporter bridge that
// exposes them on the health server's /metrics endpoint.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/protokollo/protokollo/internal/pipeline"
)

// meterName is the instrumentation scope name used for all Protokollo metrics.
const meterName = "github.com/protokollo/protokollo"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// PhaseDuration tracks per-phase pipeline latency. Use with attribute:
	//   attribute.String("phase", ...)
	PhaseDuration metric.Float64Histogram

	// RunDuration tracks end-to-end analysis run latency.
	RunDuration metric.Float64Histogram

	// --- Counters ---

	// RunsStarted counts analysis runs that entered the pipeline.
	RunsStarted metric.Int64Counter

	// RunsFinished counts completed runs. Use with attribute:
	//   attribute.String("status", "ok"|"error")
	RunsFinished metric.Int64Counter

	// ProviderRequests counts provider API calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ReportsDelivered counts rendered report bundles handed back to chat.
	// Use with attribute: attribute.String("language", ...)
	ReportsDelivered metric.Int64Counter

	// --- Error counters ---

	// ProviderErrors counts provider errors. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveRuns tracks the number of pipeline runs currently in flight.
	ActiveRuns metric.Int64UpDownCounter

	// PendingSources tracks queued files and links awaiting analysis across
	// all channels.
	PendingSources metric.Int64UpDownCounter
}

// durationBuckets defines histogram bucket boundaries (in seconds) sized for
// long-running transcription and analysis phases.
var durationBuckets = []float64{
	0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1200,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.PhaseDuration, err = m.Float64Histogram("protokollo.pipeline.phase.duration",
		metric.WithDescription("Latency of a single pipeline phase."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RunDuration, err = m.Float64Histogram("protokollo.pipeline.run.duration",
		metric.WithDescription("End-to-end analysis run latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.RunsStarted, err = m.Int64Counter("protokollo.pipeline.runs.started",
		metric.WithDescription("Total analysis runs started."),
	); err != nil {
		return nil, err
	}
	if met.RunsFinished, err = m.Int64Counter("protokollo.pipeline.runs.finished",
		metric.WithDescription("Total analysis runs finished, by status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("protokollo.provider.requests",
		metric.WithDescription("Total provider API requests by provider, kind, and status."),
	); err != nil {
		return nil, err
	}
	if met.ReportsDelivered, err = m.Int64Counter("protokollo.reports.delivered",
		metric.WithDescription("Total report bundles delivered, by language."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.ProviderErrors, err = m.Int64Counter("protokollo.provider.errors",
		metric.WithDescription("Total provider errors by provider and kind."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveRuns, err = m.Int64UpDownCounter("protokollo.pipeline.active_runs",
		metric.WithDescription("Number of pipeline runs currently in flight."),
	); err != nil {
		return nil, err
	}
	if met.PendingSources, err = m.Int64UpDownCounter("protokollo.sources.pending",
		metric.WithDescription("Queued files and links awaiting analysis."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordProviderRequest records a provider request counter increment with the
// standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, kind, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError records a provider error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}

// RecordReportDelivered records a delivered report bundle for the given
// target language.
func (m *Metrics) RecordReportDelivered(ctx context.Context, language string) {
	m.ReportsDelivered.Add(ctx, 1,
		metric.WithAttributes(attribute.String("language", language)),
	)
}

// RecordSourcesQueued adjusts the pending-sources gauge as recordings and
// links are collected in a channel.
func (m *Metrics) RecordSourcesQueued(ctx context.Context, n int) {
	m.PendingSources.Add(ctx, int64(n))
}

// PipelineMetrics adapts [Metrics] to the pipeline's metrics hooks. The zero
// value is not usable; construct with [NewPipelineMetrics].
type PipelineMetrics struct {
	m     *Metrics
	clock func() time.Time

	mu      sync.Mutex
	started map[int64]time.Time
	nextID  int64
}

// NewPipelineMetrics wraps a [Metrics] instance for use as a
// [pipeline.Metrics] implementation.
func NewPipelineMetrics(m *Metrics) *PipelineMetrics {
	return &PipelineMetrics{m: m, clock: time.Now}
}

var _ pipeline.Metrics = (*PipelineMetrics)(nil)

// RunStarted records the start of an analysis run.
func (p *PipelineMetrics) RunStarted() {
	ctx := context.Background()
	p.m.RunsStarted.Add(ctx, 1)
	p.m.ActiveRuns.Add(ctx, 1)

	p.mu.Lock()
	if p.started == nil {
		p.started = make(map[int64]time.Time)
	}
	p.nextID++
	p.started[p.nextID] = p.clock()
	p.mu.Unlock()
}

// RunFinished records the end of an analysis run. A non-nil err marks the run
// as failed.
func (p *PipelineMetrics) RunFinished(err error) {
	ctx := context.Background()
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.m.RunsFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	p.m.ActiveRuns.Add(ctx, -1)

	p.mu.Lock()
	// Runs finish in unknown order; attribute the duration to the oldest
	// outstanding start. With at most one run per channel this is exact in
	// practice.
	var oldestID int64
	var oldest time.Time
	for id, t := range p.started {
		if oldestID == 0 || t.Before(oldest) {
			oldestID, oldest = id, t
		}
	}
	if oldestID != 0 {
		delete(p.started, oldestID)
	}
	p.mu.Unlock()

	if oldestID != 0 {
		p.m.RunDuration.Record(ctx, p.clock().Sub(oldest).Seconds())
	}
}

// PhaseCompleted records the duration of a finished pipeline phase.
func (p *PipelineMetrics) PhaseCompleted(phase pipeline.Phase, d time.Duration) {
	p.m.PhaseDuration.Record(context.Background(), d.Seconds(),
		metric.WithAttributes(attribute.String("phase", string(phase))),
	)
}

// SourcesClaimed drains the pending-sources gauge when a run claims a
// session's queue.
func (p *PipelineMetrics) SourcesClaimed(n int) {
	p.m.PendingSources.Add(context.Background(), -int64(n))
}

// ProviderCall records one external provider request, and its error when it
// failed.
func (p *PipelineMetrics) ProviderCall(provider, kind string, err error) {
	ctx := context.Background()
	status := "ok"
	if err != nil {
		status = "error"
		p.m.RecordProviderError(ctx, provider, kind)
	}
	p.m.RecordProviderRequest(ctx, provider, kind, status)
}
