package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/protokollo/protokollo/internal/pipeline"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// collect gathers all metric data from the reader.
func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

// findMetric searches for a metric by name across all scope metrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestPhaseDurationHistogram(t *testing.T) {
	m, reader := newTestMetrics(t)
	pm := NewPipelineMetrics(m)

	pm.PhaseCompleted(pipeline.PhaseTranscribe, 42*time.Second)
	pm.PhaseCompleted(pipeline.PhaseAnalyze, 90*time.Second)

	rm := collect(t, reader)
	md := findMetric(rm, "protokollo.pipeline.phase.duration")
	if md == nil {
		t.Fatal("phase duration metric not found")
	}
	hist, ok := md.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("unexpected data type %T", md.Data)
	}
	if len(hist.DataPoints) != 2 {
		t.Fatalf("expected 2 data points (one per phase), got %d", len(hist.DataPoints))
	}
	for _, dp := range hist.DataPoints {
		phase, ok := dp.Attributes.Value(attribute.Key("phase"))
		if !ok {
			t.Fatal("data point missing phase attribute")
		}
		switch phase.AsString() {
		case "transcribe":
			if dp.Sum != 42 {
				t.Errorf("transcribe sum = %v, want 42", dp.Sum)
			}
		case "analyze":
			if dp.Sum != 90 {
				t.Errorf("analyze sum = %v, want 90", dp.Sum)
			}
		default:
			t.Errorf("unexpected phase attribute %q", phase.AsString())
		}
	}
}

func TestRunLifecycleCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	pm := NewPipelineMetrics(m)

	pm.RunStarted()
	pm.RunFinished(nil)
	pm.RunStarted()
	pm.RunFinished(errors.New("boom"))

	rm := collect(t, reader)

	started := findMetric(rm, "protokollo.pipeline.runs.started")
	if started == nil {
		t.Fatal("runs.started metric not found")
	}
	sum, ok := started.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("unexpected data type %T", started.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("runs.started = %d, want 2", total)
	}

	finished := findMetric(rm, "protokollo.pipeline.runs.finished")
	if finished == nil {
		t.Fatal("runs.finished metric not found")
	}
	fsum := finished.Data.(metricdata.Sum[int64])
	byStatus := map[string]int64{}
	for _, dp := range fsum.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		byStatus[status.AsString()] += dp.Value
	}
	if byStatus["ok"] != 1 || byStatus["error"] != 1 {
		t.Errorf("runs.finished by status = %v, want ok=1 error=1", byStatus)
	}

	active := findMetric(rm, "protokollo.pipeline.active_runs")
	if active == nil {
		t.Fatal("active_runs metric not found")
	}
	asum := active.Data.(metricdata.Sum[int64])
	var activeTotal int64
	for _, dp := range asum.DataPoints {
		activeTotal += dp.Value
	}
	if activeTotal != 0 {
		t.Errorf("active_runs = %d after all runs finished, want 0", activeTotal)
	}
}

func TestRunDurationObserved(t *testing.T) {
	m, reader := newTestMetrics(t)
	pm := NewPipelineMetrics(m)

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	pm.clock = func() time.Time { return now }

	pm.RunStarted()
	now = now.Add(75 * time.Second)
	pm.RunFinished(nil)

	rm := collect(t, reader)
	md := findMetric(rm, "protokollo.pipeline.run.duration")
	if md == nil {
		t.Fatal("run duration metric not found")
	}
	hist := md.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 {
		t.Fatalf("expected 1 data point, got %d", len(hist.DataPoints))
	}
	if got := hist.DataPoints[0].Sum; got != 75 {
		t.Errorf("run duration = %v, want 75", got)
	}
}

func TestRecordProviderRequestAndError(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordProviderRequest(ctx, "deepgram", "stt", "ok")
	m.RecordProviderRequest(ctx, "openai", "llm", "error")
	m.RecordProviderError(ctx, "openai", "llm")

	rm := collect(t, reader)

	reqs := findMetric(rm, "protokollo.provider.requests")
	if reqs == nil {
		t.Fatal("provider.requests metric not found")
	}
	rsum := reqs.Data.(metricdata.Sum[int64])
	if len(rsum.DataPoints) != 2 {
		t.Errorf("expected 2 request data points, got %d", len(rsum.DataPoints))
	}

	errs := findMetric(rm, "protokollo.provider.errors")
	if errs == nil {
		t.Fatal("provider.errors metric not found")
	}
	esum := errs.Data.(metricdata.Sum[int64])
	if len(esum.DataPoints) != 1 || esum.DataPoints[0].Value != 1 {
		t.Errorf("unexpected provider.errors data: %+v", esum.DataPoints)
	}
}

func TestProviderCall(t *testing.T) {
	m, reader := newTestMetrics(t)
	pm := NewPipelineMetrics(m)

	pm.ProviderCall("deepgram", "stt", nil)
	pm.ProviderCall("deepgram", "stt", nil)
	pm.ProviderCall("openai", "llm", errors.New("overloaded"))

	rm := collect(t, reader)

	reqs := findMetric(rm, "protokollo.provider.requests")
	if reqs == nil {
		t.Fatal("provider.requests metric not found")
	}
	rsum := reqs.Data.(metricdata.Sum[int64])
	byProvider := map[string]int64{}
	for _, dp := range rsum.DataPoints {
		provider, _ := dp.Attributes.Value(attribute.Key("provider"))
		byProvider[provider.AsString()] += dp.Value
	}
	if byProvider["deepgram"] != 2 || byProvider["openai"] != 1 {
		t.Errorf("provider.requests by provider = %v, want deepgram=2 openai=1", byProvider)
	}

	errs := findMetric(rm, "protokollo.provider.errors")
	if errs == nil {
		t.Fatal("provider.errors metric not found")
	}
	esum := errs.Data.(metricdata.Sum[int64])
	if len(esum.DataPoints) != 1 || esum.DataPoints[0].Value != 1 {
		t.Errorf("unexpected provider.errors data: %+v", esum.DataPoints)
	}
}

func TestPendingSourcesGauge(t *testing.T) {
	m, reader := newTestMetrics(t)
	pm := NewPipelineMetrics(m)
	ctx := context.Background()

	m.RecordSourcesQueued(ctx, 2)
	m.RecordSourcesQueued(ctx, 1)
	pm.SourcesClaimed(3)

	rm := collect(t, reader)
	md := findMetric(rm, "protokollo.sources.pending")
	if md == nil {
		t.Fatal("sources.pending metric not found")
	}
	sum := md.Data.(metricdata.Sum[int64])
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 0 {
		t.Errorf("sources.pending = %d after the run claimed the queue, want 0", total)
	}
}

func TestRecordReportDelivered(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordReportDelivered(ctx, "ru")
	m.RecordReportDelivered(ctx, "ru")
	m.RecordReportDelivered(ctx, "en")

	rm := collect(t, reader)
	md := findMetric(rm, "protokollo.reports.delivered")
	if md == nil {
		t.Fatal("reports.delivered metric not found")
	}
	sum := md.Data.(metricdata.Sum[int64])
	byLang := map[string]int64{}
	for _, dp := range sum.DataPoints {
		lang, _ := dp.Attributes.Value(attribute.Key("language"))
		byLang[lang.AsString()] += dp.Value
	}
	if byLang["ru"] != 2 || byLang["en"] != 1 {
		t.Errorf("reports.delivered by language = %v, want ru=2 en=1", byLang)
	}
}
