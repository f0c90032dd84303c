package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/protokollo/protokollo/internal/report"
	"github.com/protokollo/protokollo/internal/session"
	"github.com/protokollo/protokollo/internal/transcript"
	llmmock "github.com/protokollo/protokollo/pkg/provider/llm/mock"
	sttmock "github.com/protokollo/protokollo/pkg/provider/stt/mock"
)

// fakeFetcher writes a real file per source so temp cleanup is observable.
type fakeFetcher struct {
	mu      sync.Mutex
	dir     string
	n       int
	failFor map[string]error
	created []string
}

func (f *fakeFetcher) make(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[name]; err != nil {
		return "", err
	}
	f.n++
	path := filepath.Join(f.dir, fmt.Sprintf("src%d.mp3", f.n))
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return "", err
	}
	f.created = append(f.created, path)
	return path, nil
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	return f.make(url)
}

func (f *fakeFetcher) FetchFile(_ context.Context, _, name string) (string, error) {
	return f.make(name)
}

// fakePreparer passes audio through; Segments, when set, simulates an
// oversize split.
type fakePreparer struct {
	Segments []string
}

func (p *fakePreparer) EnsureAudio(_ context.Context, path string) (string, error) {
	return path, nil
}

func (p *fakePreparer) SplitIfOversized(_ context.Context, path string, _ int64) ([]string, error) {
	if len(p.Segments) > 0 {
		return p.Segments, nil
	}
	return []string{path}, nil
}

// recordingMetrics captures every telemetry hook the Runner fires.
type recordingMetrics struct {
	mu             sync.Mutex
	started        int
	finished       []error
	phases         []Phase
	sourcesClaimed int
	providerCalls  []string // "provider/kind/ok|error"
}

func (m *recordingMetrics) RunStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *recordingMetrics) RunFinished(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, err)
}

func (m *recordingMetrics) PhaseCompleted(phase Phase, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases = append(m.phases, phase)
}

func (m *recordingMetrics) SourcesClaimed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourcesClaimed += n
}

func (m *recordingMetrics) ProviderCall(provider, kind string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.providerCalls = append(m.providerCalls, provider+"/"+kind+"/"+status)
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(bytes.Buffer), nil))
}

func newRunner(t *testing.T, f Fetcher, p Preparer, sttP *sttmock.Provider, llmP *llmmock.Provider) *Runner {
	t.Helper()
	r, err := NewRunner(f, p, sttP, llmP, &report.Renderer{Log: discardLog()}, discardLog())
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func seededSession(t *testing.T, files []string, links []string) *session.Session {
	t.Helper()
	sess := session.NewStore().GetOrCreate("chan")
	for _, f := range files {
		if err := sess.AddFile(session.FileSource{Name: f, URL: "https://cdn/" + f}); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range links {
		if err := sess.AddLink(l); err != nil {
			t.Fatal(err)
		}
	}
	return sess
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{
		FullText: "full", SpeakerText: "Speaker 1 [00:00]: full",
		SpeakerCount: 2, Language: "ru", DurationSeconds: 60,
	}}
	llmP := &llmmock.Provider{Response: []byte(`{"meeting_topic_short":"Синк","executive_summary":"Коротко."}`)}
	r := newRunner(t, fetcher, &fakePreparer{}, sttP, llmP)
	sess := seededSession(t, []string{"a.mp3", "b.mp3"}, []string{"https://example.com/c.mp3"})

	var phases []Phase
	out, err := r.Run(context.Background(), sess, "ru", func(p Phase) { phases = append(phases, p) })
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if sttP.CallCount() != 3 {
		t.Errorf("stt calls = %d, want one per source", sttP.CallCount())
	}
	if llmP.CallCount() != 1 {
		t.Errorf("llm calls = %d, want 1", llmP.CallCount())
	}
	if len(out.Artifacts) != 3 {
		t.Fatalf("artifacts = %d, want pdf+html+txt", len(out.Artifacts))
	}
	if out.Document.MeetingTopicShort != "Синк" {
		t.Errorf("document topic = %q", out.Document.MeetingTopicShort)
	}
	// Three sources with identical mock transcripts: durations add up,
	// speaker counts do not.
	if out.Merged.DurationSeconds != 180 {
		t.Errorf("merged duration = %v, want 180", out.Merged.DurationSeconds)
	}
	if out.Merged.SpeakerCount != 2 {
		t.Errorf("merged speakers = %v, want 2", out.Merged.SpeakerCount)
	}

	want := []Phase{PhaseDownload, PhaseTranscribe, PhaseMerge, PhaseAnalyze, PhaseRender}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v", phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase[%d] = %q, want %q", i, phases[i], want[i])
		}
	}

	if sess.Processing() {
		t.Error("session still marked processing after run")
	}
	if !sess.HasCache() {
		t.Error("session cache not populated")
	}
	for _, p := range fetcher.created {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("temp file %q not cleaned up", p)
		}
	}
}

func TestRunReportsTelemetry(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 10}}
	llmP := &llmmock.Provider{}
	metrics := &recordingMetrics{}
	r, err := NewRunner(fetcher, &fakePreparer{}, sttP, llmP,
		&report.Renderer{Log: discardLog()}, discardLog(), WithMetrics(metrics))
	if err != nil {
		t.Fatal(err)
	}
	sess := seededSession(t, []string{"a.mp3", "b.mp3"}, []string{"https://example.com/c.mp3"})

	if _, err := r.Run(context.Background(), sess, "en", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if metrics.started != 1 {
		t.Errorf("runs started = %d, want 1", metrics.started)
	}
	if len(metrics.finished) != 1 || metrics.finished[0] != nil {
		t.Errorf("runs finished = %v, want one success", metrics.finished)
	}
	if metrics.sourcesClaimed != 3 {
		t.Errorf("sources claimed = %d, want 3", metrics.sourcesClaimed)
	}
	want := []string{"mock/stt/ok", "mock/stt/ok", "mock/stt/ok", "mock/llm/ok"}
	if len(metrics.providerCalls) != len(want) {
		t.Fatalf("provider calls = %v, want %v", metrics.providerCalls, want)
	}
	for i := range want {
		if metrics.providerCalls[i] != want[i] {
			t.Errorf("provider call[%d] = %q, want %q", i, metrics.providerCalls[i], want[i])
		}
	}
	if len(metrics.phases) != 5 {
		t.Errorf("phase completions = %v, want all five phases", metrics.phases)
	}
}

func TestRunReportsProviderFailure(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 10}}
	llmP := &llmmock.Provider{Err: errors.New("rate limited")}
	metrics := &recordingMetrics{}
	r, err := NewRunner(fetcher, &fakePreparer{}, sttP, llmP,
		&report.Renderer{Log: discardLog()}, discardLog(), WithMetrics(metrics))
	if err != nil {
		t.Fatal(err)
	}
	sess := seededSession(t, []string{"a.mp3"}, nil)

	if _, err := r.Run(context.Background(), sess, "en", nil); err == nil {
		t.Fatal("Run() should surface the analysis failure")
	}

	if got := metrics.providerCalls[len(metrics.providerCalls)-1]; got != "mock/llm/error" {
		t.Errorf("last provider call = %q, want mock/llm/error", got)
	}
	if len(metrics.finished) != 1 || metrics.finished[0] == nil {
		t.Errorf("runs finished = %v, want one failure", metrics.finished)
	}
}

func TestRunToleratesPartialSourceFailure(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{
		dir:     t.TempDir(),
		failFor: map[string]error{"broken.mp3": errors.New("404")},
	}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 10}}
	r := newRunner(t, fetcher, &fakePreparer{}, sttP, &llmmock.Provider{})
	sess := seededSession(t, []string{"broken.mp3", "good.mp3"}, nil)

	out, err := r.Run(context.Background(), sess, "en", nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want success despite one bad source", err)
	}
	if sttP.CallCount() != 1 {
		t.Errorf("stt calls = %d, want 1", sttP.CallCount())
	}
	if out.Merged.DurationSeconds != 10 {
		t.Errorf("merged duration = %v", out.Merged.DurationSeconds)
	}
}

func TestRunAllSourcesFailed(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{
		dir:     t.TempDir(),
		failFor: map[string]error{"a.mp3": errors.New("404"), "b.mp3": errors.New("403")},
	}
	llmP := &llmmock.Provider{}
	r := newRunner(t, fetcher, &fakePreparer{}, &sttmock.Provider{}, llmP)
	sess := seededSession(t, []string{"a.mp3", "b.mp3"}, nil)

	_, err := r.Run(context.Background(), sess, "en", nil)
	if !errors.Is(err, ErrNoUsableSource) {
		t.Fatalf("err = %v, want ErrNoUsableSource", err)
	}
	if llmP.CallCount() != 0 {
		t.Error("analysis should not run without a transcript")
	}
	if sess.Processing() {
		t.Error("failed run left session busy")
	}
	if sess.HasCache() {
		t.Error("failed run must not create a cache")
	}
}

func TestRunWhileBusyReturnsErrBusy(t *testing.T) {
	t.Parallel()
	r := newRunner(t, &fakeFetcher{dir: t.TempDir()}, &fakePreparer{}, &sttmock.Provider{}, &llmmock.Provider{})
	sess := seededSession(t, []string{"a.mp3"}, nil)
	if _, _, err := sess.StartRun(); err != nil {
		t.Fatal(err)
	}

	_, err := r.Run(context.Background(), sess, "en", nil)
	if !errors.Is(err, session.ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
}

func TestRunAnalysisFailureKeepsPreviousCache(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 5}}
	llmP := &llmmock.Provider{}
	r := newRunner(t, fetcher, &fakePreparer{}, sttP, llmP)

	sess := seededSession(t, []string{"first.mp3"}, nil)
	if _, err := r.Run(context.Background(), sess, "en", nil); err != nil {
		t.Fatal(err)
	}

	llmP.Err = errors.New("rate limited")
	if err := sess.AddFile(session.FileSource{Name: "second.mp3", URL: "https://cdn/second.mp3"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background(), sess, "en", nil); err == nil {
		t.Fatal("Run() should surface the analysis failure")
	}
	if !sess.HasCache() {
		t.Error("failed run wiped the previous cache")
	}
}

func TestRunMalformedAnalysisJSON(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 5}}
	llmP := &llmmock.Provider{Response: []byte("I am not JSON, sorry")}
	r := newRunner(t, fetcher, &fakePreparer{}, sttP, llmP)
	sess := seededSession(t, []string{"a.mp3"}, nil)

	if _, err := r.Run(context.Background(), sess, "en", nil); err == nil {
		t.Error("Run() should fail on a non-JSON analysis response")
	}
	if sess.Processing() {
		t.Error("failed run left session busy")
	}
}

func TestRunSplitsOversizedAudio(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	segA := filepath.Join(dir, "seg_000.mp3")
	segB := filepath.Join(dir, "seg_001.mp3")
	for _, p := range []string{segA, segB} {
		if err := os.WriteFile(p, []byte("seg"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fetcher := &fakeFetcher{dir: dir}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 30}}
	r := newRunner(t, fetcher, &fakePreparer{Segments: []string{segA, segB}}, sttP, &llmmock.Provider{})
	sess := seededSession(t, []string{"big.mp3"}, nil)

	out, err := r.Run(context.Background(), sess, "en", nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sttP.CallCount() != 2 {
		t.Errorf("stt calls = %d, want one per segment", sttP.CallCount())
	}
	if out.Merged.DurationSeconds != 60 {
		t.Errorf("merged duration = %v, want segment sum", out.Merged.DurationSeconds)
	}
	for _, p := range []string{segA, segB} {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("segment %q not cleaned up", p)
		}
	}
}

func TestRerender(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "ru", DurationSeconds: 5}}
	llmP := &llmmock.Provider{Response: []byte(`{"meeting_topic_short":"Тема"}`)}
	r := newRunner(t, fetcher, &fakePreparer{}, sttP, llmP)
	sess := seededSession(t, []string{"a.mp3"}, nil)

	if _, err := r.Run(context.Background(), sess, "ru", nil); err != nil {
		t.Fatal(err)
	}
	sttCallsAfterRun := sttP.CallCount()

	llmP.Response = []byte(`{"meeting_topic_short":"Topic"}`)
	out, err := r.Rerender(context.Background(), sess, "en", nil)
	if err != nil {
		t.Fatalf("Rerender() error = %v", err)
	}
	if sttP.CallCount() != sttCallsAfterRun {
		t.Error("re-render must not transcribe again")
	}
	if got := llmP.AnalyzeCalls[len(llmP.AnalyzeCalls)-1].Request.Language; got != "en" {
		t.Errorf("re-render analysis language = %q, want en", got)
	}
	if out.Document.MeetingTopicShort != "Topic" {
		t.Errorf("re-rendered topic = %q", out.Document.MeetingTopicShort)
	}
	if sess.Processing() {
		t.Error("session busy after re-render")
	}
}

func TestRerenderWithoutCache(t *testing.T) {
	t.Parallel()
	r := newRunner(t, &fakeFetcher{dir: t.TempDir()}, &fakePreparer{}, &sttmock.Provider{}, &llmmock.Provider{})
	sess := session.NewStore().GetOrCreate("empty")

	if _, err := r.Rerender(context.Background(), sess, "en", nil); !errors.Is(err, session.ErrNoCache) {
		t.Errorf("err = %v, want ErrNoCache", err)
	}
}

func TestRerenderAnalysisFailureKeepsCache(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	sttP := &sttmock.Provider{Result: transcript.Result{FullText: "x", SpeakerText: "x", SpeakerCount: 1, Language: "en", DurationSeconds: 5}}
	llmP := &llmmock.Provider{}
	r := newRunner(t, fetcher, &fakePreparer{}, sttP, llmP)
	sess := seededSession(t, []string{"a.mp3"}, nil)
	if _, err := r.Run(context.Background(), sess, "en", nil); err != nil {
		t.Fatal(err)
	}

	llmP.Err = errors.New("overloaded")
	if _, err := r.Rerender(context.Background(), sess, "kk", nil); err == nil {
		t.Fatal("Rerender() should surface the failure")
	}
	if !sess.HasCache() {
		t.Error("failed re-render wiped the cache")
	}
	if sess.Processing() {
		t.Error("failed re-render left session busy")
	}
}
