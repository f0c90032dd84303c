// Package pipeline orchestrates one meeting-analysis run: fetching every
// collected source, transcribing, merging, analyzing, and rendering the
// report set. The pipeline owns phase sequencing, per-source failure
// tolerance, timeouts, and temp-file cleanup; session state transitions and
// delivery stay with the caller's chat front end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/protokollo/protokollo/internal/analysis"
	"github.com/protokollo/protokollo/internal/report"
	"github.com/protokollo/protokollo/internal/session"
	"github.com/protokollo/protokollo/internal/transcript"
	"github.com/protokollo/protokollo/pkg/provider/llm"
	"github.com/protokollo/protokollo/pkg/provider/stt"
)

// ErrNoUsableSource is returned when every collected source failed to
// download or transcribe. The run is abandoned and the session keeps its
// previous cache.
var ErrNoUsableSource = errors.New("pipeline: no source produced a transcript")

// Phase identifies a pipeline stage for progress reporting and metrics.
type Phase string

const (
	PhaseDownload   Phase = "download"
	PhaseTranscribe Phase = "transcribe"
	PhaseMerge      Phase = "merge"
	PhaseAnalyze    Phase = "analyze"
	PhaseRender     Phase = "render"
)

// ProgressFunc is invoked as each phase begins, for live status updates.
// May be nil.
type ProgressFunc func(phase Phase)

// Metrics receives pipeline telemetry. May be nil.
type Metrics interface {
	RunStarted()
	RunFinished(err error)
	PhaseCompleted(phase Phase, d time.Duration)
	// SourcesClaimed reports queued sources removed from a session at the
	// start of a run.
	SourcesClaimed(n int)
	// ProviderCall reports one request to an external provider. kind is
	// "stt" or "llm"; err is nil on success.
	ProviderCall(provider, kind string, err error)
}

// Fetcher downloads remote sources to local files.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	FetchFile(ctx context.Context, fileURL, name string) (string, error)
}

// Preparer normalizes a local recording for transcription.
type Preparer interface {
	EnsureAudio(ctx context.Context, path string) (string, error)
	SplitIfOversized(ctx context.Context, path string, maxBytes int64) ([]string, error)
}

// Timeouts bounds the externally-dependent phases. Zero values mean no bound
// beyond the run context.
type Timeouts struct {
	Download   time.Duration
	Transcribe time.Duration
	Analyze    time.Duration
}

// Runner executes analysis runs. All dependencies are required except
// Metrics. One Runner serves all sessions concurrently.
type Runner struct {
	fetcher  Fetcher
	preparer Preparer
	stt      stt.Provider
	llm      llm.Provider
	renderer *report.Renderer
	log      *slog.Logger

	metrics       Metrics
	timeouts      Timeouts
	maxChunkBytes int64
}

// RunnerOption is a functional option for the Runner.
type RunnerOption func(*Runner)

// WithMetrics attaches pipeline telemetry.
func WithMetrics(m Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTimeouts bounds the download, transcription, and analysis phases.
func WithTimeouts(t Timeouts) RunnerOption {
	return func(r *Runner) {
		r.timeouts = t
	}
}

// WithMaxChunkBytes sets the size above which audio is split before
// transcription. Zero disables splitting.
func WithMaxChunkBytes(n int64) RunnerOption {
	return func(r *Runner) {
		r.maxChunkBytes = n
	}
}

// NewRunner wires a pipeline Runner.
func NewRunner(fetcher Fetcher, preparer Preparer, sttProvider stt.Provider,
	llmProvider llm.Provider, renderer *report.Renderer, log *slog.Logger,
	opts ...RunnerOption) (*Runner, error) {
	if fetcher == nil || preparer == nil || sttProvider == nil || llmProvider == nil || renderer == nil {
		return nil, errors.New("pipeline: all dependencies must be non-nil")
	}
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{
		fetcher:  fetcher,
		preparer: preparer,
		stt:      sttProvider,
		llm:      llmProvider,
		renderer: renderer,
		log:      log,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Outcome is the product of a successful run, ready for delivery.
type Outcome struct {
	Merged    transcript.Result
	Document  *analysis.Document
	Artifacts []report.Artifact
	Preview   string
}

// Run claims the session's collected sources and executes a full analysis
// run. On success the session cache is replaced; on failure it is left
// untouched. Session errors (busy, no sources) surface unchanged so the
// front end can phrase them.
func (r *Runner) Run(ctx context.Context, sess *session.Session, lang string, progress ProgressFunc) (*Outcome, error) {
	files, links, err := sess.StartRun()
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.RunStarted()
		r.metrics.SourcesClaimed(len(files) + len(links))
	}

	outcome, err := r.execute(ctx, files, links, lang, progress)
	if r.metrics != nil {
		r.metrics.RunFinished(err)
	}
	if err != nil {
		sess.FailRun()
		return nil, err
	}
	sess.CompleteRun(outcome.Merged, outcome.Document)
	return outcome, nil
}

// Rerender re-analyzes the cached transcript in a new target language and
// renders a fresh report set. No sources are fetched or transcribed.
func (r *Runner) Rerender(ctx context.Context, sess *session.Session, lang string, progress ProgressFunc) (*Outcome, error) {
	merged, _, err := sess.StartRerender()
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.RunStarted()
	}

	doc, err := r.analyze(ctx, merged, lang, progress)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RunFinished(err)
		}
		sess.FinishRerender(nil)
		return nil, err
	}
	outcome, err := r.render(ctx, merged, doc, lang, progress)
	if r.metrics != nil {
		r.metrics.RunFinished(err)
	}
	if err != nil {
		sess.FinishRerender(nil)
		return nil, err
	}
	sess.FinishRerender(doc)
	return outcome, nil
}

func (r *Runner) execute(ctx context.Context, files []session.FileSource, links []string,
	lang string, progress ProgressFunc) (*Outcome, error) {
	var temps []string
	defer func() {
		for _, p := range temps {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				r.log.Warn("pipeline: temp cleanup failed", "path", p, "err", err)
			}
		}
	}()

	// Download. Each source fails independently; a bad link must not sink
	// the recordings that did arrive.
	notify(progress, PhaseDownload)
	start := time.Now()
	var local []string
	for _, f := range files {
		path, err := r.fetchOne(ctx, func(c context.Context) (string, error) {
			return r.fetcher.FetchFile(c, f.URL, f.Name)
		})
		if err != nil {
			r.log.Warn("pipeline: file source failed", "name", f.Name, "err", err)
			continue
		}
		temps = append(temps, path)
		local = append(local, path)
	}
	for _, u := range links {
		path, err := r.fetchOne(ctx, func(c context.Context) (string, error) {
			return r.fetcher.Fetch(c, u)
		})
		if err != nil {
			r.log.Warn("pipeline: link source failed", "url", u, "err", err)
			continue
		}
		temps = append(temps, path)
		local = append(local, path)
	}
	r.phaseDone(PhaseDownload, start)

	// Transcribe, one merged result per source.
	notify(progress, PhaseTranscribe)
	start = time.Now()
	var results []transcript.Result
	for _, path := range local {
		res, created, err := r.transcribeOne(ctx, path)
		temps = append(temps, created...)
		if err != nil {
			r.log.Warn("pipeline: source transcription failed", "path", path, "err", err)
			continue
		}
		results = append(results, res)
	}
	r.phaseDone(PhaseTranscribe, start)
	if len(results) == 0 {
		return nil, ErrNoUsableSource
	}

	notify(progress, PhaseMerge)
	start = time.Now()
	merged := transcript.Merge(results)
	r.phaseDone(PhaseMerge, start)

	doc, err := r.analyze(ctx, merged, lang, progress)
	if err != nil {
		return nil, err
	}
	return r.render(ctx, merged, doc, lang, progress)
}

func (r *Runner) fetchOne(ctx context.Context, fetch func(context.Context) (string, error)) (string, error) {
	ctx, cancel := withTimeout(ctx, r.timeouts.Download)
	defer cancel()
	return fetch(ctx)
}

// transcribeOne normalizes one local recording and transcribes it, splitting
// oversized audio and merging the segment transcripts back into a single
// result. It returns every temp file it created, even on error.
func (r *Runner) transcribeOne(ctx context.Context, path string) (transcript.Result, []string, error) {
	var created []string

	audio, err := r.preparer.EnsureAudio(ctx, path)
	if err != nil {
		return transcript.Result{}, created, err
	}
	if audio != path {
		created = append(created, audio)
	}

	segments, err := r.preparer.SplitIfOversized(ctx, audio, r.maxChunkBytes)
	if err != nil {
		return transcript.Result{}, created, err
	}
	for _, s := range segments {
		if s != audio {
			created = append(created, s)
		}
	}

	var parts []transcript.Result
	for _, seg := range segments {
		segCtx, cancel := withTimeout(ctx, r.timeouts.Transcribe)
		res, err := r.stt.Transcribe(segCtx, seg)
		cancel()
		r.providerCall(r.stt.Name(), "stt", err)
		if err != nil {
			if errors.Is(err, stt.ErrNoSpeech) {
				r.log.Info("pipeline: segment had no speech", "path", seg)
				continue
			}
			return transcript.Result{}, created, err
		}
		parts = append(parts, res)
	}
	if len(parts) == 0 {
		return transcript.Result{}, created, stt.ErrNoSpeech
	}
	return transcript.Merge(parts), created, nil
}

func (r *Runner) analyze(ctx context.Context, merged transcript.Result, lang string,
	progress ProgressFunc) (*analysis.Document, error) {
	notify(progress, PhaseAnalyze)
	start := time.Now()
	defer func() { r.phaseDone(PhaseAnalyze, start) }()

	ctx, cancel := withTimeout(ctx, r.timeouts.Analyze)
	defer cancel()

	raw, err := r.llm.Analyze(ctx, llm.Request{
		Transcript:      merged.SpeakerText,
		Language:        lang,
		SpeakerCount:    merged.SpeakerCount,
		DurationSeconds: merged.DurationSeconds,
	})
	r.providerCall(r.llm.Name(), "llm", err)
	if err != nil {
		return nil, fmt.Errorf("pipeline: analysis: %w", err)
	}
	doc, err := analysis.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("pipeline: analysis response: %w", err)
	}
	return doc, nil
}

// render produces the three artifacts concurrently.
func (r *Runner) render(ctx context.Context, merged transcript.Result, doc *analysis.Document,
	lang string, progress ProgressFunc) (*Outcome, error) {
	notify(progress, PhaseRender)
	start := time.Now()
	defer func() { r.phaseDone(PhaseRender, start) }()

	artifacts := make([]report.Artifact, 3)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := r.renderer.PDF(doc, lang)
		if err != nil {
			return err
		}
		artifacts[0] = a
		return nil
	})
	g.Go(func() error {
		artifacts[1] = r.renderer.HTML(doc, lang, merged.SpeakerText)
		return nil
	})
	g.Go(func() error {
		artifacts[2] = r.renderer.TXT(doc, lang, merged.SpeakerText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: render: %w", err)
	}

	return &Outcome{
		Merged:    merged,
		Document:  doc,
		Artifacts: artifacts,
		Preview:   analysis.Preview(doc, merged),
	}, nil
}

func (r *Runner) providerCall(provider, kind string, err error) {
	if r.metrics != nil {
		r.metrics.ProviderCall(provider, kind, err)
	}
}

func (r *Runner) phaseDone(phase Phase, start time.Time) {
	d := time.Since(start)
	r.log.Debug("pipeline: phase complete", "phase", string(phase), "duration", d)
	if r.metrics != nil {
		r.metrics.PhaseCompleted(phase, d)
	}
}

func notify(progress ProgressFunc, phase Phase) {
	if progress != nil {
		progress(phase)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
