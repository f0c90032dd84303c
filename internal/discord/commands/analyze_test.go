package commands

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/protokollo/protokollo/internal/pipeline"
	"github.com/protokollo/protokollo/internal/report"
	"github.com/protokollo/protokollo/internal/session"
	"github.com/protokollo/protokollo/internal/transcript"
)

// fakeMessenger records channel traffic.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []string
	edits   []string
	complex []*discordgo.MessageSend
	sendErr error
}

func (f *fakeMessenger) ChannelMessageSend(_ string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, content)
	return &discordgo.Message{ID: "m-1"}, nil
}

func (f *fakeMessenger) ChannelMessageEdit(_, _, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, content)
	return &discordgo.Message{ID: "m-1"}, nil
}

func (f *fakeMessenger) ChannelMessageSendComplex(_ string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complex = append(f.complex, data)
	return &discordgo.Message{ID: "m-2"}, nil
}

// fakeRunner returns a canned outcome and drives the progress callback the
// way the real pipeline does.
type fakeRunner struct {
	outcome *pipeline.Outcome
	err     error

	runCalls      int
	rerenderCalls int
	lastLang      string
}

func (f *fakeRunner) Run(_ context.Context, sess *session.Session, lang string, progress pipeline.ProgressFunc) (*pipeline.Outcome, error) {
	f.runCalls++
	f.lastLang = lang
	if _, _, err := sess.StartRun(); err != nil {
		return nil, err
	}
	for _, p := range []pipeline.Phase{pipeline.PhaseDownload, pipeline.PhaseTranscribe, pipeline.PhaseMerge, pipeline.PhaseAnalyze, pipeline.PhaseRender} {
		if progress != nil {
			progress(p)
		}
	}
	if f.err != nil {
		sess.FailRun()
		return nil, f.err
	}
	sess.CompleteRun(f.outcome.Merged, f.outcome.Document)
	return f.outcome, nil
}

func (f *fakeRunner) Rerender(_ context.Context, sess *session.Session, lang string, progress pipeline.ProgressFunc) (*pipeline.Outcome, error) {
	f.rerenderCalls++
	f.lastLang = lang
	if _, _, err := sess.StartRerender(); err != nil {
		return nil, err
	}
	if progress != nil {
		progress(pipeline.PhaseAnalyze)
		progress(pipeline.PhaseRender)
	}
	if f.err != nil {
		sess.FinishRerender(nil)
		return nil, f.err
	}
	sess.FinishRerender(f.outcome.Document)
	return f.outcome, nil
}

// fakeMetrics counts delivered reports.
type fakeMetrics struct {
	mu        sync.Mutex
	delivered []string
}

func (f *fakeMetrics) RecordReportDelivered(_ context.Context, language string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, language)
}

func (f *fakeMetrics) RecordSourcesQueued(context.Context, int) {}

func testCommands(runner Runner, metrics Metrics) (*Commands, *session.Store) {
	store := session.NewStore()
	return &Commands{
		store:   store,
		runner:  runner,
		metrics: metrics,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, store
}

func sampleOutcome() *pipeline.Outcome {
	return &pipeline.Outcome{
		Merged: transcript.Result{FullText: "hello", SpeakerCount: 2, DurationSeconds: 120},
		Artifacts: []report.Artifact{
			{Name: "sync_2026-03-14_report.pdf", Data: []byte("%PDF")},
			{Name: "sync_2026-03-14_interactive.html", Data: []byte("<html>")},
			{Name: "sync_2026-03-14_transcription.txt", Data: []byte("hello")},
		},
		Preview: "**Sync**\nParticipants: 2",
	}
}

func TestExecuteDeliversArtifactsAndPreview(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: sampleOutcome()}
	metrics := &fakeMetrics{}
	c, store := testCommands(runner, metrics)

	sess := store.GetOrCreate("chan-1")
	if err := sess.AddLink("https://youtu.be/abc"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	m := &fakeMessenger{}
	c.execute(m, "chan-1", "ru", false)

	if runner.runCalls != 1 {
		t.Fatalf("run calls = %d, want 1", runner.runCalls)
	}
	if runner.lastLang != "ru" {
		t.Errorf("language = %q, want ru", runner.lastLang)
	}

	if len(m.complex) != 3 {
		t.Fatalf("artifact messages = %d, want 3", len(m.complex))
	}
	if m.complex[0].Files[0].Name != "sync_2026-03-14_report.pdf" {
		t.Errorf("first artifact = %q", m.complex[0].Files[0].Name)
	}
	if !strings.Contains(m.complex[1].Content, "Interactive report") {
		t.Errorf("html caption = %q", m.complex[1].Content)
	}

	// Status message, then the preview.
	if len(m.sent) != 2 {
		t.Fatalf("plain messages = %d, want 2 (status + preview)", len(m.sent))
	}
	if !strings.Contains(m.sent[1], "**Sync**") {
		t.Errorf("preview = %q", m.sent[1])
	}

	last := m.edits[len(m.edits)-1]
	if !strings.Contains(last, "Analysis complete") {
		t.Errorf("final status edit = %q", last)
	}

	if len(metrics.delivered) != 1 || metrics.delivered[0] != "ru" {
		t.Errorf("delivered metrics = %v", metrics.delivered)
	}
}

func TestExecutePhrasesExpectedRejections(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: sampleOutcome()}
	c, _ := testCommands(runner, nil)

	// No sources queued: StartRun fails inside the runner.
	m := &fakeMessenger{}
	c.execute(m, "chan-2", "en", false)

	last := m.edits[len(m.edits)-1]
	if !strings.Contains(last, "Nothing to analyze") {
		t.Errorf("final status = %q, want no-sources phrasing", last)
	}
	if len(m.complex) != 0 {
		t.Errorf("artifacts delivered on failure: %d", len(m.complex))
	}
}

func TestExecuteRerenderUsesCache(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: sampleOutcome()}
	c, store := testCommands(runner, nil)

	sess := store.GetOrCreate("chan-3")
	sess.CompleteRun(transcript.Result{FullText: "cached"}, nil)

	m := &fakeMessenger{}
	c.execute(m, "chan-3", "kk", true)

	if runner.rerenderCalls != 1 {
		t.Fatalf("rerender calls = %d, want 1", runner.rerenderCalls)
	}
	if runner.runCalls != 0 {
		t.Errorf("full run triggered by re-render")
	}
	if len(m.complex) != 3 {
		t.Errorf("artifact messages = %d, want 3", len(m.complex))
	}
}

func TestExecuteSurvivesStatusMessageFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{outcome: sampleOutcome()}
	c, store := testCommands(runner, nil)

	sess := store.GetOrCreate("chan-4")
	if err := sess.AddLink("https://youtu.be/abc"); err != nil {
		t.Fatalf("AddLink: %v", err)
	}

	m := &fakeMessenger{sendErr: context.DeadlineExceeded}
	c.execute(m, "chan-4", "en", false)

	// The run itself must still have completed.
	if runner.runCalls != 1 {
		t.Errorf("run calls = %d, want 1", runner.runCalls)
	}
}
