// Package session tracks per-channel workflow state: pending sources, the
// busy guard for the single-active-run invariant, and the transcript/analysis
// cache that makes re-rendering in another language cheap.
package session

import (
	"errors"
	"sync"

	"github.com/protokollo/protokollo/internal/analysis"
	"github.com/protokollo/protokollo/internal/transcript"
)

var (
	// ErrBusy is returned when an operation conflicts with an active run.
	// It is an expected, user-facing rejection, not a fault.
	ErrBusy = errors.New("session: a run is already in progress")

	// ErrNoSources is returned by StartRun when nothing has been queued.
	ErrNoSources = errors.New("session: no pending sources")

	// ErrNoCache is returned by StartRerender when no previous run has
	// populated the transcript/analysis cache.
	ErrNoCache = errors.New("session: nothing analyzed yet")
)

// FileSource is one user-uploaded media attachment awaiting download.
type FileSource struct {
	// Name is the original file name, used for logs and temp file naming.
	Name string

	// URL is where the chat platform serves the attachment bytes.
	URL string
}

// Session is the mutable state for one channel. All exported methods are
// safe for concurrent use; the processing flag is checked and set under the
// same mutex, so two runs for the same session can never start concurrently.
//
// Sessions are ephemeral: they live in memory and die with the process.
type Session struct {
	mu           sync.Mutex
	pendingFiles []FileSource
	pendingLinks []string
	processing   bool

	// Caches survive resets so a later re-render can skip download and
	// transcription entirely. Only CompleteRun overwrites them.
	cachedTranscript *transcript.Result
	cachedAnalysis   *analysis.Document
}

// AddFile queues an uploaded attachment for the next run. Rejected with
// [ErrBusy] while a run is active: queueing into a run the user can no longer
// see would be silent, and dropping would lose data, so the caller is told to
// wait instead.
func (s *Session) AddFile(f FileSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrBusy
	}
	s.pendingFiles = append(s.pendingFiles, f)
	return nil
}

// AddLink queues a URL source for the next run. Same busy policy as AddFile.
func (s *Session) AddLink(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrBusy
	}
	s.pendingLinks = append(s.pendingLinks, url)
	return nil
}

// StartRun claims the pending sources and marks the session busy. It returns
// the claimed files and links in arrival order. Fails with [ErrBusy] if a run
// is active and [ErrNoSources] if nothing is queued; neither failure mutates
// any state.
func (s *Session) StartRun() ([]FileSource, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return nil, nil, ErrBusy
	}
	if len(s.pendingFiles) == 0 && len(s.pendingLinks) == 0 {
		return nil, nil, ErrNoSources
	}
	s.processing = true
	return s.pendingFiles, s.pendingLinks, nil
}

// CompleteRun records a successful run: pending lists and the busy flag are
// cleared and both cache fields are overwritten with the new artifacts.
func (s *Session) CompleteRun(merged transcript.Result, doc *analysis.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.cachedTranscript = &merged
	s.cachedAnalysis = doc
}

// FailRun resets the session after a failed run. Pending lists and the busy
// flag are cleared; caches from earlier successful runs are left untouched.
func (s *Session) FailRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// StartRerender marks the session busy for a cached re-render. It returns
// the cached transcript and analysis. Fails with [ErrBusy] during a run and
// [ErrNoCache] when no completed run has populated the cache. Pending lists
// are not touched: sources queued for the next run stay queued.
func (s *Session) StartRerender() (transcript.Result, *analysis.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return transcript.Result{}, nil, ErrBusy
	}
	if s.cachedTranscript == nil && s.cachedAnalysis == nil {
		return transcript.Result{}, nil, ErrNoCache
	}
	s.processing = true
	var merged transcript.Result
	if s.cachedTranscript != nil {
		merged = *s.cachedTranscript
	}
	return merged, s.cachedAnalysis, nil
}

// FinishRerender releases the busy flag after a re-render, successful or not.
// A successful re-render in a new language also refreshes the cached
// analysis so the preview and any further re-renders reflect it.
func (s *Session) FinishRerender(doc *analysis.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
	if doc != nil {
		s.cachedAnalysis = doc
	}
}

// Processing reports whether a run or re-render is active.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// PendingCounts returns the numbers of queued files and links.
func (s *Session) PendingCounts() (files, links int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pendingFiles), len(s.pendingLinks)
}

// HasCache reports whether a completed run has left artifacts to re-render.
func (s *Session) HasCache() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedTranscript != nil || s.cachedAnalysis != nil
}

// Cached returns the cached artifacts without claiming the session.
func (s *Session) Cached() (*transcript.Result, *analysis.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedTranscript, s.cachedAnalysis
}

// reset clears pending state. Caller must hold s.mu.
func (s *Session) reset() {
	s.pendingFiles = nil
	s.pendingLinks = nil
	s.processing = false
}
