// Package mock provides a mock implementation of the stt.Provider interface
// for testing.
package mock

import (
	"context"
	"sync"

	"github.com/protokollo/protokollo/internal/transcript"
	"github.com/protokollo/protokollo/pkg/provider/stt"
)

// TranscribeCall records one call to Transcribe.
type TranscribeCall struct {
	Path string
}

// Provider is a configurable mock stt.Provider. The zero value returns an
// empty transcript for every call. All fields must be set before use; the
// call records are safe to read concurrently after the calls complete.
type Provider struct {
	mu              sync.Mutex
	TranscribeCalls []TranscribeCall

	// TranscribeFunc, when set, handles calls entirely. Otherwise Result and
	// Err are returned as-is.
	TranscribeFunc func(ctx context.Context, path string) (transcript.Result, error)
	Result         transcript.Result
	Err            error
}

var _ stt.Provider = (*Provider)(nil)

// Transcribe implements stt.Provider.
func (p *Provider) Transcribe(ctx context.Context, path string) (transcript.Result, error) {
	p.mu.Lock()
	p.TranscribeCalls = append(p.TranscribeCalls, TranscribeCall{Path: path})
	p.mu.Unlock()
	if p.TranscribeFunc != nil {
		return p.TranscribeFunc(ctx, path)
	}
	return p.Result, p.Err
}

// Name implements stt.Provider.
func (p *Provider) Name() string { return "mock" }

// CallCount returns the number of Transcribe calls so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.TranscribeCalls)
}
