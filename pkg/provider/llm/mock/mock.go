// Package mock provides a mock implementation of the llm.Provider interface
// for testing.
package mock

import (
	"context"
	"sync"

	"github.com/protokollo/protokollo/pkg/provider/llm"
)

// AnalyzeCall records one call to Analyze.
type AnalyzeCall struct {
	Request llm.Request
}

// Provider is a configurable mock llm.Provider. The zero value returns an
// empty JSON object for every call.
type Provider struct {
	mu           sync.Mutex
	AnalyzeCalls []AnalyzeCall

	// AnalyzeFunc, when set, handles calls entirely. Otherwise Response and
	// Err are returned as-is, with a "{}" default response.
	AnalyzeFunc func(ctx context.Context, req llm.Request) ([]byte, error)
	Response    []byte
	Err         error
}

var _ llm.Provider = (*Provider)(nil)

// Analyze implements llm.Provider.
func (p *Provider) Analyze(ctx context.Context, req llm.Request) ([]byte, error) {
	p.mu.Lock()
	p.AnalyzeCalls = append(p.AnalyzeCalls, AnalyzeCall{Request: req})
	p.mu.Unlock()
	if p.AnalyzeFunc != nil {
		return p.AnalyzeFunc(ctx, req)
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Response == nil {
		return []byte("{}"), nil
	}
	return p.Response, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "mock" }

// CallCount returns the number of Analyze calls so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.AnalyzeCalls)
}
