// Package llm defines the Provider interface for the analysis step: one
// structured-output completion over a merged meeting transcript.
//
// The model is asked for a JSON document but nothing enforces that it
// complies; providers return the raw bytes and leave interpretation to the
// defensive decoder in internal/analysis.
package llm

import "context"

// Request carries everything the analysis prompt needs.
type Request struct {
	// Transcript is the speaker-attributed merged transcript.
	Transcript string

	// Language is the report language code ("ru", "en", ...) or "original"
	// to keep the language of the recording.
	Language string

	// SpeakerCount and DurationSeconds are merge-engine facts passed as
	// prompt context so the model does not have to re-derive them.
	SpeakerCount    int
	DurationSeconds float64
}

// Provider is the abstraction over any analysis-capable LLM backend.
type Provider interface {
	// Analyze runs the analysis completion and returns the model's raw JSON
	// response body.
	Analyze(ctx context.Context, req Request) ([]byte, error)

	// Name returns a short identifier for logs and metrics, e.g. "openai".
	Name() string
}
