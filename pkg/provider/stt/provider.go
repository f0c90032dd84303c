// Package stt defines the Provider interface for speech-to-text backends.
//
// An STT provider wraps a prerecorded transcription service (e.g., Deepgram)
// and turns one audio file into a diarized transcript. Providers are handed
// complete files rather than streams: meeting recordings arrive as uploads or
// downloads, so there is no live audio to stream.
//
// Implementations must be safe for concurrent use; a single provider instance
// is shared by analysis runs in different channels.
package stt

import (
	"context"
	"errors"

	"github.com/protokollo/protokollo/internal/transcript"
)

// ErrNoSpeech is returned when the service processed the audio but found no
// transcribable speech in it. Callers may treat this as a skippable source
// rather than a hard failure.
var ErrNoSpeech = errors.New("stt: no speech recognized")

// Provider is the abstraction over any prerecorded STT backend.
type Provider interface {
	// Transcribe submits the audio file at path and blocks until the service
	// returns a diarized transcript. The context bounds the whole request;
	// implementations must abandon the call when it is cancelled.
	Transcribe(ctx context.Context, path string) (transcript.Result, error)

	// Name returns a short identifier for logs and metrics, e.g. "deepgram".
	Name() string
}
