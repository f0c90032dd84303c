// Package transcript holds the transcription result types and the merge
// engine that combines per-source results into one logical session
// transcript.
package transcript

import "fmt"

// LanguageUnknown is the sentinel used when the STT vendor did not report a
// detected language.
const LanguageUnknown = "unknown"

// Result is the output of one transcription call for a single audio source
// (or a single chunk of an oversized source). It is immutable once produced.
type Result struct {
	// FullText is the plain transcript without speaker labels.
	FullText string

	// SpeakerText is the transcript with inline speaker labels and
	// timestamps, e.g. "[03:15] Speaker 2:".
	SpeakerText string

	// SpeakerCount is the number of distinct speakers the vendor diarized.
	// Always ≥ 1 for a non-empty recording.
	SpeakerCount int

	// Language is the detected language code, or [LanguageUnknown].
	Language string

	// DurationSeconds is the audio duration. Never negative.
	DurationSeconds float64
}

// FormatTimestamp renders a second offset as "HH:MM:SS", or "MM:SS" when the
// offset is under one hour. Negative inputs are clamped to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
