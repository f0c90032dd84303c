package report

import (
	"log/slog"
	"time"

	"github.com/protokollo/protokollo/internal/analysis"
)

// Renderer produces the three report artifacts from an analysis document.
// The zero value is usable; FontDir enables full Unicode PDF output.
type Renderer struct {
	// FontDir is the directory holding the TrueType fonts used for PDF
	// output. When empty or unreadable, PDF rendering falls back to the
	// built-in core fonts (Latin coverage only) with a logged warning.
	FontDir string
	// Clock supplies the report date; nil means time.Now.
	Clock func() time.Time
	// Log receives font-fallback and size warnings; nil means slog.Default.
	Log *slog.Logger
}

func (r *Renderer) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *Renderer) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Artifact is one rendered report file ready for delivery.
type Artifact struct {
	Name string
	Data []byte
}

// topicOrDefault returns the short topic, or a placeholder when absent.
func topicOrDefault(doc *analysis.Document, str Strings) string {
	if doc != nil && doc.MeetingTopicShort != "" {
		return doc.MeetingTopicShort
	}
	return str.Topic
}

func orDash(s string) string {
	if s == "" {
		return "–"
	}
	return s
}
