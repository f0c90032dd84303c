package report

import (
	"strings"

	"github.com/protokollo/protokollo/internal/analysis"
)

// TXT renders the plain-text transcript artifact: a short header with the
// meeting topic and report date followed by the speaker-attributed transcript
// verbatim.
func (r *Renderer) TXT(doc *analysis.Document, lang, transcript string) Artifact {
	str := Lookup(ResolveLanguage(lang, doc))
	now := r.now()

	var b strings.Builder
	b.WriteString(str.TranscriptHeader)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n")
	b.WriteString(str.Topic)
	b.WriteString(": ")
	b.WriteString(topicOrDefault(doc, str))
	b.WriteString("\n")
	b.WriteString(str.Date)
	b.WriteString(": ")
	b.WriteString(now.Format("2006-01-02"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")
	if transcript == "" {
		b.WriteString(str.TranscriptUnavailable)
	} else {
		b.WriteString(transcript)
	}
	b.WriteString("\n")

	return Artifact{
		Name: TXTName(topicOrDefault(doc, str), now),
		Data: []byte(b.String()),
	}
}
