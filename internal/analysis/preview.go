package analysis

import (
	"fmt"
	"strings"

	"github.com/protokollo/protokollo/internal/transcript"
)

// summaryBudget caps the executive summary excerpt in the chat preview so a
// verbose model cannot flood the channel.
const summaryBudget = 300

// Preview builds the short human-readable summary sent to the chat right
// after analysis, before the report files. merged supplies participant count
// and duration when the passport block is missing them.
func Preview(doc *Document, merged transcript.Result) string {
	var b strings.Builder

	topic := doc.MeetingTopicShort
	if topic == "" {
		topic = "Meeting"
	}
	fmt.Fprintf(&b, "**%s**\n", topic)

	participants := doc.Passport.ParticipantsCount
	if participants == 0 {
		participants = merged.SpeakerCount
	}
	fmt.Fprintf(&b, "Participants: %d · Duration: %s",
		participants, transcript.FormatTimestamp(merged.DurationSeconds))
	if doc.Passport.Tone != "" {
		fmt.Fprintf(&b, " · Tone: %s", doc.Passport.Tone)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "Topics: %d · Decisions: %d · Action items: %d\n",
		len(doc.Topics), len(doc.Decisions), len(doc.ActionItems))

	if doc.ExecutiveSummary != "" {
		b.WriteByte('\n')
		b.WriteString(Truncate(doc.ExecutiveSummary, summaryBudget))
		b.WriteByte('\n')
	}
	if len(doc.Decisions) > 0 && doc.Decisions[0].Decision != "" {
		fmt.Fprintf(&b, "\n%s %s\n", doc.Decisions[0].Status.Glyph(), doc.Decisions[0].Decision)
	}
	if doc.Conclusion.MainInsight != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", doc.Conclusion.MainInsight)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Truncate cuts s to at most budget runes, appending an ellipsis when
// anything was removed.
func Truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return strings.TrimRight(string(runes[:budget]), " ") + "…"
}
