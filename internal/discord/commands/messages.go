package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/protokollo/protokollo/internal/analysis"
	"github.com/protokollo/protokollo/internal/pipeline"
	"github.com/protokollo/protokollo/internal/session"
)

// errorExcerptBudget bounds the error detail shown in chat. Full detail goes
// to the operator log only.
const errorExcerptBudget = 400

const helpText = `**Protokollo** turns meeting recordings into structured reports.

**How to use it**
1. Upload audio/video files into this channel, or paste links (YouTube, Google Drive, direct media URLs).
2. Run ` + "`/analyze`" + ` and pick a report language.
3. Get back a PDF report, an interactive HTML version, and the full transcript.

**Commands**
` + "`/analyze`" + ` — analyze everything queued in this channel
` + "`/rerender`" + ` — rebuild the last report in another language (no re-transcription)
` + "`/status`" + ` — what is queued and whether a run is active
` + "`/help`" + ` — this message

Accepted files: mp3, wav, ogg, m4a, aac, flac, opus, mp4, avi, mov, mkv, webm and friends.`

// languageChoice is one entry of the report language keyboard.
type languageChoice struct {
	Code  string
	Label string
	Emoji string
}

// languageChoices lists the report languages in keyboard order. "original"
// means "whatever language the meeting was held in".
var languageChoices = []languageChoice{
	{"ru", "Русский", "🇷🇺"},
	{"en", "English", "🇬🇧"},
	{"kk", "Қазақша", "🇰🇿"},
	{"es", "Español", "🇪🇸"},
	{"zh", "中文", "🇨🇳"},
	{"original", "Original", "🌐"},
}

// languageLabel returns the human label for a language code, falling back to
// the code itself.
func languageLabel(code string) string {
	for _, c := range languageChoices {
		if c.Code == code {
			return c.Emoji + " " + c.Label
		}
	}
	return code
}

// languageKeyboard builds the button rows for picking a report language.
// action distinguishes the flow the choice feeds into ("analyze" or
// "rerender") and is embedded in the custom ID.
func languageKeyboard(action string) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, c := range languageChoices {
		row = append(row, discordgo.Button{
			Label:    c.Emoji + " " + c.Label,
			Style:    discordgo.SecondaryButton,
			CustomID: langComponentPrefix + action + ":" + c.Code,
		})
		// Discord allows at most five buttons per action row.
		if len(row) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

// runPhases is the phase checklist shown in the live status message, in
// execution order.
var runPhases = []struct {
	phase pipeline.Phase
	label string
}{
	{pipeline.PhaseDownload, "Downloading sources"},
	{pipeline.PhaseTranscribe, "Transcribing"},
	{pipeline.PhaseMerge, "Merging transcripts"},
	{pipeline.PhaseAnalyze, "Analyzing"},
	{pipeline.PhaseRender, "Rendering reports"},
}

// statusText renders the phase checklist with reached as the active phase.
// An empty reached marks the first phase active. Phases not listed in
// phases are skipped, which lets a re-render show only analyze/render.
func statusText(reached pipeline.Phase, rerender bool) string {
	var b strings.Builder
	if rerender {
		b.WriteString("🔄 **Re-rendering report…**\n")
	} else {
		b.WriteString("🔄 **Analyzing meeting…**\n")
	}

	activeSeen := false
	for _, p := range runPhases {
		if rerender && p.phase != pipeline.PhaseAnalyze && p.phase != pipeline.PhaseRender {
			continue
		}
		mark := "✅"
		switch {
		case !activeSeen && (reached == "" || reached == p.phase):
			mark = "⏳"
			activeSeen = true
		case activeSeen:
			mark = "▫️"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, p.label)
	}
	return strings.TrimRight(b.String(), "\n")
}

// userErrorMessage phrases a run failure for the channel. Expected
// rejections get friendly wording; everything else gets a bounded excerpt of
// the underlying error.
func userErrorMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrBusy):
		return "⏳ Already working on an analysis in this channel — wait for it to finish."
	case errors.Is(err, session.ErrNoSources):
		return "🤷 Nothing to analyze yet. Upload a recording or paste a link first."
	case errors.Is(err, session.ErrNoCache):
		return "🤔 Nothing analyzed in this channel yet — run /analyze before /rerender."
	case errors.Is(err, pipeline.ErrNoUsableSource):
		return "😞 None of the sources could be processed. Check the files and links, then try again."
	default:
		return "❌ Analysis failed: " + analysis.Truncate(err.Error(), errorExcerptBudget)
	}
}

// caption returns the delivery caption for a rendered artifact by file
// extension.
func caption(name string) string {
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return "📕 PDF report"
	case strings.HasSuffix(name, ".html"):
		return "🌐 Interactive report — open in a browser"
	case strings.HasSuffix(name, ".txt"):
		return "📝 Full transcript"
	default:
		return "📎 " + name
	}
}

// intakeReply summarizes what happened to an incoming message's attachments
// and links. Returns "" when there is nothing worth saying.
func intakeReply(queuedFiles, queuedLinks, rejected []string, busy bool) string {
	if busy {
		return "⏳ An analysis is running — send your files again once it finishes."
	}

	var lines []string
	switch {
	case len(queuedFiles) == 1 && len(queuedLinks) == 0:
		lines = append(lines, fmt.Sprintf("🎙 Queued **%s** — run /analyze when ready.", queuedFiles[0]))
	case len(queuedFiles) == 0 && len(queuedLinks) == 1:
		lines = append(lines, "🔗 Link queued — run /analyze when ready.")
	case len(queuedFiles)+len(queuedLinks) > 1:
		lines = append(lines, fmt.Sprintf("📥 Queued %d sources — run /analyze when ready.",
			len(queuedFiles)+len(queuedLinks)))
	}

	for _, name := range rejected {
		lines = append(lines, fmt.Sprintf("⚠️ **%s** is not a supported recording or link, skipping.", name))
	}
	return strings.Join(lines, "\n")
}

// channelStatus renders the /status reply.
func channelStatus(files, links int, processing, hasCache bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Queued: %d file(s), %d link(s)\n", files, links)
	if processing {
		b.WriteString("⚙️ A run is in progress.\n")
	}
	if hasCache {
		b.WriteString("💾 A finished analysis is cached — /rerender is available.")
	} else {
		b.WriteString("💾 No cached analysis yet.")
	}
	return strings.TrimRight(b.String(), "\n")
}
