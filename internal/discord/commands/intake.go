package commands

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/protokollo/protokollo/internal/media"
	"github.com/protokollo/protokollo/internal/session"
)

// HandleMessage queues uploaded recordings and recognized links from a
// channel message for the next analysis run. Bot-authored messages are
// already filtered by the caller.
func (c *Commands) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	files, rejectedFiles := classifyAttachments(m.Attachments)
	links, rejectedLinks := extractLinks(m.Content)
	if len(files) == 0 && len(links) == 0 && len(rejectedFiles) == 0 && len(rejectedLinks) == 0 {
		return
	}

	sess := c.store.GetOrCreate(m.ChannelID)

	var queuedFiles, queuedLinks []string
	busy := false
	for _, f := range files {
		if err := sess.AddFile(f); err != nil {
			busy = true
			break
		}
		queuedFiles = append(queuedFiles, f.Name)
	}
	if !busy {
		for _, l := range links {
			if err := sess.AddLink(l); err != nil {
				busy = true
				break
			}
			queuedLinks = append(queuedLinks, l)
		}
	}

	if n := len(queuedFiles) + len(queuedLinks); n > 0 && c.metrics != nil {
		c.metrics.RecordSourcesQueued(context.Background(), n)
	}

	rejected := append(rejectedFiles, rejectedLinks...)
	reply := intakeReply(queuedFiles, queuedLinks, rejected, busy)
	if reply == "" {
		return
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		c.log.Warn("intake reply", "channel", m.ChannelID, "err", err)
	}
	c.log.Info("sources queued",
		"channel", m.ChannelID,
		"files", len(queuedFiles),
		"links", len(queuedLinks),
		"rejected", len(rejected),
	)
}

// classifyAttachments splits message attachments into supported media
// sources and rejected file names.
func classifyAttachments(atts []*discordgo.MessageAttachment) (accepted []session.FileSource, rejected []string) {
	for _, att := range atts {
		if att == nil || att.Filename == "" {
			continue
		}
		if media.IsSupported(att.Filename) {
			accepted = append(accepted, session.FileSource{Name: att.Filename, URL: att.URL})
		} else {
			rejected = append(rejected, att.Filename)
		}
	}
	return accepted, rejected
}

// extractLinks scans message text for http(s) URLs and keeps the ones a
// downloader can handle (streaming platforms, cloud drives, direct media).
// Unrecognized URLs are reported back rather than silently dropped.
func extractLinks(content string) (accepted, rejected []string) {
	for _, field := range strings.Fields(content) {
		// Discord wraps suppressed-embed links in angle brackets.
		url := strings.Trim(field, "<>")
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}
		if media.ClassifyURL(url) == media.KindUnsupported {
			rejected = append(rejected, url)
			continue
		}
		accepted = append(accepted, url)
	}
	return accepted, rejected
}
