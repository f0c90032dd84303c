package report

import (
	"regexp"
	"strings"
	"time"
)

const slugMaxLen = 50

var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)

// Slug derives a filesystem-safe name from a meeting topic: punctuation is
// stripped, whitespace collapses to underscores, and the result is capped.
// An empty or fully-stripped topic yields "meeting".
func Slug(topic string) string {
	s := slugStrip.ReplaceAllString(topic, "")
	s = strings.Join(strings.Fields(s), "_")
	if s == "" {
		return "meeting"
	}
	r := []rune(s)
	if len(r) > slugMaxLen {
		s = strings.TrimRight(string(r[:slugMaxLen]), "_")
	}
	return s
}

// Filenames for the three report artifacts share the slug and date stamp so
// a delivered set sorts together.

func PDFName(topic string, at time.Time) string {
	return Slug(topic) + "_" + at.Format("2006-01-02") + "_report.pdf"
}

func HTMLName(topic string, at time.Time) string {
	return Slug(topic) + "_" + at.Format("2006-01-02") + "_interactive.html"
}

func TXTName(topic string, at time.Time) string {
	return Slug(topic) + "_" + at.Format("2006-01-02") + "_transcription.txt"
}
